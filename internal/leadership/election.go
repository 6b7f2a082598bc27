/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package leadership elects a single auto-backup leader across server
// instances sharing one Redis. Without it every replica would write its
// own archive on each interval.
package leadership

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/streamsphere/hub/internal/telemetry"
)

const (
	defaultElectionKey = "streamsphere:leader:autobackup"

	// Lease must outlive two renewal intervals or leadership flaps.
	defaultLeaseDuration = 15 * time.Second
	defaultRetryInterval = 5 * time.Second
)

// ElectionConfig configures the Redis lease.
type ElectionConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ElectionKey is the Redis key holding the current leader id.
	ElectionKey string
	// LeaseDuration is how long a leader claim lasts without renewal.
	LeaseDuration time.Duration
	// RetryInterval is how often instances claim or renew the lease.
	RetryInterval time.Duration
	// InstanceID identifies this process in the election.
	InstanceID string
}

// Election holds a renewable Redis lease. The instance owning the lease
// is the leader; everyone else polls until the lease lapses.
type Election struct {
	client     *redis.Client
	logger     zerolog.Logger
	config     ElectionConfig
	instanceID string

	mu       sync.RWMutex
	isLeader bool

	cancel context.CancelFunc
}

// NewElection connects to Redis and prepares the election. It does not
// start campaigning until Start is called.
func NewElection(config ElectionConfig, logger zerolog.Logger) (*Election, error) {
	if config.ElectionKey == "" {
		config.ElectionKey = defaultElectionKey
	}
	if config.LeaseDuration == 0 {
		config.LeaseDuration = defaultLeaseDuration
	}
	if config.RetryInterval == 0 {
		config.RetryInterval = defaultRetryInterval
	}
	if config.InstanceID == "" {
		config.InstanceID = uuid.New().String()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to Redis for leader election: %w", err)
	}

	logger.Info().
		Str("redis_addr", config.RedisAddr).
		Str("instance_id", config.InstanceID).
		Msg("leader election ready")

	return &Election{
		client:     client,
		logger:     logger.With().Str("component", "leader_election").Logger(),
		config:     config,
		instanceID: config.InstanceID,
	}, nil
}

// Start begins campaigning in the background.
func (e *Election) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.logger.Info().
		Dur("lease", e.config.LeaseDuration).
		Msg("starting leader election")

	go e.campaign(ctx)
}

// Stop ends the campaign, releases the lease if held, and closes the
// Redis connection.
func (e *Election) Stop() error {
	if e.cancel != nil {
		e.cancel()
	}

	if e.IsLeader() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.release(ctx); err != nil {
			e.logger.Error().Err(err).Msg("failed to release leadership lease")
		}
	}

	return e.client.Close()
}

// IsLeader reports whether this instance currently holds the lease.
func (e *Election) IsLeader() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.isLeader
}

// CurrentLeader returns the instance id holding the lease, or empty when
// no leader is elected.
func (e *Election) CurrentLeader(ctx context.Context) (string, error) {
	id, err := e.client.Get(ctx, e.config.ElectionKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read leader key: %w", err)
	}
	return id, nil
}

func (e *Election) campaign(ctx context.Context) {
	ticker := time.NewTicker(e.config.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			held, err := e.claim(ctx)
			if err != nil {
				e.logger.Error().Err(err).Msg("leadership claim failed")
				e.setLeader(false)
				continue
			}
			e.setLeader(held)
		}
	}
}

// claim acquires the lease when free, or renews it when already held by
// this instance.
func (e *Election) claim(ctx context.Context) (bool, error) {
	acquired, err := e.client.SetNX(ctx, e.config.ElectionKey, e.instanceID, e.config.LeaseDuration).Result()
	if err != nil {
		return false, fmt.Errorf("set lease: %w", err)
	}
	if acquired {
		return true, nil
	}

	holder, err := e.client.Get(ctx, e.config.ElectionKey).Result()
	if err == redis.Nil {
		// Lease lapsed between SetNX and Get; next tick retries.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read lease holder: %w", err)
	}

	if holder == e.instanceID {
		if err := e.client.Expire(ctx, e.config.ElectionKey, e.config.LeaseDuration).Err(); err != nil {
			return false, fmt.Errorf("renew lease: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// release deletes the lease only when this instance still owns it.
func (e *Election) release(ctx context.Context) error {
	script := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`
	if err := e.client.Eval(ctx, script, []string{e.config.ElectionKey}, e.instanceID).Err(); err != nil {
		return fmt.Errorf("release lease: %w", err)
	}
	e.logger.Info().Msg("released leadership lease")
	return nil
}

func (e *Election) setLeader(isLeader bool) {
	e.mu.Lock()
	changed := e.isLeader != isLeader
	e.isLeader = isLeader
	e.mu.Unlock()
	if !changed {
		return
	}

	if isLeader {
		e.logger.Info().Str("instance_id", e.instanceID).Msg("acquired leadership")
		telemetry.LeaderStatus.Set(1)
	} else {
		e.logger.Warn().Str("instance_id", e.instanceID).Msg("lost leadership")
		telemetry.LeaderStatus.Set(0)
	}
	telemetry.LeaderChanges.Inc()
}
