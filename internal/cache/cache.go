/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package cache provides a Redis-based caching layer for hot catalog reads.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/streamsphere/hub/internal/models"
)

// Default TTL values for different cache types
const (
	DefaultCatalogTTL  = 5 * time.Minute
	DefaultTaxonomyTTL = 30 * time.Minute
	DefaultSettingsTTL = 1 * time.Hour
)

// Key prefixes for Redis cache
const (
	KeyCatalog    = "streamsphere:cache:catalog"
	KeyGenres     = "streamsphere:cache:genres"
	KeyCategories = "streamsphere:cache:categories"
	KeySettings   = "streamsphere:cache:settings"
)

// Config contains cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogTTL  time.Duration
	TaxonomyTTL time.Duration
	SettingsTTL time.Duration

	// DisableOnError trips the circuit breaker on the first Redis error.
	DisableOnError bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr:      "localhost:6379",
		CatalogTTL:     DefaultCatalogTTL,
		TaxonomyTTL:    DefaultTaxonomyTTL,
		SettingsTTL:    DefaultSettingsTTL,
		DisableOnError: true,
	}
}

// Cache provides Redis-backed caching with graceful fallback: when Redis
// is unreachable every lookup is a miss and the stores serve from the
// database.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
	config Config

	mu       sync.RWMutex
	disabled bool
}

// New creates a new cache instance. An unreachable Redis is not an error;
// the cache starts disabled.
func New(cfg Config, logger zerolog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Redis cache unavailable, running without caching")
		return &Cache{
			logger:   logger.With().Str("component", "cache").Logger(),
			config:   cfg,
			disabled: true,
		}, nil
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis cache initialized")

	return &Cache{
		client: client,
		logger: logger.With().Str("component", "cache").Logger(),
		config: cfg,
	}, nil
}

// NewDisabled creates a cache that never connects to Redis. Every lookup
// is a miss and every write is a no-op.
func NewDisabled(logger zerolog.Logger) *Cache {
	return &Cache{
		logger:   logger.With().Str("component", "cache").Logger(),
		config:   DefaultConfig(),
		disabled: true,
	}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAvailable returns true if the cache is operational.
func (c *Cache) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

func (c *Cache) handleError(err error, operation string) {
	if err == nil || err == redis.Nil {
		return
	}

	c.logger.Debug().Err(err).Str("operation", operation).Msg("cache operation failed")

	if c.config.DisableOnError {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Warn().Msg("disabling cache due to Redis error")
	}
}

func (c *Cache) get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.IsAvailable() {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.handleError(err, "get")
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
		return false, nil
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.IsAvailable() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.handleError(err, "set")
		return err
	}
	return nil
}

func (c *Cache) delete(ctx context.Context, keys ...string) error {
	if !c.IsAvailable() {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.handleError(err, "delete")
		return err
	}
	return nil
}

// GetCatalog retrieves the cached catalog list.
func (c *Cache) GetCatalog(ctx context.Context) ([]models.ContentItem, bool) {
	var items []models.ContentItem
	found, err := c.get(ctx, KeyCatalog, &items)
	if err != nil || !found {
		return nil, false
	}
	c.logger.Debug().Int("count", len(items)).Msg("catalog cache hit")
	return items, true
}

// SetCatalog caches the catalog list.
func (c *Cache) SetCatalog(ctx context.Context, items []models.ContentItem) error {
	return c.set(ctx, KeyCatalog, items, c.config.CatalogTTL)
}

// InvalidateCatalog removes the catalog list from cache.
func (c *Cache) InvalidateCatalog(ctx context.Context) error {
	c.logger.Debug().Msg("invalidating catalog cache")
	return c.delete(ctx, KeyCatalog)
}

// GetGenres retrieves the cached genre list.
func (c *Cache) GetGenres(ctx context.Context) ([]models.Genre, bool) {
	var genres []models.Genre
	found, err := c.get(ctx, KeyGenres, &genres)
	if err != nil || !found {
		return nil, false
	}
	return genres, true
}

// SetGenres caches the genre list.
func (c *Cache) SetGenres(ctx context.Context, genres []models.Genre) error {
	return c.set(ctx, KeyGenres, genres, c.config.TaxonomyTTL)
}

// GetCategories retrieves the cached category list.
func (c *Cache) GetCategories(ctx context.Context) ([]models.Category, bool) {
	var categories []models.Category
	found, err := c.get(ctx, KeyCategories, &categories)
	if err != nil || !found {
		return nil, false
	}
	return categories, true
}

// SetCategories caches the category list.
func (c *Cache) SetCategories(ctx context.Context, categories []models.Category) error {
	return c.set(ctx, KeyCategories, categories, c.config.TaxonomyTTL)
}

// InvalidateTaxonomy removes both taxonomy lists from cache.
func (c *Cache) InvalidateTaxonomy(ctx context.Context) error {
	c.logger.Debug().Msg("invalidating taxonomy caches")
	return c.delete(ctx, KeyGenres, KeyCategories)
}

// GetSettings retrieves the cached settings record.
func (c *Cache) GetSettings(ctx context.Context) (*models.SettingsRecord, bool) {
	var record models.SettingsRecord
	found, err := c.get(ctx, KeySettings, &record)
	if err != nil || !found {
		return nil, false
	}
	return &record, true
}

// SetSettings caches the settings record.
func (c *Cache) SetSettings(ctx context.Context, record *models.SettingsRecord) error {
	return c.set(ctx, KeySettings, record, c.config.SettingsTTL)
}

// InvalidateSettings removes the settings record from cache.
func (c *Cache) InvalidateSettings(ctx context.Context) error {
	c.logger.Debug().Msg("invalidating settings cache")
	return c.delete(ctx, KeySettings)
}
