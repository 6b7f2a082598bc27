/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package audit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
)

// watchedEvents lists the bus events the activity feed records.
var watchedEvents = []events.EventType{
	events.EventContentCreated,
	events.EventContentUpdated,
	events.EventContentDeleted,
	events.EventContentImported,
	events.EventGenreCreated,
	events.EventGenreDeleted,
	events.EventCategoryCreated,
	events.EventCategoryDeleted,
	events.EventUserCreated,
	events.EventUserUpdated,
	events.EventUserDeleted,
	events.EventSettingsUpdated,
	events.EventSettingsImported,
	events.EventAuditLogin,
	events.EventAuditLoginFailed,
	events.EventAuditLogout,
	events.EventAuditBackupCreated,
	events.EventAuditBackupRestore,
}

// Service tails the event bus and persists an activity feed row per
// mutation.
type Service struct {
	db     *gorm.DB
	bus    *events.Bus
	logger zerolog.Logger

	wg   sync.WaitGroup
	subs map[events.EventType]events.Subscriber
}

func NewService(database *gorm.DB, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:     database,
		bus:    bus,
		logger: logger.With().Str("component", "audit").Logger(),
		subs:   make(map[events.EventType]events.Subscriber),
	}
}

// Start subscribes to every watched event type. One goroutine drains each
// subscription until Stop.
func (s *Service) Start() {
	for _, eventType := range watchedEvents {
		sub := s.bus.Subscribe(eventType)
		s.subs[eventType] = sub

		s.wg.Add(1)
		go func(eventType events.EventType, sub events.Subscriber) {
			defer s.wg.Done()
			for payload := range sub {
				s.record(eventType, payload)
			}
		}(eventType, sub)
	}
	s.logger.Info().Int("event_types", len(watchedEvents)).Msg("audit trail started")
}

// Stop unsubscribes and waits for the drain goroutines to exit.
func (s *Service) Stop() {
	for eventType, sub := range s.subs {
		s.bus.Unsubscribe(eventType, sub)
		delete(s.subs, eventType)
	}
	s.wg.Wait()
}

func (s *Service) record(eventType events.EventType, payload events.Payload) {
	entity, action := splitEventType(eventType)

	row := models.AuditLog{
		ID:       uuid.NewString(),
		Actor:    stringField(payload, "username"),
		Action:   action,
		Entity:   entity,
		EntityID: stringField(payload, "id"),
		Detail:   detailFrom(payload),
	}

	if err := s.db.Create(&row).Error; err != nil {
		s.logger.Error().Err(err).Str("event", string(eventType)).Msg("audit row write failed")
	}
}

// Recent returns the latest feed entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.AuditLog
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load audit feed: %w", err)
	}
	return rows, nil
}

// splitEventType maps "genre.created" to entity "genre", action "created".
// The audit.* prefix of session and backup events is dropped.
func splitEventType(eventType events.EventType) (entity, action string) {
	parts := strings.Split(string(eventType), ".")
	if parts[0] == "audit" && len(parts) > 1 {
		parts = parts[1:]
	}
	entity = parts[0]
	if len(parts) > 1 {
		action = parts[len(parts)-1]
	}
	return entity, action
}

func stringField(payload events.Payload, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func detailFrom(payload events.Payload) string {
	if title := stringField(payload, "title"); title != "" {
		return title
	}
	if name := stringField(payload, "name"); name != "" {
		return name
	}
	return ""
}
