/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import "sync"

// EventType enumerates event categories.
type EventType string

const (
	// Catalog events
	EventContentCreated  EventType = "content.created"
	EventContentUpdated  EventType = "content.updated"
	EventContentDeleted  EventType = "content.deleted"
	EventContentImported EventType = "content.imported"

	// Taxonomy events
	EventGenreCreated    EventType = "genre.created"
	EventGenreUpdated    EventType = "genre.updated"
	EventGenreDeleted    EventType = "genre.deleted"
	EventCategoryCreated EventType = "category.created"
	EventCategoryUpdated EventType = "category.updated"
	EventCategoryDeleted EventType = "category.deleted"

	// Engagement events
	EventViewRecorded EventType = "view.recorded"
	EventUserCreated  EventType = "user.created"
	EventUserUpdated  EventType = "user.updated"
	EventUserDeleted  EventType = "user.deleted"

	// Download lifecycle events
	EventDownloadAdded     EventType = "download.added"
	EventDownloadCompleted EventType = "download.completed"
	EventDownloadRemoved   EventType = "download.removed"

	// Settings events
	EventSettingsUpdated  EventType = "settings.updated"
	EventSettingsImported EventType = "settings.imported"

	// Admin session events (for audit logging)
	EventAuditLogin         EventType = "audit.session.login"
	EventAuditLoginFailed   EventType = "audit.session.login_failed"
	EventAuditLogout        EventType = "audit.session.logout"
	EventAuditBackupCreated EventType = "audit.backup.created"
	EventAuditBackupRestore EventType = "audit.backup.restored"
)

// Payload generic event payload.
type Payload map[string]any

// Subscriber receives event payloads.
type Subscriber chan Payload

// Bus implements a simple in-process pubsub.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Subscriber
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventType][]Subscriber)}
}

// Subscribe registers a subscriber for event type.
func (b *Bus) Subscribe(eventType EventType) Subscriber {
	ch := make(Subscriber, 8)
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], ch)
	b.mu.Unlock()
	return ch
}

// Publish sends payload to subscribers. Slow subscribers are skipped rather
// than blocking the publishing store. Sends happen under the read lock:
// Unsubscribe closes channels under the write lock, so a send can never
// land on a closed channel.
func (b *Bus) Publish(eventType EventType, payload Payload) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs[eventType] {
		select {
		case sub <- payload:
		default:
		}
	}
}

// Unsubscribe removes the subscriber.
func (b *Bus) Unsubscribe(eventType EventType, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[eventType]
	for i, candidate := range subs {
		if candidate == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	b.subs[eventType] = subs
	close(sub)
}
