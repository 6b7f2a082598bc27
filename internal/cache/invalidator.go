/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package cache

import (
	"context"
	"sync"

	"github.com/streamsphere/hub/internal/events"
)

// Invalidator tails mutation events and drops the matching cache entries,
// so cached reads never outlive a write by more than the bus hop.
type Invalidator struct {
	cache *Cache
	bus   *events.Bus

	wg   sync.WaitGroup
	subs map[events.EventType]events.Subscriber
}

func NewInvalidator(cache *Cache, bus *events.Bus) *Invalidator {
	return &Invalidator{
		cache: cache,
		bus:   bus,
		subs:  make(map[events.EventType]events.Subscriber),
	}
}

// Start subscribes to every mutation event that can stale a cache entry.
func (inv *Invalidator) Start() {
	watch := map[events.EventType]func(context.Context) error{
		events.EventContentCreated:     inv.cache.InvalidateCatalog,
		events.EventContentUpdated:     inv.cache.InvalidateCatalog,
		events.EventContentDeleted:     inv.cache.InvalidateCatalog,
		events.EventContentImported:    inv.cache.InvalidateCatalog,
		events.EventGenreCreated:       inv.cache.InvalidateTaxonomy,
		events.EventGenreUpdated:       inv.cache.InvalidateTaxonomy,
		events.EventGenreDeleted:       inv.cache.InvalidateTaxonomy,
		events.EventCategoryCreated:    inv.cache.InvalidateTaxonomy,
		events.EventCategoryUpdated:    inv.cache.InvalidateTaxonomy,
		events.EventCategoryDeleted:    inv.cache.InvalidateTaxonomy,
		events.EventSettingsUpdated:    inv.cache.InvalidateSettings,
		events.EventSettingsImported:   inv.cache.InvalidateSettings,
		events.EventAuditBackupRestore: inv.invalidateAll,
	}

	for eventType, invalidate := range watch {
		sub := inv.bus.Subscribe(eventType)
		inv.subs[eventType] = sub

		inv.wg.Add(1)
		go func(sub events.Subscriber, invalidate func(context.Context) error) {
			defer inv.wg.Done()
			for range sub {
				_ = invalidate(context.Background())
			}
		}(sub, invalidate)
	}
}

// Stop unsubscribes and waits for the drain goroutines.
func (inv *Invalidator) Stop() {
	for eventType, sub := range inv.subs {
		inv.bus.Unsubscribe(eventType, sub)
		delete(inv.subs, eventType)
	}
	inv.wg.Wait()
}

func (inv *Invalidator) invalidateAll(ctx context.Context) error {
	if err := inv.cache.InvalidateCatalog(ctx); err != nil {
		return err
	}
	if err := inv.cache.InvalidateTaxonomy(ctx); err != nil {
		return err
	}
	return inv.cache.InvalidateSettings(ctx)
}
