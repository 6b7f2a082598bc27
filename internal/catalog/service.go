/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/telemetry"
)

// ErrNotFound is returned when no catalog item matches the requested id.
var ErrNotFound = errors.New("catalog: not found")

// SyncStatus is the advisory sync marker flipped by mutations. It is not
// backed by any real network call; the local mutation always succeeds
// regardless of the flag.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// trendingThreshold is the minimum rating for the trending query.
const trendingThreshold = 8.5

// Patch carries partial content updates; nil fields are left untouched. The
// item id is immutable and has no patch field.
type Patch struct {
	Title       *string
	Year        *int
	Rating      *float64
	Duration    *string
	Genres      *[]string
	Description *string
	Poster      *string
	Backdrop    *string
	Quality     *string
	Type        *models.ContentType

	Seasons     *int
	Episodes    *int
	EpisodeList *[]models.Episode

	Servers     *[]string
	TrailerURL  *string
	EmbedCode   *string
	DownloadURL *string

	Slug            *string
	MetaTitle       *string
	MetaDescription *string
	Keywords        *[]string
	OGImage         *string

	Categories *[]string
}

// Service owns the content catalog store.
type Service struct {
	db     *gorm.DB
	bus    *events.Bus
	logger zerolog.Logger
	now    func() time.Time

	mu         sync.Mutex
	online     bool
	syncStatus SyncStatus
	lastSync   time.Time
	resetTimer *time.Timer

	// syncResetDelay is how long the advisory flag shows success/error
	// before reverting to idle.
	syncResetDelay time.Duration
}

// NewService creates the catalog service. The service starts online.
func NewService(database *gorm.DB, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:             database,
		bus:            bus,
		logger:         logger.With().Str("component", "catalog").Logger(),
		now:            time.Now,
		online:         true,
		syncStatus:     SyncIdle,
		syncResetDelay: time.Second,
	}
}

// Add prepends a new item to the catalog. The id is synthesized from the
// current time and immutable afterwards. No field validation is performed;
// duplicate titles and out-of-range ratings are stored as given.
func (s *Service) Add(ctx context.Context, item models.ContentItem) (*models.ContentItem, error) {
	item.ID = models.TimeID(s.now())
	normalizeByType(&item)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var minPos struct{ Min int }
		if err := tx.Model(&models.ContentItem{}).Select("COALESCE(MIN(position), 0) AS min").Scan(&minPos).Error; err != nil {
			return err
		}
		item.Position = minPos.Min - 1
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create content item: %w", err)
	}

	s.markSynced()
	s.updateItemGauge(ctx)
	s.logger.Info().Str("content_id", item.ID).Str("title", item.Title).Msg("content item added")
	s.bus.Publish(events.EventContentCreated, events.Payload{"id": item.ID, "title": item.Title, "type": item.Type})
	return &item, nil
}

// Update merges non-nil patch fields into the stored item.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load content item: %w", err)
	}

	applyPatch(&item, patch)
	normalizeByType(&item)

	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, fmt.Errorf("update content item: %w", err)
	}

	s.markSynced()
	s.bus.Publish(events.EventContentUpdated, events.Payload{"id": item.ID})
	return &item, nil
}

// Delete removes an item by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.ContentItem{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete content item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.markSynced()
	s.updateItemGauge(ctx)
	s.bus.Publish(events.EventContentDeleted, events.Payload{"id": id})
	return nil
}

// GetByID returns one item.
func (s *Service) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load content item: %w", err)
	}
	return &item, nil
}

// List returns the catalog newest-first (prepend order).
func (s *Service) List(ctx context.Context) ([]models.ContentItem, error) {
	var items []models.ContentItem
	if err := s.db.WithContext(ctx).Order("position ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return items, nil
}

// Import replaces the entire collection wholesale, preserving payload order.
// Used for backup restore.
func (s *Service) Import(ctx context.Context, items []models.ContentItem) error {
	for i := range items {
		items[i].Position = i
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ContentItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return fmt.Errorf("import content: %w", err)
	}

	s.markSynced()
	s.updateItemGauge(ctx)
	s.logger.Info().Int("count", len(items)).Msg("catalog imported")
	s.bus.Publish(events.EventContentImported, events.Payload{"count": len(items)})
	return nil
}

// Featured returns the first four catalog items.
func (s *Service) Featured(ctx context.Context) ([]models.ContentItem, error) {
	var items []models.ContentItem
	if err := s.db.WithContext(ctx).Order("position ASC, id ASC").Limit(4).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("featured content: %w", err)
	}
	return items, nil
}

// Trending returns items rated at or above the trending threshold.
func (s *Service) Trending(ctx context.Context) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := s.db.WithContext(ctx).
		Where("rating >= ?", trendingThreshold).
		Order("position ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("trending content: %w", err)
	}
	return items, nil
}

// Latest returns items from the current year.
func (s *Service) Latest(ctx context.Context) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := s.db.WithContext(ctx).
		Where("year = ?", s.now().Year()).
		Order("position ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("latest content: %w", err)
	}
	return items, nil
}

// Series returns all items of type series.
func (s *Service) Series(ctx context.Context) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := s.db.WithContext(ctx).
		Where("type = ?", models.ContentSeries).
		Order("position ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("series content: %w", err)
	}
	return items, nil
}

// ByGenre returns items whose genre list contains the given genre name.
// Genre lists are JSON columns, so the match is done in memory.
func (s *Service) ByGenre(ctx context.Context, genre string) ([]models.ContentItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := items[:0]
	for _, item := range items {
		for _, g := range item.Genres {
			if g == genre {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched, nil
}

// ByCategory returns items whose category list contains the given slug.
func (s *Service) ByCategory(ctx context.Context, slug string) ([]models.ContentItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := items[:0]
	for _, item := range items {
		for _, c := range item.Categories {
			if c == slug {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched, nil
}

// SetOnline toggles the simulated connectivity state consulted by the
// advisory sync marker.
func (s *Service) SetOnline(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
}

// SyncState returns the advisory sync flag and the last sync timestamp.
func (s *Service) SyncState() (SyncStatus, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncStatus, s.lastSync
}

// SyncWithServer runs the simulated sync cycle: syncing, then success (or
// error when offline), then back to idle after the reset delay. No data
// moves anywhere.
func (s *Service) SyncWithServer(ctx context.Context) error {
	s.mu.Lock()
	if !s.online {
		s.syncStatus = SyncError
		s.scheduleResetLocked()
		s.mu.Unlock()
		s.logger.Warn().Msg("cannot sync: offline")
		return errors.New("catalog: offline")
	}
	s.syncStatus = SyncSyncing
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.syncResetDelay):
	}

	s.mu.Lock()
	s.syncStatus = SyncSuccess
	s.lastSync = s.now()
	s.scheduleResetLocked()
	s.mu.Unlock()
	return nil
}

// Close stops any pending sync flag reset timer.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
}

// updateItemGauge refreshes the stored-items gauge after a mutation.
func (s *Service) updateItemGauge(ctx context.Context) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.ContentItem{}).Count(&total).Error; err != nil {
		s.logger.Warn().Err(err).Msg("content item count failed")
		return
	}
	telemetry.ContentItemsTotal.Set(float64(total))
}

// markSynced stamps the advisory marker after a successful local mutation.
// Offline, the flag shows error instead of success, but the mutation that
// triggered it has already been persisted.
func (s *Service) markSynced() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSync = s.now()
	if s.online {
		s.syncStatus = SyncSuccess
	} else {
		s.syncStatus = SyncError
	}
	s.scheduleResetLocked()
}

func (s *Service) scheduleResetLocked() {
	if s.resetTimer != nil {
		s.resetTimer.Stop()
	}
	s.resetTimer = time.AfterFunc(s.syncResetDelay, func() {
		s.mu.Lock()
		s.syncStatus = SyncIdle
		s.mu.Unlock()
	})
}

// normalizeByType enforces the type invariant: movies carry no series
// fields.
func normalizeByType(item *models.ContentItem) {
	if item.Type != models.ContentSeries {
		item.Seasons = 0
		item.Episodes = 0
		item.EpisodeList = nil
	}
}

func applyPatch(item *models.ContentItem, patch Patch) {
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Year != nil {
		item.Year = *patch.Year
	}
	if patch.Rating != nil {
		item.Rating = *patch.Rating
	}
	if patch.Duration != nil {
		item.Duration = *patch.Duration
	}
	if patch.Genres != nil {
		item.Genres = *patch.Genres
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Poster != nil {
		item.Poster = *patch.Poster
	}
	if patch.Backdrop != nil {
		item.Backdrop = *patch.Backdrop
	}
	if patch.Quality != nil {
		item.Quality = *patch.Quality
	}
	if patch.Type != nil {
		item.Type = *patch.Type
	}
	if patch.Seasons != nil {
		item.Seasons = *patch.Seasons
	}
	if patch.Episodes != nil {
		item.Episodes = *patch.Episodes
	}
	if patch.EpisodeList != nil {
		item.EpisodeList = *patch.EpisodeList
	}
	if patch.Servers != nil {
		item.Servers = *patch.Servers
	}
	if patch.TrailerURL != nil {
		item.TrailerURL = *patch.TrailerURL
	}
	if patch.EmbedCode != nil {
		item.EmbedCode = *patch.EmbedCode
	}
	if patch.DownloadURL != nil {
		item.DownloadURL = *patch.DownloadURL
	}
	if patch.Slug != nil {
		item.Slug = *patch.Slug
	}
	if patch.MetaTitle != nil {
		item.MetaTitle = *patch.MetaTitle
	}
	if patch.MetaDescription != nil {
		item.MetaDescription = *patch.MetaDescription
	}
	if patch.Keywords != nil {
		item.Keywords = *patch.Keywords
	}
	if patch.OGImage != nil {
		item.OGImage = *patch.OGImage
	}
	if patch.Categories != nil {
		item.Categories = *patch.Categories
	}
}
