/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package downloads

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/telemetry"
)

// ErrNotFound is returned when no download matches the requested id.
var ErrNotFound = errors.New("downloads: not found")

// Manager runs the simulated download queue. Each active download owns a
// ticker goroutine that bumps progress by a fixed step until completion;
// the goroutine holds a cancel handle so removal stops it immediately.
type Manager struct {
	db     *gorm.DB
	bus    *events.Bus
	logger zerolog.Logger

	tick time.Duration
	step int

	mu      sync.Mutex
	cancels map[string]chan struct{}
	wg      sync.WaitGroup
}

// NewManager creates the download manager. tick is the progress interval,
// step the per-tick percentage increment.
func NewManager(database *gorm.DB, bus *events.Bus, logger zerolog.Logger, tick time.Duration, step int) *Manager {
	return &Manager{
		db:      database,
		bus:     bus,
		logger:  logger.With().Str("component", "downloads").Logger(),
		tick:    tick,
		step:    step,
		cancels: make(map[string]chan struct{}),
	}
}

// Add queues a simulated download for a catalog item. The record id is the
// item id, so adding an item already in the queue restarts it from zero.
// Series items get a per-episode mirror that advances sequentially as the
// parent progresses.
func (m *Manager) Add(ctx context.Context, item *models.ContentItem, quality string) (*models.Download, error) {
	record := models.Download{
		ID:       item.ID,
		Title:    item.Title,
		Poster:   item.Poster,
		Quality:  quality,
		Status:   models.DownloadDownloading,
		Progress: 0,
		FileSize: FileSize(quality, item.IsSeries()),
		IsSeries: item.IsSeries(),
	}
	for _, ep := range item.EpisodeList {
		record.Episodes = append(record.Episodes, models.EpisodeDownload{
			ID:      ep.ID,
			Season:  ep.Season,
			Episode: ep.Episode,
			Status:  models.DownloadPending,
		})
	}

	err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error
	if err != nil {
		return nil, fmt.Errorf("queue download: %w", err)
	}

	m.startTicker(record.ID)
	telemetry.DownloadsStarted.Inc()
	m.logger.Info().Str("download_id", record.ID).Str("quality", quality).Msg("download queued")
	m.bus.Publish(events.EventDownloadAdded, events.Payload{"id": record.ID, "title": record.Title})
	return &record, nil
}

// Remove drops a download and cancels its ticker if still running.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.stopTicker(id)

	result := m.db.WithContext(ctx).Delete(&models.Download{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("remove download: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	m.bus.Publish(events.EventDownloadRemoved, events.Payload{"id": id})
	return nil
}

// GetByID returns one download.
func (m *Manager) GetByID(ctx context.Context, id string) (*models.Download, error) {
	var record models.Download
	if err := m.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load download: %w", err)
	}
	return &record, nil
}

// List returns all downloads in queue order.
func (m *Manager) List(ctx context.Context) ([]models.Download, error) {
	var records []models.Download
	if err := m.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	return records, nil
}

// GetCompleted returns finished downloads.
func (m *Manager) GetCompleted(ctx context.Context) ([]models.Download, error) {
	var records []models.Download
	err := m.db.WithContext(ctx).
		Where("status = ?", models.DownloadCompleted).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("completed downloads: %w", err)
	}
	return records, nil
}

// ClearCompleted removes every finished download; in-flight ones keep
// running.
func (m *Manager) ClearCompleted(ctx context.Context) error {
	err := m.db.WithContext(ctx).
		Where("status = ?", models.DownloadCompleted).
		Delete(&models.Download{}).Error
	if err != nil {
		return fmt.Errorf("clear completed: %w", err)
	}
	return nil
}

// Import replaces the queue wholesale. Imported records keep whatever
// status and progress the payload carries; in-flight entries do not resume
// ticking.
func (m *Manager) Import(ctx context.Context, records []models.Download) error {
	m.stopAll()

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Download{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("import downloads: %w", err)
	}
	m.logger.Info().Int("count", len(records)).Msg("downloads imported")
	return nil
}

// Close cancels every running ticker and waits for the goroutines to exit.
func (m *Manager) Close() {
	m.stopAll()
	m.wg.Wait()
}

func (m *Manager) startTicker(id string) {
	m.mu.Lock()
	if stop, ok := m.cancels[id]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	m.cancels[id] = stop
	telemetry.DownloadsActive.Set(float64(len(m.cancels)))
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(id, stop)
}

func (m *Manager) stopTicker(id string) {
	m.mu.Lock()
	if stop, ok := m.cancels[id]; ok {
		close(stop)
		delete(m.cancels, id)
	}
	telemetry.DownloadsActive.Set(float64(len(m.cancels)))
	m.mu.Unlock()
}

func (m *Manager) stopAll() {
	m.mu.Lock()
	for id, stop := range m.cancels {
		close(stop)
		delete(m.cancels, id)
	}
	telemetry.DownloadsActive.Set(0)
	m.mu.Unlock()
}

func (m *Manager) run(id string, stop chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			done, err := m.advance(id)
			if err != nil {
				m.logger.Error().Err(err).Str("download_id", id).Msg("progress tick failed")
				return
			}
			if done {
				m.mu.Lock()
				if cur, ok := m.cancels[id]; ok && cur == stop {
					delete(m.cancels, id)
				}
				telemetry.DownloadsActive.Set(float64(len(m.cancels)))
				m.mu.Unlock()
				return
			}
		}
	}
}

// advance applies one progress step. Returns done=true when the record is
// finished or gone.
func (m *Manager) advance(id string) (bool, error) {
	var record models.Download
	err := m.db.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if record.Status == models.DownloadCompleted {
		return true, nil
	}

	record.Progress += m.step
	if record.Progress >= 100 {
		record.Progress = 100
		record.Status = models.DownloadCompleted
	}
	deriveEpisodes(&record)

	if err := m.db.Save(&record).Error; err != nil {
		return false, err
	}

	if record.Status == models.DownloadCompleted {
		telemetry.DownloadsCompleted.Inc()
		m.logger.Info().Str("download_id", id).Msg("download completed")
		m.bus.Publish(events.EventDownloadCompleted, events.Payload{"id": id, "title": record.Title})
		return true, nil
	}
	return false, nil
}

// deriveEpisodes maps the parent's progress onto the episode mirror.
// Episodes download one at a time: each owns an equal slice of the parent
// span, finishing before the next leaves pending.
func deriveEpisodes(record *models.Download) {
	n := len(record.Episodes)
	if n == 0 {
		return
	}

	span := 100.0 / float64(n)
	for i := range record.Episodes {
		start := float64(i) * span
		ep := &record.Episodes[i]
		switch {
		case record.Progress >= 100:
			ep.Progress = 100
			ep.Status = models.DownloadCompleted
		case float64(record.Progress) <= start:
			ep.Progress = 0
			ep.Status = models.DownloadPending
		case float64(record.Progress) >= start+span:
			ep.Progress = 100
			ep.Status = models.DownloadCompleted
		default:
			ep.Progress = int((float64(record.Progress) - start) / span * 100)
			ep.Status = models.DownloadDownloading
		}
	}
}
