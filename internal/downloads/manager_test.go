/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package downloads

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
)

func newTestManager(t *testing.T, tick time.Duration, step int) *Manager {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(&models.Download{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	m := NewManager(database, events.NewBus(), zerolog.Nop(), tick, step)
	t.Cleanup(m.Close)
	return m
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func movie(id, title string) *models.ContentItem {
	return &models.ContentItem{ID: id, Title: title, Type: models.ContentMovie}
}

func TestAddStartsDownloading(t *testing.T) {
	m := newTestManager(t, time.Hour, 5)

	record, err := m.Add(context.Background(), movie("m1", "Test Movie"), "Full HD")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if record.Status != models.DownloadDownloading || record.Progress != 0 {
		t.Errorf("fresh download should start at downloading/0: %+v", record)
	}
	if record.FileSize != "1.0 GB" {
		t.Errorf("unexpected file size %q", record.FileSize)
	}
}

func TestProgressRunsToCompletion(t *testing.T) {
	m := newTestManager(t, 2*time.Millisecond, 50)
	ctx := context.Background()

	if _, err := m.Add(ctx, movie("m1", "Quick"), "HD"); err != nil {
		t.Fatalf("add: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		record, err := m.GetByID(ctx, "m1")
		return err == nil && record.Status == models.DownloadCompleted
	})

	record, err := m.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Progress != 100 {
		t.Errorf("completed download must cap at 100, got %d", record.Progress)
	}
}

func TestProgressCapsAtHundredWithUnevenStep(t *testing.T) {
	m := newTestManager(t, 2*time.Millisecond, 33)
	ctx := context.Background()

	if _, err := m.Add(ctx, movie("m1", "Uneven"), "HD"); err != nil {
		t.Fatalf("add: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		record, err := m.GetByID(ctx, "m1")
		return err == nil && record.Status == models.DownloadCompleted
	})

	record, _ := m.GetByID(ctx, "m1")
	if record.Progress != 100 {
		t.Errorf("33+33+33+33 must clamp to 100, got %d", record.Progress)
	}
}

func TestSeriesEpisodesAdvanceSequentially(t *testing.T) {
	m := newTestManager(t, 2*time.Millisecond, 10)
	ctx := context.Background()

	series := &models.ContentItem{
		ID:    "s1",
		Title: "Test Series",
		Type:  models.ContentSeries,
		EpisodeList: []models.Episode{
			{ID: "e1", Season: 1, Episode: 1},
			{ID: "e2", Season: 1, Episode: 2},
		},
	}

	record, err := m.Add(ctx, series, "4K")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if record.FileSize != "3.2 GB" {
		t.Errorf("unexpected series file size %q", record.FileSize)
	}
	if len(record.Episodes) != 2 || record.Episodes[0].Status != models.DownloadPending {
		t.Fatalf("episodes should start pending: %+v", record.Episodes)
	}

	// First half of the parent span belongs to episode one.
	waitFor(t, time.Second, func() bool {
		r, err := m.GetByID(ctx, "s1")
		return err == nil && r.Progress >= 30 && r.Progress < 50
	})
	mid, err := m.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if mid.Episodes[0].Status != models.DownloadDownloading {
		t.Errorf("episode one should be downloading at parent %d: %+v", mid.Progress, mid.Episodes[0])
	}
	if mid.Episodes[1].Status != models.DownloadPending {
		t.Errorf("episode two should still be pending at parent %d: %+v", mid.Progress, mid.Episodes[1])
	}

	waitFor(t, time.Second, func() bool {
		r, err := m.GetByID(ctx, "s1")
		return err == nil && r.Status == models.DownloadCompleted
	})
	done, _ := m.GetByID(ctx, "s1")
	for i, ep := range done.Episodes {
		if ep.Status != models.DownloadCompleted || ep.Progress != 100 {
			t.Errorf("episode %d should be completed: %+v", i, ep)
		}
	}
}

func TestRemoveCancelsTicker(t *testing.T) {
	m := newTestManager(t, 2*time.Millisecond, 5)
	ctx := context.Background()

	if _, err := m.Add(ctx, movie("m1", "Doomed"), "HD"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Remove(ctx, "m1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := m.GetByID(ctx, "m1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if err := m.Remove(ctx, "m1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double remove, got %v", err)
	}
}

func TestReAddRestartsFromZero(t *testing.T) {
	m := newTestManager(t, 2*time.Millisecond, 50)
	ctx := context.Background()

	if _, err := m.Add(ctx, movie("m1", "Restart"), "HD"); err != nil {
		t.Fatalf("add: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		r, err := m.GetByID(ctx, "m1")
		return err == nil && r.Status == models.DownloadCompleted
	})

	record, err := m.Add(ctx, movie("m1", "Restart"), "4K")
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if record.Status != models.DownloadDownloading || record.Progress != 0 {
		t.Errorf("re-add should restart from zero: %+v", record)
	}
	if record.Quality != "4K" {
		t.Errorf("re-add should take the new quality, got %q", record.Quality)
	}

	var count int64
	if err := m.db.Model(&models.Download{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("one record per item, got %d", count)
	}
}

func TestClearCompletedKeepsInFlight(t *testing.T) {
	m := newTestManager(t, time.Hour, 5)
	ctx := context.Background()

	if _, err := m.Add(ctx, movie("m1", "Stalled"), "HD"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Import(ctx, []models.Download{
		{ID: "m1", Title: "Stalled", Status: models.DownloadDownloading, Progress: 40},
		{ID: "m2", Title: "Done", Status: models.DownloadCompleted, Progress: 100},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}

	completed, err := m.GetCompleted(ctx)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != "m2" {
		t.Fatalf("unexpected completed set: %+v", completed)
	}

	if err := m.ClearCompleted(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	remaining, err := m.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "m1" {
		t.Errorf("in-flight download should survive clear: %+v", remaining)
	}
}

func TestImportDoesNotResumeTicking(t *testing.T) {
	m := newTestManager(t, 2*time.Millisecond, 50)
	ctx := context.Background()

	if err := m.Import(ctx, []models.Download{
		{ID: "m1", Title: "Frozen", Status: models.DownloadDownloading, Progress: 40},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	record, err := m.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Progress != 40 {
		t.Errorf("imported record must stay frozen, got %d", record.Progress)
	}
}
