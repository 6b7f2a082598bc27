/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package views

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

func newTestService(t *testing.T) *Service {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(&models.ViewCount{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := NewService(database, events.NewBus(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC) }
	return svc
}

func TestAddViewAccumulates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.AddView(ctx, "m1"); err != nil {
			t.Fatalf("add view: %v", err)
		}
	}
	if err := svc.AddView(ctx, "m2"); err != nil {
		t.Fatalf("add view: %v", err)
	}

	got, err := svc.ItemViewsToday(ctx, "m1")
	if err != nil {
		t.Fatalf("item views: %v", err)
	}
	if got != 3 {
		t.Errorf("expected 3 views for m1, got %d", got)
	}

	today, err := svc.TodayViews(ctx)
	if err != nil {
		t.Fatalf("today views: %v", err)
	}
	if today != 4 {
		t.Errorf("expected 4 views today, got %d", today)
	}
}

func TestItemViewsTodayMissingBucket(t *testing.T) {
	svc := newTestService(t)
	got, err := svc.ItemViewsToday(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("item views: %v", err)
	}
	if got != 0 {
		t.Errorf("missing bucket should read zero, got %d", got)
	}
}

func TestViewsForUnknownItemStillCount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.AddView(ctx, "deleted-item"); err != nil {
		t.Fatalf("orphan view must be accepted: %v", err)
	}
	total, err := svc.TotalViews(ctx)
	if err != nil {
		t.Fatalf("total views: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 total view, got %d", total)
	}
}

func TestResetTodayViewsKeepsHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.AddView(ctx, "m1"); err != nil {
		t.Fatalf("add view: %v", err)
	}

	// Shift the clock one day and record again, then reset "today".
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }
	if err := svc.AddView(ctx, "m1"); err != nil {
		t.Fatalf("add view: %v", err)
	}
	if err := svc.ResetTodayViews(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	today, err := svc.TodayViews(ctx)
	if err != nil {
		t.Fatalf("today views: %v", err)
	}
	if today != 0 {
		t.Errorf("today should be zero after reset, got %d", today)
	}

	yesterday, err := svc.ViewsForDate(ctx, "2026-08-31")
	if err != nil {
		t.Fatalf("views for date: %v", err)
	}
	if yesterday != 1 {
		t.Errorf("history must survive reset, got %d", yesterday)
	}

	total, err := svc.TotalViews(ctx)
	if err != nil {
		t.Fatalf("total views: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 surviving view, got %d", total)
	}
}
