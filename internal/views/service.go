/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package views

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/telemetry"
)

// Service keeps per-item, per-day view tallies.
type Service struct {
	db     *gorm.DB
	bus    *events.Bus
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(database *gorm.DB, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:     database,
		bus:    bus,
		logger: logger.With().Str("component", "views").Logger(),
		now:    time.Now,
	}
}

// AddView bumps the counter for an item under today's date bucket. Item ids
// are not checked against the catalog; orphan tallies are allowed.
func (s *Service) AddView(ctx context.Context, itemID string) error {
	row := models.ViewCount{Date: models.DateKey(s.now()), ItemID: itemID, Count: 1}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}

	telemetry.ViewsRecorded.Inc()
	s.bus.Publish(events.EventViewRecorded, events.Payload{"item_id": itemID, "date": row.Date})
	return nil
}

// TodayViews sums all views recorded under today's bucket.
func (s *Service) TodayViews(ctx context.Context) (int64, error) {
	return s.sumForDate(ctx, models.DateKey(s.now()))
}

// ViewsForDate sums all views for a specific date key (YYYY-MM-DD).
func (s *Service) ViewsForDate(ctx context.Context, date string) (int64, error) {
	return s.sumForDate(ctx, date)
}

func (s *Service) sumForDate(ctx context.Context, date string) (int64, error) {
	var total struct{ Total int64 }
	err := s.db.WithContext(ctx).Model(&models.ViewCount{}).
		Select("COALESCE(SUM(count), 0) AS total").
		Where("date = ?", date).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum views: %w", err)
	}
	return total.Total, nil
}

// TotalViews sums every bucket ever recorded.
func (s *Service) TotalViews(ctx context.Context) (int64, error) {
	var total struct{ Total int64 }
	err := s.db.WithContext(ctx).Model(&models.ViewCount{}).
		Select("COALESCE(SUM(count), 0) AS total").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum views: %w", err)
	}
	return total.Total, nil
}

// ItemViewsToday returns today's tally for one item. Missing buckets read
// as zero.
func (s *Service) ItemViewsToday(ctx context.Context, itemID string) (int64, error) {
	var row models.ViewCount
	err := s.db.WithContext(ctx).
		Where("date = ? AND item_id = ?", models.DateKey(s.now()), itemID).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("item views: %w", err)
	}
	return int64(row.Count), nil
}

// ResetTodayViews drops today's bucket for every item. Historical days are
// untouched.
func (s *Service) ResetTodayViews(ctx context.Context) error {
	date := models.DateKey(s.now())
	if err := s.db.WithContext(ctx).Where("date = ?", date).Delete(&models.ViewCount{}).Error; err != nil {
		return fmt.Errorf("reset today views: %w", err)
	}
	s.logger.Info().Str("date", date).Msg("today's view counters reset")
	return nil
}
