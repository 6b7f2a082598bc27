/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
)

// singletonID is the fixed primary key of the one settings row.
const singletonID = 1

var (
	// ErrInvalidLayout is returned for layout modes outside the known set.
	ErrInvalidLayout = errors.New("settings: invalid layout mode")
	// ErrInvalidLanguage is returned for languages outside the known set.
	ErrInvalidLanguage = errors.New("settings: invalid language")
	// ErrMenuItemNotFound is returned when a menu operation names a
	// missing entry.
	ErrMenuItemNotFound = errors.New("settings: menu item not found")
)

// ExportPayload is the wire shape of a settings export. The same shape is
// embedded in full backups.
type ExportPayload struct {
	Settings      models.SiteSettings   `json:"settings"`
	CodeInjection models.CodeInjection  `json:"codeInjection"`
	MenuItems     []models.MenuItem     `json:"menuItems"`
	Footer        models.FooterSettings `json:"footerSettings"`
	Ads           models.AdSettings     `json:"adSettings"`
}

// Service owns the singleton site configuration. All updates go through
// mutation closures so nested sections are merged in one place and partial
// writes cannot clobber sibling fields.
type Service struct {
	db     *gorm.DB
	bus    *events.Bus
	logger zerolog.Logger
}

func NewService(database *gorm.DB, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:     database,
		bus:    bus,
		logger: logger.With().Str("component", "settings").Logger(),
	}
}

// Get loads the singleton row, creating it from factory defaults on first
// access.
func (s *Service) Get(ctx context.Context) (*models.SettingsRecord, error) {
	var record models.SettingsRecord
	err := s.db.WithContext(ctx).First(&record, singletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = defaultRecord()
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, fmt.Errorf("seed settings: %w", err)
		}
		s.logger.Info().Msg("settings seeded from defaults")
		return &record, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &record, nil
}

// update runs a mutation closure against the loaded row and saves the
// result inside one transaction.
func (s *Service) update(ctx context.Context, mutate func(*models.SettingsRecord) error) (*models.SettingsRecord, error) {
	record, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := mutate(record); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	s.bus.Publish(events.EventSettingsUpdated, events.Payload{})
	return record, nil
}

// UpdateSite mutates the site section in place. Layout mode and language
// are checked against the known sets after the closure runs.
func (s *Service) UpdateSite(ctx context.Context, mutate func(*models.SiteSettings)) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		mutate(&record.Site)
		if !contains(models.ValidLayoutModes, record.Site.LayoutMode) {
			return ErrInvalidLayout
		}
		if !contains(models.ValidLanguages, record.Site.Language) {
			return ErrInvalidLanguage
		}
		return nil
	})
}

// UpdateAdminCredentials mutates only the credential block inside the site
// section.
func (s *Service) UpdateAdminCredentials(ctx context.Context, mutate func(*models.AdminCredentials)) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		mutate(&record.Site.AdminCredentials)
		return nil
	})
}

// UpdateCodeInjection mutates the injection slots.
func (s *Service) UpdateCodeInjection(ctx context.Context, mutate func(*models.CodeInjection)) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		mutate(&record.CodeInjection)
		return nil
	})
}

// UpdateFooter mutates the footer block, social links included.
func (s *Service) UpdateFooter(ctx context.Context, mutate func(*models.FooterSettings)) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		mutate(&record.Footer)
		return nil
	})
}

// UpdateAds mutates the ad configuration. The closure receives the whole
// aggregate so nested AdMob, brand promotion and popup blocks merge
// field-by-field instead of being replaced wholesale.
func (s *Service) UpdateAds(ctx context.Context, mutate func(*models.AdSettings)) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		mutate(&record.Ads)
		return nil
	})
}

// SetMenuItems replaces the navigation list wholesale.
func (s *Service) SetMenuItems(ctx context.Context, items []models.MenuItem) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		record.MenuItems = items
		return nil
	})
}

// AddMenuItem appends one navigation entry.
func (s *Service) AddMenuItem(ctx context.Context, item models.MenuItem) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		record.MenuItems = append(record.MenuItems, item)
		return nil
	})
}

// RemoveMenuItem drops the entry with the given id.
func (s *Service) RemoveMenuItem(ctx context.Context, id string) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		kept := record.MenuItems[:0]
		found := false
		for _, item := range record.MenuItems {
			if item.ID == id {
				found = true
				continue
			}
			kept = append(kept, item)
		}
		if !found {
			return ErrMenuItemNotFound
		}
		record.MenuItems = kept
		return nil
	})
}

// ToggleMenuItem flips one entry's visibility.
func (s *Service) ToggleMenuItem(ctx context.Context, id string) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		for i := range record.MenuItems {
			if record.MenuItems[i].ID == id {
				record.MenuItems[i].Visible = !record.MenuItems[i].Visible
				return nil
			}
		}
		return ErrMenuItemNotFound
	})
}

// MoveMenuItem swaps the entry with its neighbor: delta -1 moves it up,
// +1 moves it down. Moves past either end are no-ops.
func (s *Service) MoveMenuItem(ctx context.Context, id string, delta int) (*models.SettingsRecord, error) {
	return s.update(ctx, func(record *models.SettingsRecord) error {
		idx := -1
		for i := range record.MenuItems {
			if record.MenuItems[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrMenuItemNotFound
		}
		target := idx + delta
		if target < 0 || target >= len(record.MenuItems) {
			return nil
		}
		record.MenuItems[idx], record.MenuItems[target] = record.MenuItems[target], record.MenuItems[idx]
		return nil
	})
}

// Export serializes the five settings sections.
func (s *Service) Export(ctx context.Context) (*ExportPayload, error) {
	record, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportPayload{
		Settings:      record.Site,
		CodeInjection: record.CodeInjection,
		MenuItems:     record.MenuItems,
		Footer:        record.Footer,
		Ads:           record.Ads,
	}, nil
}

// Import overlays a serialized export onto factory defaults: sections the
// payload carries replace the defaults, missing sections keep them.
// Malformed JSON leaves the stored settings untouched.
func (s *Service) Import(ctx context.Context, raw []byte) (*models.SettingsRecord, error) {
	payload := ExportPayload{
		Settings:      DefaultSite(),
		CodeInjection: DefaultCodeInjection(),
		Footer:        DefaultFooter(),
		Ads:           DefaultAds(),
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse settings payload: %w", err)
	}
	if payload.MenuItems == nil {
		payload.MenuItems = DefaultMenuItems()
	}

	record, err := s.update(ctx, func(record *models.SettingsRecord) error {
		record.Site = payload.Settings
		record.CodeInjection = payload.CodeInjection
		record.MenuItems = payload.MenuItems
		record.Footer = payload.Footer
		record.Ads = payload.Ads
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Msg("settings imported")
	s.bus.Publish(events.EventSettingsImported, events.Payload{})
	return record, nil
}

// Reset restores every section to factory defaults, demo credentials
// included.
func (s *Service) Reset(ctx context.Context) (*models.SettingsRecord, error) {
	record, err := s.update(ctx, func(record *models.SettingsRecord) error {
		fresh := defaultRecord()
		fresh.CreatedAt = record.CreatedAt
		*record = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Msg("settings reset to defaults")
	return record, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
