/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamsphere/hub/internal/catalog"
	"github.com/streamsphere/hub/internal/downloads"
	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/settings"
	"github.com/streamsphere/hub/internal/taxonomy"
	"github.com/streamsphere/hub/internal/telemetry"
)

// ErrInvalidArchive is returned when a restore payload carries neither
// settings nor movies.
var ErrInvalidArchive = errors.New("backup: invalid backup file format")

// payloadVersion is the archive format marker.
const payloadVersion = "1.0"

// Payload is the full-site archive shape. Sections are optional on
// restore; a payload must carry at least settings or movies.
type Payload struct {
	Version       string                 `json:"version"`
	Timestamp     time.Time              `json:"timestamp"`
	Settings      *models.SiteSettings   `json:"settings,omitempty"`
	CodeInjection *models.CodeInjection  `json:"codeInjection,omitempty"`
	MenuItems     []models.MenuItem      `json:"menuItems,omitempty"`
	Footer        *models.FooterSettings `json:"footerSettings,omitempty"`
	Ads           *models.AdSettings     `json:"adSettings,omitempty"`
	Movies        []models.ContentItem   `json:"movies,omitempty"`
	Genres        []models.Genre         `json:"genres,omitempty"`
	Categories    []models.Category      `json:"categories,omitempty"`
	Downloads     []models.Download      `json:"downloads,omitempty"`
}

// Service assembles and restores full-site archives across every store.
type Service struct {
	catalog   *catalog.Service
	taxonomy  *taxonomy.Service
	settings  *settings.Service
	downloads *downloads.Manager
	storage   Storage
	bus       *events.Bus
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(
	catalogSvc *catalog.Service,
	taxonomySvc *taxonomy.Service,
	settingsSvc *settings.Service,
	downloadMgr *downloads.Manager,
	storage Storage,
	bus *events.Bus,
	logger zerolog.Logger,
) *Service {
	return &Service{
		catalog:   catalogSvc,
		taxonomy:  taxonomySvc,
		settings:  settingsSvc,
		downloads: downloadMgr,
		storage:   storage,
		bus:       bus,
		logger:    logger.With().Str("component", "backup").Logger(),
		now:       time.Now,
	}
}

// Export gathers every store into one archive payload.
func (s *Service) Export(ctx context.Context) (*Payload, error) {
	record, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	movies, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := s.taxonomy.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.taxonomy.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	downloadList, err := s.downloads.List(ctx)
	if err != nil {
		return nil, err
	}

	return &Payload{
		Version:       payloadVersion,
		Timestamp:     s.now(),
		Settings:      &record.Site,
		CodeInjection: &record.CodeInjection,
		MenuItems:     record.MenuItems,
		Footer:        &record.Footer,
		Ads:           &record.Ads,
		Movies:        movies,
		Genres:        genres,
		Categories:    categories,
		Downloads:     downloadList,
	}, nil
}

// Create writes a dated archive to storage and returns its name.
func (s *Service) Create(ctx context.Context) (string, error) {
	payload, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}

	name := fmt.Sprintf("streamsphere-full-backup-%s.json", s.now().Format("2006-01-02"))
	if err := s.storage.Save(ctx, name, data); err != nil {
		return "", err
	}

	telemetry.BackupsCreated.Inc()
	s.logger.Info().Str("archive", name).Int("movies", len(payload.Movies)).Msg("backup created")
	s.bus.Publish(events.EventAuditBackupCreated, events.Payload{"id": name})
	return name, nil
}

// Restore applies an archive. Each section present replaces the matching
// store; absent sections leave their stores alone. Payloads with neither
// settings nor movies are rejected before anything is touched.
func (s *Service) Restore(ctx context.Context, raw []byte) error {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}
	if payload.Settings == nil && payload.Movies == nil {
		return ErrInvalidArchive
	}

	if payload.Settings != nil {
		site := *payload.Settings
		if _, err := s.settings.UpdateSite(ctx, func(current *models.SiteSettings) {
			*current = site
		}); err != nil {
			return fmt.Errorf("restore settings: %w", err)
		}
	}
	if payload.CodeInjection != nil {
		injection := *payload.CodeInjection
		if _, err := s.settings.UpdateCodeInjection(ctx, func(current *models.CodeInjection) {
			*current = injection
		}); err != nil {
			return fmt.Errorf("restore code injection: %w", err)
		}
	}
	if payload.MenuItems != nil {
		if _, err := s.settings.SetMenuItems(ctx, payload.MenuItems); err != nil {
			return fmt.Errorf("restore menu: %w", err)
		}
	}
	if payload.Footer != nil {
		footer := *payload.Footer
		if _, err := s.settings.UpdateFooter(ctx, func(current *models.FooterSettings) {
			*current = footer
		}); err != nil {
			return fmt.Errorf("restore footer: %w", err)
		}
	}
	if payload.Ads != nil {
		ads := *payload.Ads
		if _, err := s.settings.UpdateAds(ctx, func(current *models.AdSettings) {
			*current = ads
		}); err != nil {
			return fmt.Errorf("restore ads: %w", err)
		}
	}

	if payload.Movies != nil {
		if err := s.catalog.Import(ctx, payload.Movies); err != nil {
			return fmt.Errorf("restore catalog: %w", err)
		}
	}
	if payload.Genres != nil {
		if err := s.taxonomy.ImportGenres(ctx, payload.Genres); err != nil {
			return fmt.Errorf("restore genres: %w", err)
		}
	}
	if payload.Categories != nil {
		if err := s.taxonomy.ImportCategories(ctx, payload.Categories); err != nil {
			return fmt.Errorf("restore categories: %w", err)
		}
	}
	if payload.Downloads != nil {
		if err := s.downloads.Import(ctx, payload.Downloads); err != nil {
			return fmt.Errorf("restore downloads: %w", err)
		}
	}

	s.logger.Info().Int("movies", len(payload.Movies)).Msg("backup restored")
	s.bus.Publish(events.EventAuditBackupRestore, events.Payload{})
	return nil
}

// RestoreArchive loads a named archive from storage and restores it.
func (s *Service) RestoreArchive(ctx context.Context, name string) error {
	data, err := s.storage.Load(ctx, name)
	if err != nil {
		return err
	}
	return s.Restore(ctx, data)
}

// ListArchives returns stored archive names, newest first.
func (s *Service) ListArchives(ctx context.Context) ([]string, error) {
	return s.storage.List(ctx)
}
