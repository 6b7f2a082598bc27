/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/settings"
	"github.com/streamsphere/hub/internal/telemetry"
)

var (
	// ErrInvalidCredentials is the single login failure the gate reports;
	// it never says which half was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized is returned for missing or revoked tokens.
	ErrUnauthorized = errors.New("session: unauthorized")
)

// Section names the admin-panel areas gated by role.
type Section string

const (
	SectionMovies     Section = "movies"
	SectionSeries     Section = "series"
	SectionDownloads  Section = "downloads"
	SectionGenres     Section = "genres"
	SectionCategories Section = "categories"
	SectionUsers      Section = "users"
	SectionSettings   Section = "settings"
)

// sectionRoles is the access matrix. Content sections are open to every
// role; taxonomy needs editor rights; roster and settings are admin-only.
var sectionRoles = map[Section][]models.RoleName{
	SectionMovies:     {models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor, models.RoleUploader},
	SectionSeries:     {models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor, models.RoleUploader},
	SectionDownloads:  {models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor, models.RoleUploader},
	SectionGenres:     {models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor},
	SectionCategories: {models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor},
	SectionUsers:      {models.RoleSuperAdmin, models.RoleAdmin},
	SectionSettings:   {models.RoleSuperAdmin, models.RoleAdmin},
}

// SectionsFor lists every section the role may enter, in matrix order.
func SectionsFor(role models.RoleName) []Section {
	sections := make([]Section, 0, len(allSections))
	for _, section := range allSections {
		if CanAccess(role, section) {
			sections = append(sections, section)
		}
	}
	return sections
}

var allSections = []Section{
	SectionMovies, SectionSeries, SectionDownloads,
	SectionGenres, SectionCategories, SectionUsers, SectionSettings,
}

// CanAccess checks a role against the section matrix.
func CanAccess(role models.RoleName, section Section) bool {
	for _, r := range sectionRoles[section] {
		if r == role {
			return true
		}
	}
	return false
}

// Token is one live admin session.
type Token struct {
	Value     string          `json:"token"`
	Username  string          `json:"username"`
	Role      models.RoleName `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Service is the demo-only admin gate. Credentials live in the settings
// singleton and are compared verbatim; tokens are opaque and held in
// memory, so every session dies with the process and logout revokes
// immediately.
type Service struct {
	settings *settings.Service
	bus      *events.Bus
	logger   zerolog.Logger
	now      func() time.Time
	ttl      time.Duration

	mu     sync.Mutex
	tokens map[string]Token
}

func NewService(settingsSvc *settings.Service, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		settings: settingsSvc,
		bus:      bus,
		logger:   logger.With().Str("component", "session").Logger(),
		now:      time.Now,
		ttl:      24 * time.Hour,
		tokens:   make(map[string]Token),
	}
}

// Login compares the submitted pair against the stored admin credentials
// and mints an opaque token on match.
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	record, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	creds := record.Site.AdminCredentials
	if username != creds.Username || password != creds.Password {
		telemetry.LoginAttempts.WithLabelValues("failure").Inc()
		s.logger.Warn().Str("username", username).Msg("login rejected")
		s.bus.Publish(events.EventAuditLoginFailed, events.Payload{"username": username})
		return nil, ErrInvalidCredentials
	}

	role := creds.Role
	if role == "" {
		role = models.RoleSuperAdmin
	}

	now := s.now()
	token := Token{
		Value:     uuid.NewString(),
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.tokens[token.Value] = token
	s.mu.Unlock()

	telemetry.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", username).Str("role", string(role)).Msg("admin logged in")
	s.bus.Publish(events.EventAuditLogin, events.Payload{"username": username, "role": role})
	return &token, nil
}

// Logout revokes a token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	existing, ok := s.tokens[token]
	delete(s.tokens, token)
	s.mu.Unlock()

	if ok {
		s.logger.Info().Str("username", existing.Username).Msg("admin logged out")
		s.bus.Publish(events.EventAuditLogout, events.Payload{"username": existing.Username})
	}
}

// Validate resolves a token to its live session. Expired tokens are
// dropped on sight.
func (s *Service) Validate(token string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tokens[token]
	if !ok {
		return nil, ErrUnauthorized
	}
	if s.now().After(existing.ExpiresAt) {
		delete(s.tokens, token)
		return nil, ErrUnauthorized
	}
	return &existing, nil
}

// Authorize checks a token against the section matrix.
func (s *Service) Authorize(token string, section Section) (*Token, error) {
	existing, err := s.Validate(token)
	if err != nil {
		return nil, err
	}
	if !CanAccess(existing.Role, section) {
		return nil, ErrUnauthorized
	}
	return existing, nil
}
