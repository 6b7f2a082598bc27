/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package session

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
	"github.com/streamsphere/hub/internal/settings"
)

func newTestService(t *testing.T) (*Service, *settings.Service) {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(&models.SettingsRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	bus := events.NewBus()
	settingsSvc := settings.NewService(database, bus, zerolog.Nop())
	return NewService(settingsSvc, bus, zerolog.Nop()), settingsSvc
}

func TestLoginWithDefaultCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	token, err := svc.Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token.Value == "" {
		t.Fatal("expected opaque token")
	}
	if token.Role != models.RoleSuperAdmin {
		t.Errorf("default role should be SuperAdmin, got %s", token.Role)
	}
}

func TestLoginFailureIsOpaque(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, pair := range [][2]string{
		{"admin", "wrong"},
		{"wrong", "admin"},
		{"", ""},
	} {
		_, err := svc.Login(ctx, pair[0], pair[1])
		if err != ErrInvalidCredentials {
			t.Errorf("login(%q, %q): expected ErrInvalidCredentials, got %v", pair[0], pair[1], err)
		}
	}
}

func TestLoginTracksCredentialChanges(t *testing.T) {
	svc, settingsSvc := newTestService(t)
	ctx := context.Background()

	if _, err := settingsSvc.UpdateAdminCredentials(ctx, func(creds *models.AdminCredentials) {
		creds.Username = "root"
		creds.Password = "s3cret"
		creds.Role = models.RoleEditor
	}); err != nil {
		t.Fatalf("update credentials: %v", err)
	}

	if _, err := svc.Login(ctx, "admin", "admin"); err != ErrInvalidCredentials {
		t.Fatalf("old credentials must stop working, got %v", err)
	}
	token, err := svc.Login(ctx, "root", "s3cret")
	if err != nil {
		t.Fatalf("login with new credentials: %v", err)
	}
	if token.Role != models.RoleEditor {
		t.Errorf("token should carry configured role, got %s", token.Role)
	}
}

func TestLogoutRevokesImmediately(t *testing.T) {
	svc, _ := newTestService(t)

	token, err := svc.Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Validate(token.Value); err != nil {
		t.Fatalf("fresh token should validate: %v", err)
	}

	svc.Logout(token.Value)
	if _, err := svc.Validate(token.Value); err != ErrUnauthorized {
		t.Fatalf("revoked token must fail, got %v", err)
	}

	// Unknown token logout is a no-op.
	svc.Logout("never-issued")
}

func TestExpiredTokenRejected(t *testing.T) {
	svc, _ := newTestService(t)
	svc.ttl = time.Minute

	token, err := svc.Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := svc.Validate(token.Value); err != ErrUnauthorized {
		t.Fatalf("expired token must fail, got %v", err)
	}
}

func TestSectionMatrix(t *testing.T) {
	tests := []struct {
		role    models.RoleName
		section Section
		want    bool
	}{
		{models.RoleUploader, SectionMovies, true},
		{models.RoleUploader, SectionDownloads, true},
		{models.RoleUploader, SectionGenres, false},
		{models.RoleEditor, SectionGenres, true},
		{models.RoleEditor, SectionCategories, true},
		{models.RoleEditor, SectionUsers, false},
		{models.RoleEditor, SectionSettings, false},
		{models.RoleAdmin, SectionUsers, true},
		{models.RoleAdmin, SectionSettings, true},
		{models.RoleSuperAdmin, SectionSettings, true},
		{models.RoleName("Ghost"), SectionMovies, false},
	}
	for _, tt := range tests {
		if got := CanAccess(tt.role, tt.section); got != tt.want {
			t.Errorf("CanAccess(%s, %s) = %v, want %v", tt.role, tt.section, got, tt.want)
		}
	}

	if got := SectionsFor(models.RoleEditor); len(got) != 5 {
		t.Errorf("editor sections = %v", got)
	}
	if got := SectionsFor(models.RoleSuperAdmin); len(got) != 7 {
		t.Errorf("superadmin sections = %v", got)
	}
	if got := SectionsFor(models.RoleName("Ghost")); len(got) != 0 {
		t.Errorf("unknown role sections = %v", got)
	}
}

func TestAuthorizeEnforcesMatrix(t *testing.T) {
	svc, settingsSvc := newTestService(t)
	ctx := context.Background()

	if _, err := settingsSvc.UpdateAdminCredentials(ctx, func(creds *models.AdminCredentials) {
		creds.Role = models.RoleEditor
	}); err != nil {
		t.Fatalf("update credentials: %v", err)
	}
	token, err := svc.Login(ctx, "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Authorize(token.Value, SectionGenres); err != nil {
		t.Errorf("editor should reach genres: %v", err)
	}
	if _, err := svc.Authorize(token.Value, SectionSettings); err != ErrUnauthorized {
		t.Errorf("editor must not reach settings, got %v", err)
	}
}
