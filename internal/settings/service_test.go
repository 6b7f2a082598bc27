/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package settings

import (
	"context"
	"encoding/json"
	"testing"

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
	if err := database.AutoMigrate(&models.SettingsRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(database, events.NewBus(), zerolog.Nop())
}

func TestGetSeedsDefaults(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Site.SiteName != "StreamSphere Hub" {
		t.Errorf("unexpected default site name %q", record.Site.SiteName)
	}
	if record.Site.AdminCredentials.Username != "admin" || record.Site.AdminCredentials.Password != "admin" {
		t.Error("default demo credentials missing")
	}
	if len(record.MenuItems) != 5 {
		t.Errorf("expected 5 default menu items, got %d", len(record.MenuItems))
	}
	if record.Ads.PopupSettings.Timer != 20 {
		t.Errorf("default popup timer should be 20, got %d", record.Ads.PopupSettings.Timer)
	}

	// A second Get must reuse, not reseed.
	again, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.ID != record.ID {
		t.Error("singleton row duplicated")
	}
}

func TestUpdateSitePartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.UpdateSite(ctx, func(site *models.SiteSettings) {
		site.SiteName = "Night Owl Cinema"
	})
	if err != nil {
		t.Fatalf("update site: %v", err)
	}
	if record.Site.SiteName != "Night Owl Cinema" {
		t.Errorf("site name not updated: %q", record.Site.SiteName)
	}
	if record.Site.Language != "en" || record.Site.AdminCredentials.Username != "admin" {
		t.Error("untouched site fields must survive")
	}
}

func TestUpdateSiteRejectsBadLayoutAndLanguage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateSite(ctx, func(site *models.SiteSettings) {
		site.LayoutMode = "spiral"
	}); err != ErrInvalidLayout {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}

	if _, err := svc.UpdateSite(ctx, func(site *models.SiteSettings) {
		site.Language = "xx"
	}); err != ErrInvalidLanguage {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}

	// Failed mutations must not persist.
	record, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Site.LayoutMode != "sidebar" || record.Site.Language != "en" {
		t.Errorf("rejected update leaked into store: %+v", record.Site)
	}
}

func TestUpdateAdminCredentials(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.UpdateAdminCredentials(context.Background(), func(creds *models.AdminCredentials) {
		creds.Password = "s3cret"
	})
	if err != nil {
		t.Fatalf("update credentials: %v", err)
	}
	if record.Site.AdminCredentials.Password != "s3cret" {
		t.Error("password not updated")
	}
	if record.Site.AdminCredentials.Username != "admin" {
		t.Error("username must survive a password-only change")
	}
}

func TestUpdateAdsDeepMerge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateAds(ctx, func(ads *models.AdSettings) {
		ads.AdMob.AppID = "ca-app-pub-1"
		ads.AdMob.BannerID = "banner-1"
	}); err != nil {
		t.Fatalf("update ads: %v", err)
	}

	// A later partial touch of a sibling nested block must not clobber
	// the AdMob ids.
	record, err := svc.UpdateAds(ctx, func(ads *models.AdSettings) {
		ads.BrandPromotion.Enabled = true
		ads.BrandPromotion.ImageURL = "https://cdn.example.com/brand.png"
	})
	if err != nil {
		t.Fatalf("update ads: %v", err)
	}
	if record.Ads.AdMob.AppID != "ca-app-pub-1" || record.Ads.AdMob.BannerID != "banner-1" {
		t.Errorf("nested AdMob block clobbered: %+v", record.Ads.AdMob)
	}
	if !record.Ads.BrandPromotion.Enabled || record.Ads.BrandPromotion.Position != "popup" {
		t.Errorf("brand promotion merge wrong: %+v", record.Ads.BrandPromotion)
	}
}

func TestMenuItemOperations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.AddMenuItem(ctx, models.MenuItem{
		ID: "genres", Label: "Genres", Path: "/genres", Type: models.MenuDynamicGenres, Visible: true,
	})
	if err != nil {
		t.Fatalf("add menu item: %v", err)
	}
	if len(record.MenuItems) != 6 || record.MenuItems[5].ID != "genres" {
		t.Errorf("append failed: %+v", record.MenuItems)
	}

	record, err = svc.ToggleMenuItem(ctx, "trending")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	for _, item := range record.MenuItems {
		if item.ID == "trending" && item.Visible {
			t.Error("toggle should have hidden the entry")
		}
	}

	record, err = svc.MoveMenuItem(ctx, "genres", -1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if record.MenuItems[4].ID != "genres" || record.MenuItems[5].ID != "downloads" {
		t.Errorf("adjacent swap failed: %+v", record.MenuItems)
	}

	// Moving the first entry up is a no-op, not an error.
	record, err = svc.MoveMenuItem(ctx, "home", -1)
	if err != nil {
		t.Fatalf("move past edge: %v", err)
	}
	if record.MenuItems[0].ID != "home" {
		t.Error("edge move must be a no-op")
	}

	record, err = svc.RemoveMenuItem(ctx, "genres")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(record.MenuItems) != 5 {
		t.Errorf("remove failed: %+v", record.MenuItems)
	}

	if _, err := svc.RemoveMenuItem(ctx, "genres"); err != ErrMenuItemNotFound {
		t.Fatalf("expected ErrMenuItemNotFound, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateSite(ctx, func(site *models.SiteSettings) {
		site.SiteName = "Exported Name"
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	payload, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if _, err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	record, err := svc.Import(ctx, raw)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if record.Site.SiteName != "Exported Name" {
		t.Errorf("round trip lost site name: %q", record.Site.SiteName)
	}
}

func TestImportMissingSectionsKeepDefaults(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Import(context.Background(), []byte(`{"settings":{"siteName":"Partial","layoutMode":"classic","language":"fr"}}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if record.Site.SiteName != "Partial" {
		t.Errorf("payload section not applied: %q", record.Site.SiteName)
	}
	if len(record.MenuItems) != 5 {
		t.Errorf("missing menu section should fall back to defaults, got %d items", len(record.MenuItems))
	}
	if record.Footer.CopyrightText == "" {
		t.Error("missing footer section should fall back to defaults")
	}
}

func TestImportMalformedLeavesStoreUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateSite(ctx, func(site *models.SiteSettings) {
		site.SiteName = "Before"
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := svc.Import(ctx, []byte(`{not json`)); err == nil {
		t.Fatal("expected parse error")
	}
	record, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Site.SiteName != "Before" {
		t.Errorf("failed import must not change settings, got %q", record.Site.SiteName)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateAdminCredentials(ctx, func(creds *models.AdminCredentials) {
		creds.Username = "root"
		creds.Password = "changed"
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	record, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if record.Site.AdminCredentials.Username != "admin" || record.Site.AdminCredentials.Password != "admin" {
		t.Error("reset must restore demo credentials")
	}
}
