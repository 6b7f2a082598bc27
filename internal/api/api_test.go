/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/streamsphere/hub/internal/accounts"
	"github.com/streamsphere/hub/internal/audit"
	"github.com/streamsphere/hub/internal/backup"
	"github.com/streamsphere/hub/internal/cache"
	"github.com/streamsphere/hub/internal/catalog"
	"github.com/streamsphere/hub/internal/downloads"
	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/logbuffer"
	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/session"
	"github.com/streamsphere/hub/internal/settings"
	"github.com/streamsphere/hub/internal/taxonomy"
	"github.com/streamsphere/hub/internal/views"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(
		&models.ContentItem{},
		&models.Genre{},
		&models.Category{},
		&models.ViewCount{},
		&models.UserAccount{},
		&models.Download{},
		&models.SettingsRecord{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := zerolog.Nop()
	bus := events.NewBus()

	catalogSvc := catalog.NewService(database, bus, logger)
	t.Cleanup(catalogSvc.Close)
	taxonomySvc := taxonomy.NewService(database, bus, logger)
	viewsSvc := views.NewService(database, bus, logger)
	accountsSvc := accounts.NewService(database, bus, logger)
	settingsSvc := settings.NewService(database, bus, logger)
	downloadMgr := downloads.NewManager(database, bus, logger, time.Hour, 10)
	t.Cleanup(downloadMgr.Close)
	sessionSvc := session.NewService(settingsSvc, bus, logger)
	storage, err := backup.NewFSStorage(t.TempDir())
	if err != nil {
		t.Fatalf("backup storage: %v", err)
	}
	backupSvc := backup.NewService(catalogSvc, taxonomySvc, settingsSvc, downloadMgr, storage, bus, logger)
	auditSvc := audit.NewService(database, bus, logger)
	cacheLayer := cache.NewDisabled(logger)
	logBuf := logbuffer.New(100)

	a := New(database, catalogSvc, taxonomySvc, viewsSvc, accountsSvc,
		settingsSvc, downloadMgr, sessionSvc, backupSvc, auditSvc,
		cacheLayer, bus, logBuf, logger)

	r := chi.NewRouter()
	a.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "admin",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	token := decode[session.Token](t, resp)
	if token.Value == "" {
		t.Fatal("login returned empty token")
	}
	return token.Value
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/admin/users", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestContentLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/admin/content", token, map[string]any{
		"title":  "Night Train",
		"type":   "movie",
		"rating": 8.7,
		"year":   2026,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	created := decode[models.ContentItem](t, resp)
	if created.ID == "" {
		t.Fatal("created item has empty id")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/content/"+created.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	got := decode[models.ContentItem](t, resp)
	if got.Title != "Night Train" {
		t.Fatalf("title = %q, want %q", got.Title, "Night Train")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/content/trending", "", nil)
	trending := decode[[]models.ContentItem](t, resp)
	if len(trending) != 1 {
		t.Fatalf("trending count = %d, want 1", len(trending))
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/admin/content/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/content/"+created.ID, "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestSectionGatingByRole(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	// Demote the admin credentials to Uploader, which may manage content
	// but not users.
	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/admin/settings/credentials", token, map[string]string{
		"role": "Uploader",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("credentials patch status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	uploader := login(t, srv)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/admin/content", uploader, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("content as uploader status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/admin/users", uploader, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("users as uploader status = %d, want 403", resp.StatusCode)
	}
}

func TestPublicSettingsHideCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/settings/public", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	record := decode[models.SettingsRecord](t, resp)
	if record.Site.AdminCredentials.Username != "" || record.Site.AdminCredentials.Password != "" {
		t.Fatal("public settings leaked admin credentials")
	}
	if record.Site.SiteName == "" {
		t.Fatal("public settings missing site name")
	}
}

func TestViewRecordingAndStats(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/admin/content", token, map[string]any{
		"title": "Counted", "type": "movie",
	})
	item := decode[models.ContentItem](t, resp)

	for i := 0; i < 3; i++ {
		resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/views/"+item.ID, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("record view status = %d, want 200", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/admin/views/stats", token, nil)
	stats := decode[map[string]int64](t, resp)
	if stats["today"] != 3 || stats["total"] != 3 {
		t.Fatalf("stats = %v, want today=3 total=3", stats)
	}
}

func TestGenreCRUDOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/admin/genres", token, map[string]string{
		"name": "Sci-Fi", "description": "Space and time", "color": "#3b82f6",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	genre := decode[models.Genre](t, resp)
	if genre.Slug != "sci-fi" {
		t.Fatalf("slug = %q, want %q", genre.Slug, "sci-fi")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/genres/sci-fi", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get by slug status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/admin/genres/"+genre.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
}
