/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/accounts"
	"github.com/streamsphere/hub/internal/audit"
	"github.com/streamsphere/hub/internal/backup"
	"github.com/streamsphere/hub/internal/cache"
	"github.com/streamsphere/hub/internal/catalog"
	"github.com/streamsphere/hub/internal/downloads"
	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/logbuffer"
	"github.com/streamsphere/hub/internal/session"
	"github.com/streamsphere/hub/internal/settings"
	"github.com/streamsphere/hub/internal/taxonomy"
	"github.com/streamsphere/hub/internal/views"
)

// API exposes HTTP handlers.
type API struct {
	db        *gorm.DB
	catalog   *catalog.Service
	taxonomy  *taxonomy.Service
	views     *views.Service
	accounts  *accounts.Service
	settings  *settings.Service
	downloads *downloads.Manager
	session   *session.Service
	backup    *backup.Service
	audit     *audit.Service
	cache     *cache.Cache
	bus       *events.Bus
	logBuffer *logbuffer.Buffer
	logger    zerolog.Logger
}

// New creates the API router wrapper.
func New(
	db *gorm.DB,
	catalogSvc *catalog.Service,
	taxonomySvc *taxonomy.Service,
	viewsSvc *views.Service,
	accountsSvc *accounts.Service,
	settingsSvc *settings.Service,
	downloadMgr *downloads.Manager,
	sessionSvc *session.Service,
	backupSvc *backup.Service,
	auditSvc *audit.Service,
	cacheLayer *cache.Cache,
	bus *events.Bus,
	logBuf *logbuffer.Buffer,
	logger zerolog.Logger,
) *API {
	return &API{
		db:        db,
		catalog:   catalogSvc,
		taxonomy:  taxonomySvc,
		views:     viewsSvc,
		accounts:  accountsSvc,
		settings:  settingsSvc,
		downloads: downloadMgr,
		session:   sessionSvc,
		backup:    backupSvc,
		audit:     auditSvc,
		cache:     cacheLayer,
		bus:       bus,
		logBuffer: logBuf,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Routes mounts every endpoint under /api/v1.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)

		// Public catalog surface (no auth required)
		r.Get("/content", a.handleContentList)
		r.Get("/content/featured", a.handleContentFeatured)
		r.Get("/content/trending", a.handleContentTrending)
		r.Get("/content/latest", a.handleContentLatest)
		r.Get("/content/series", a.handleContentSeries)
		r.Get("/content/genre/{genre}", a.handleContentByGenre)
		r.Get("/content/category/{slug}", a.handleContentByCategory)
		r.Get("/content/{contentID}", a.handleContentGet)

		r.Get("/genres", a.handleGenresList)
		r.Get("/genres/{slug}", a.handleGenreBySlug)
		r.Get("/categories", a.handleCategoriesList)
		r.Get("/categories/{slug}", a.handleCategoryBySlug)

		r.Get("/settings/public", a.handleSettingsPublic)
		r.Post("/views/{contentID}", a.handleViewRecord)

		r.Post("/auth/login", a.handleLogin)
		r.Post("/auth/logout", a.handleLogout)

		r.Get("/events", a.handleEvents)

		// Admin surface
		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)

			pr.Get("/auth/session", a.handleSession)

			pr.With(a.requireSection(session.SectionMovies)).Group(func(r chi.Router) {
				r.Post("/content", a.handleContentCreate)
				r.Patch("/content/{contentID}", a.handleContentUpdate)
				r.Delete("/content/{contentID}", a.handleContentDelete)
				r.Post("/content/import", a.handleContentImport)
				r.Post("/content/sync", a.handleContentSync)
				r.Put("/content/online", a.handleContentOnline)
			})

			pr.With(a.requireSection(session.SectionGenres)).Group(func(r chi.Router) {
				r.Post("/genres", a.handleGenreCreate)
				r.Patch("/genres/{genreID}", a.handleGenreUpdate)
				r.Delete("/genres/{genreID}", a.handleGenreDelete)
				r.Post("/genres/import", a.handleGenresImport)
			})

			pr.With(a.requireSection(session.SectionCategories)).Group(func(r chi.Router) {
				r.Post("/categories", a.handleCategoryCreate)
				r.Patch("/categories/{categoryID}", a.handleCategoryUpdate)
				r.Delete("/categories/{categoryID}", a.handleCategoryDelete)
				r.Post("/categories/import", a.handleCategoriesImport)
			})

			pr.With(a.requireSection(session.SectionDownloads)).Group(func(r chi.Router) {
				r.Get("/downloads", a.handleDownloadsList)
				r.Post("/downloads", a.handleDownloadAdd)
				r.Get("/downloads/completed", a.handleDownloadsCompleted)
				r.Delete("/downloads/completed", a.handleDownloadsClearCompleted)
				r.Get("/downloads/{downloadID}", a.handleDownloadGet)
				r.Delete("/downloads/{downloadID}", a.handleDownloadRemove)
			})

			pr.With(a.requireSection(session.SectionUsers)).Group(func(r chi.Router) {
				r.Get("/users", a.handleUsersList)
				r.Post("/users", a.handleUserCreate)
				r.Post("/users/import", a.handleUsersImport)
				r.Get("/users/stats", a.handleUsersStats)
				r.Get("/users/active-today", a.handleUsersActiveToday)
				r.Get("/users/recent", a.handleUsersRecent)
				r.Get("/users/{userID}", a.handleUserGet)
				r.Patch("/users/{userID}", a.handleUserUpdate)
				r.Delete("/users/{userID}", a.handleUserDelete)
				r.Post("/users/{userID}/views", a.handleUserIncrementViews)
				r.Post("/users/{userID}/activity", a.handleUserActivity)
			})

			pr.With(a.requireSection(session.SectionSettings)).Group(func(r chi.Router) {
				r.Get("/settings", a.handleSettingsGet)
				r.Patch("/settings/site", a.handleSettingsSite)
				r.Patch("/settings/credentials", a.handleSettingsCredentials)
				r.Patch("/settings/code-injection", a.handleSettingsCodeInjection)
				r.Patch("/settings/footer", a.handleSettingsFooter)
				r.Patch("/settings/ads", a.handleSettingsAds)
				r.Put("/settings/menu", a.handleMenuReplace)
				r.Post("/settings/menu", a.handleMenuAdd)
				r.Delete("/settings/menu/{itemID}", a.handleMenuRemove)
				r.Post("/settings/menu/{itemID}/toggle", a.handleMenuToggle)
				r.Post("/settings/menu/{itemID}/move", a.handleMenuMove)
				r.Get("/settings/export", a.handleSettingsExport)
				r.Post("/settings/import", a.handleSettingsImport)
				r.Post("/settings/reset", a.handleSettingsReset)

				r.Get("/views/stats", a.handleViewStats)
				r.Post("/views/reset", a.handleViewsReset)

				r.Post("/backup", a.handleBackupCreate)
				r.Get("/backups", a.handleBackupsList)
				r.Post("/backup/restore", a.handleBackupRestore)
				r.Post("/backups/{archive}/restore", a.handleBackupRestoreArchive)

				r.Get("/audit", a.handleAuditRecent)

				r.Get("/logs", a.handleLogsQuery)
				r.Get("/logs/stats", a.handleLogsStats)
				r.Delete("/logs", a.handleLogsClear)
			})
		})
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err != nil || sqlDB.PingContext(r.Context()) != nil {
		writeError(w, http.StatusServiceUnavailable, "db_unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
