/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/accounts"
	"github.com/streamsphere/hub/internal/api"
	"github.com/streamsphere/hub/internal/audit"
	"github.com/streamsphere/hub/internal/backup"
	"github.com/streamsphere/hub/internal/cache"
	"github.com/streamsphere/hub/internal/catalog"
	"github.com/streamsphere/hub/internal/config"
	"github.com/streamsphere/hub/internal/db"
	"github.com/streamsphere/hub/internal/downloads"
	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/leadership"
	"github.com/streamsphere/hub/internal/logbuffer"
	"github.com/streamsphere/hub/internal/session"
	"github.com/streamsphere/hub/internal/settings"
	"github.com/streamsphere/hub/internal/taxonomy"
	"github.com/streamsphere/hub/internal/telemetry"
	"github.com/streamsphere/hub/internal/version"
	"github.com/streamsphere/hub/internal/views"
)

// Server bundles HTTP and supporting services.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	closers    []func() error

	db          *gorm.DB
	logBuffer   *logbuffer.Buffer
	cache       *cache.Cache
	invalidator *cache.Invalidator
	api         *api.API
	bus         *events.Bus

	catalogSvc  *catalog.Service
	taxonomySvc *taxonomy.Service
	settingsSvc *settings.Service
	downloadMgr *downloads.Manager
	backupSvc   *backup.Service
	auditSvc    *audit.Service
	election    *leadership.Election
	checker     *version.Checker
	tracer      *telemetry.TracerProvider

	bgCancel context.CancelFunc
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logBuf *logbuffer.Buffer, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(telemetry.TracingMiddleware)
	router.Use(telemetry.MetricsMiddleware)
	// Skip timeout for the WebSocket event stream.
	router.Use(func(next http.Handler) http.Handler {
		timeout := middleware.Timeout(60 * time.Second)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Upgrade") == "websocket" {
				next.ServeHTTP(w, r)
				return
			}
			timeout(next).ServeHTTP(w, r)
		})
	})

	srv := &Server{
		cfg:       cfg,
		logger:    logger,
		router:    router,
		bus:       events.NewBus(),
		logBuffer: logBuf,
	}

	if err := srv.initDependencies(); err != nil {
		return nil, err
	}

	srv.configureRoutes()
	srv.startBackgroundWorkers()

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       0,
		// WriteTimeout 0 keeps the event stream alive; the middleware
		// timeout covers regular routes.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return srv, nil
}

func (s *Server) initDependencies() error {
	tracer, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName:    "streamsphere-hub",
		ServiceVersion: version.Version,
		OTLPEndpoint:   s.cfg.OTLPEndpoint,
		Enabled:        s.cfg.TracingEnabled,
		SampleRate:     s.cfg.TracingSampleRate,
	}, s.logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	s.tracer = tracer
	s.DeferClose(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.tracer.Shutdown(ctx)
	})

	database, err := db.Connect(s.cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(database); err != nil {
		return err
	}
	s.db = database
	s.DeferClose(func() error { return db.Close(database) })

	if s.cfg.RedisAddr != "" {
		cacheCfg := cache.DefaultConfig()
		cacheCfg.RedisAddr = s.cfg.RedisAddr
		cacheCfg.RedisPassword = s.cfg.RedisPassword
		cacheCfg.RedisDB = s.cfg.RedisDB
		s.cache, err = cache.New(cacheCfg, s.logger)
		if err != nil {
			return fmt.Errorf("init cache: %w", err)
		}
	} else {
		s.cache = cache.NewDisabled(s.logger)
	}
	s.DeferClose(func() error { return s.cache.Close() })

	s.catalogSvc = catalog.NewService(database, s.bus, s.logger)
	s.DeferClose(func() error { s.catalogSvc.Close(); return nil })

	s.taxonomySvc = taxonomy.NewService(database, s.bus, s.logger)
	s.settingsSvc = settings.NewService(database, s.bus, s.logger)
	viewsSvc := views.NewService(database, s.bus, s.logger)
	accountsSvc := accounts.NewService(database, s.bus, s.logger)

	s.downloadMgr = downloads.NewManager(database, s.bus, s.logger, s.cfg.DownloadTick, s.cfg.DownloadStep)
	s.DeferClose(func() error { s.downloadMgr.Close(); return nil })

	sessionSvc := session.NewService(s.settingsSvc, s.bus, s.logger)

	storage, err := s.backupStorage()
	if err != nil {
		return fmt.Errorf("init backup storage: %w", err)
	}
	s.backupSvc = backup.NewService(s.catalogSvc, s.taxonomySvc, s.settingsSvc, s.downloadMgr, storage, s.bus, s.logger)

	s.auditSvc = audit.NewService(database, s.bus, s.logger)

	if s.cfg.LeaderElectionEnabled {
		s.election, err = leadership.NewElection(leadership.ElectionConfig{
			RedisAddr:     s.cfg.RedisAddr,
			RedisPassword: s.cfg.RedisPassword,
			RedisDB:       s.cfg.RedisDB,
			InstanceID:    s.cfg.InstanceID,
		}, s.logger)
		if err != nil {
			return fmt.Errorf("init leader election: %w", err)
		}
		s.DeferClose(func() error { return s.election.Stop() })
	}

	s.invalidator = cache.NewInvalidator(s.cache, s.bus)
	s.checker = version.NewChecker(s.logger)

	s.api = api.New(database, s.catalogSvc, s.taxonomySvc, viewsSvc,
		accountsSvc, s.settingsSvc, s.downloadMgr, sessionSvc,
		s.backupSvc, s.auditSvc, s.cache, s.bus, s.logBuffer, s.logger)

	return nil
}

// backupStorage picks the archive backend: S3 when a bucket is configured,
// the local filesystem otherwise.
func (s *Server) backupStorage() (backup.Storage, error) {
	if s.cfg.S3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return backup.NewS3Storage(ctx, backup.S3Config{
			Bucket:    s.cfg.S3Bucket,
			Region:    s.cfg.S3Region,
			Endpoint:  s.cfg.S3Endpoint,
			AccessKey: s.cfg.S3AccessKeyID,
			SecretKey: s.cfg.S3SecretAccessKey,
			Prefix:    "backups/",
		})
	}
	return backup.NewFSStorage(s.cfg.BackupDir)
}

// Seed ensures the settings singleton and the default taxonomy exist.
func (s *Server) Seed(ctx context.Context) error {
	if _, err := s.settingsSvc.Get(ctx); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if err := s.taxonomySvc.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}
	return nil
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	s.stopBackgroundWorkers()
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

func (s *Server) startBackgroundWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	s.bgCancel = cancel

	s.auditSvc.Start()
	s.invalidator.Start()
	s.checker.Start(ctx)

	var isLeader func() bool
	if s.election != nil {
		s.election.Start(ctx)
		isLeader = s.election.IsLeader
	}

	if s.cfg.AutoBackupEnabled {
		go s.backupSvc.RunAutoBackup(ctx, s.cfg.AutoBackupEvery, isLeader)
	}
}

func (s *Server) stopBackgroundWorkers() {
	if s.bgCancel == nil {
		return
	}
	s.bgCancel()
	s.checker.Stop()
	s.invalidator.Stop()
	s.auditSvc.Stop()
	s.bgCancel = nil
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := `{"status":"ok","version":"` + version.Version + `"`
		if s.election != nil {
			if s.election.IsLeader() {
				response += `,"leader":true`
			} else {
				response += `,"leader":false`
			}
		}
		response += `}`
		_, _ = w.Write([]byte(response))
	})

	s.router.Handle("/metrics", telemetry.Handler())

	s.api.Routes(s.router)
}
