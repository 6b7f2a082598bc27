package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/streamsphere/hub/internal/config"
	"github.com/streamsphere/hub/internal/logbuffer"
	"github.com/streamsphere/hub/internal/logging"
	"github.com/streamsphere/hub/internal/server"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "streamsphere",
	Short: "StreamSphere Hub - Streaming catalog server with embedded admin console",
	Long:  "StreamSphere Hub serves a movie and series catalog API together with the admin console backend: taxonomy, user roster, download simulation, settings, and backups.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the StreamSphere Hub server",
	Long:  "Start the HTTP API server and the background workers (downloads, audit trail, auto backup)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logBuf := logbuffer.New(10000)
	logger = logging.SetupWithBuffer(cfg.Environment, logBuf)

	logger.Info().Msg("StreamSphere Hub starting")

	srv, err := server.New(cfg, logBuf, logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := srv.Seed(seedCtx); err != nil {
		seedCancel()
		return fmt.Errorf("seed defaults: %w", err)
	}
	seedCancel()

	httpServer := srv.HTTPServer()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gracefully...")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(timeoutCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if err := srv.Close(); err != nil {
		logger.Error().Err(err).Msg("shutdown cleanup failed")
	}

	logger.Info().Msg("StreamSphere Hub stopped")
	return nil
}
