package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBBackend != DatabaseSQLite {
		t.Fatalf("unexpected default backend: %q", cfg.DBBackend)
	}
	if cfg.DBDSN == "" {
		t.Fatal("expected DB DSN default to be set")
	}
	if cfg.DownloadTick != time.Second {
		t.Fatalf("unexpected default download tick: %v", cfg.DownloadTick)
	}
	if cfg.DownloadStep != 5 {
		t.Fatalf("unexpected default download step: %d", cfg.DownloadStep)
	}
}

func TestLoadReadsEnvKeys(t *testing.T) {
	t.Setenv("STREAMSPHERE_DB_BACKEND", "postgres")
	t.Setenv("STREAMSPHERE_DB_DSN", "host=localhost user=test dbname=test sslmode=disable")
	t.Setenv("STREAMSPHERE_DOWNLOAD_TICK_MS", "50")
	t.Setenv("STREAMSPHERE_AUTO_BACKUP_ENABLED", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBBackend != DatabasePostgres {
		t.Fatalf("unexpected backend: %q", cfg.DBBackend)
	}
	if cfg.DownloadTick != 50*time.Millisecond {
		t.Fatalf("unexpected download tick: %v", cfg.DownloadTick)
	}
	if !cfg.AutoBackupEnabled {
		t.Fatal("expected auto backup to be enabled")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STREAMSPHERE_DB_BACKEND", "mssql")

	if _, err := Load(); err == nil {
		t.Fatal("expected load to fail for unknown backend")
	}
}

func TestLoadRejectsBadDownloadStep(t *testing.T) {
	t.Setenv("STREAMSPHERE_DOWNLOAD_STEP", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected load to fail for zero download step")
	}
}
