/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	BaseURL     string // Public base URL (e.g., http://192.168.1.20:8080)
	DBBackend   DatabaseBackend
	DBDSN       string

	// Download simulator
	DownloadTick time.Duration // interval between progress ticks
	DownloadStep int           // progress percent added per tick

	// Backup snapshots
	BackupDir         string
	AutoBackupEnabled bool
	AutoBackupEvery   time.Duration

	// S3 snapshot storage (used instead of BackupDir when Bucket is set)
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string // For S3-compatible services (MinIO, Spaces, etc.)
	S3UsePathStyle    bool   // Required for MinIO

	// Optional redis read cache for hot catalog queries
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Multi-instance deployments elect a single auto-backup leader via Redis
	LeaderElectionEnabled bool
	InstanceID            string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads configuration from STREAMSPHERE_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("STREAMSPHERE_ENV", "development"),
		HTTPBind:    getEnv("STREAMSPHERE_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("STREAMSPHERE_HTTP_PORT", 8080),
		BaseURL:     getEnv("STREAMSPHERE_BASE_URL", ""),
		DBBackend:   DatabaseBackend(getEnv("STREAMSPHERE_DB_BACKEND", string(DatabaseSQLite))),
		DBDSN:       getEnv("STREAMSPHERE_DB_DSN", "streamsphere.db"),

		DownloadTick: time.Duration(getEnvInt("STREAMSPHERE_DOWNLOAD_TICK_MS", 1000)) * time.Millisecond,
		DownloadStep: getEnvInt("STREAMSPHERE_DOWNLOAD_STEP", 5),

		BackupDir:         getEnv("STREAMSPHERE_BACKUP_DIR", "backups"),
		AutoBackupEnabled: getEnvBool("STREAMSPHERE_AUTO_BACKUP_ENABLED", false),
		AutoBackupEvery:   time.Duration(getEnvInt("STREAMSPHERE_AUTO_BACKUP_MINUTES", 30)) * time.Minute,

		S3AccessKeyID:     getEnv("STREAMSPHERE_S3_ACCESS_KEY_ID", os.Getenv("AWS_ACCESS_KEY_ID")),
		S3SecretAccessKey: getEnv("STREAMSPHERE_S3_SECRET_ACCESS_KEY", os.Getenv("AWS_SECRET_ACCESS_KEY")),
		S3Region:          getEnv("STREAMSPHERE_S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("STREAMSPHERE_S3_BUCKET", ""),
		S3Endpoint:        getEnv("STREAMSPHERE_S3_ENDPOINT", ""),
		S3UsePathStyle:    getEnvBool("STREAMSPHERE_S3_USE_PATH_STYLE", false),

		RedisAddr:     getEnv("STREAMSPHERE_REDIS_ADDR", ""),
		RedisPassword: getEnv("STREAMSPHERE_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("STREAMSPHERE_REDIS_DB", 0),

		LeaderElectionEnabled: getEnvBool("STREAMSPHERE_LEADER_ELECTION_ENABLED", false),
		InstanceID:            getEnv("STREAMSPHERE_INSTANCE_ID", ""),

		TracingEnabled:    getEnvBool("STREAMSPHERE_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("STREAMSPHERE_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("STREAMSPHERE_TRACING_SAMPLE_RATE", 1.0),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("STREAMSPHERE_DB_DSN must be provided")
	}

	if cfg.DownloadStep <= 0 || cfg.DownloadStep > 100 {
		return nil, fmt.Errorf("STREAMSPHERE_DOWNLOAD_STEP must be between 1 and 100")
	}

	if cfg.DownloadTick <= 0 {
		return nil, fmt.Errorf("STREAMSPHERE_DOWNLOAD_TICK_MS must be positive")
	}

	if cfg.LeaderElectionEnabled && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("STREAMSPHERE_LEADER_ELECTION_ENABLED requires STREAMSPHERE_REDIS_ADDR")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(strings.TrimSpace(val))
		if val == "true" || val == "1" || val == "yes" {
			return true
		}
		if val == "false" || val == "0" || val == "no" {
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}
