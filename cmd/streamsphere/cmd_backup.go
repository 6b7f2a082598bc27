/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/backup"
	"github.com/streamsphere/hub/internal/catalog"
	"github.com/streamsphere/hub/internal/db"
	"github.com/streamsphere/hub/internal/downloads"
	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/settings"
	"github.com/streamsphere/hub/internal/taxonomy"
)

var (
	restoreArchive string
	restoreFile    string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list, and restore full backups",
	Long:  "Manage full backup archives covering catalog, taxonomy, settings, and downloads",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot every store into a backup archive",
	RunE:  runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup archives in storage",
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore stores from a backup archive or a local file",
	RunE:  runBackupRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)

	backupRestoreCmd.Flags().StringVar(&restoreArchive, "archive", "", "Archive name in backup storage")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Path to a local backup JSON file")
}

// buildBackupService wires the stores a backup run needs, without the HTTP
// layer. The caller closes the returned database.
func buildBackupService() (*backup.Service, *gorm.DB, func(), error) {
	if err := loadConfig(); err != nil {
		return nil, nil, nil, err
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		_ = db.Close(database)
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}

	bus := events.NewBus()
	catalogSvc := catalog.NewService(database, bus, logger)
	taxonomySvc := taxonomy.NewService(database, bus, logger)
	settingsSvc := settings.NewService(database, bus, logger)
	downloadMgr := downloads.NewManager(database, bus, logger, cfg.DownloadTick, cfg.DownloadStep)

	var storage backup.Storage
	if cfg.S3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		storage, err = backup.NewS3Storage(ctx, backup.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKeyID,
			SecretKey: cfg.S3SecretAccessKey,
			Prefix:    "backups/",
		})
		cancel()
	} else {
		storage, err = backup.NewFSStorage(cfg.BackupDir)
	}
	if err != nil {
		_ = db.Close(database)
		return nil, nil, nil, fmt.Errorf("init backup storage: %w", err)
	}

	svc := backup.NewService(catalogSvc, taxonomySvc, settingsSvc, downloadMgr, storage, bus, logger)
	cleanup := func() {
		downloadMgr.Close()
		catalogSvc.Close()
		_ = db.Close(database)
	}
	return svc, database, cleanup, nil
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	svc, _, cleanup, err := buildBackupService()
	if err != nil {
		return err
	}
	defer cleanup()

	name, err := svc.Create(context.Background())
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	fmt.Printf("created %s\n", name)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	svc, _, cleanup, err := buildBackupService()
	if err != nil {
		return err
	}
	defer cleanup()

	archives, err := svc.ListArchives(context.Background())
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	if len(archives) == 0 {
		fmt.Println("no backup archives found")
		return nil
	}
	for _, name := range archives {
		fmt.Println(name)
	}
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	if (restoreArchive == "") == (restoreFile == "") {
		return fmt.Errorf("exactly one of --archive or --file is required")
	}

	svc, _, cleanup, err := buildBackupService()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if restoreFile != "" {
		raw, err := os.ReadFile(restoreFile)
		if err != nil {
			return fmt.Errorf("read backup file: %w", err)
		}
		if err := svc.Restore(ctx, raw); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		fmt.Printf("restored from %s\n", restoreFile)
		return nil
	}

	if err := svc.RestoreArchive(ctx, restoreArchive); err != nil {
		return fmt.Errorf("restore archive: %w", err)
	}
	fmt.Printf("restored from archive %s\n", restoreArchive)
	return nil
}
