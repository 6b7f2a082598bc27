/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/streamsphere/hub/internal/db"
	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/settings"
	"github.com/streamsphere/hub/internal/taxonomy"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the database to a fresh state",
	Long: `Reset StreamSphere Hub to a fresh state.

This command will:
- Drop all tables from the database
- Re-create empty tables
- Re-seed the default settings and taxonomy

WARNING: This action is irreversible! All data will be lost.

Examples:
  # Interactive reset (will prompt for confirmation)
  streamsphere reset

  # Force reset without confirmation
  streamsphere reset --force
`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	if !resetForce {
		fmt.Print("This will delete ALL data. Type 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("aborted")
			return nil
		}
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close(database)

	if err := database.Migrator().DropTable(
		&models.ContentItem{},
		&models.Genre{},
		&models.Category{},
		&models.ViewCount{},
		&models.UserAccount{},
		&models.Download{},
		&models.SettingsRecord{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("re-create tables: %w", err)
	}

	ctx := context.Background()
	bus := events.NewBus()
	if _, err := settings.NewService(database, bus, logger).Get(ctx); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if err := taxonomy.NewService(database, bus, logger).SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}

	fmt.Println("database reset complete")
	return nil
}
