/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"fmt"

	"github.com/streamsphere/hub/internal/models"
	"gorm.io/gorm"
)

// Migrate applies database schema migrations using GORM auto-migrate.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(
		// Catalog and taxonomy
		&models.ContentItem{},
		&models.Genre{},
		&models.Category{},

		// Engagement
		&models.ViewCount{},
		&models.UserAccount{},
		&models.Download{},

		// Configuration and audit
		&models.SettingsRecord{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
