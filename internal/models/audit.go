/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// AuditLog records one admin-surface mutation for the activity feed.
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Actor     string    `gorm:"index" json:"actor"`
	Action    string    `gorm:"index" json:"action"`
	Entity    string    `gorm:"type:varchar(32);index" json:"entity"`
	EntityID  string    `json:"entityId,omitempty"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
