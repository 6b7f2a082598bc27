/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// RoleName enumerates admin-panel roles.
type RoleName string

const (
	RoleSuperAdmin RoleName = "SuperAdmin"
	RoleAdmin      RoleName = "Admin"
	RoleEditor     RoleName = "Editor"
	RoleUploader   RoleName = "Uploader"
)

// ValidRoles lists the accepted role values.
var ValidRoles = []RoleName{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleUploader}

// IsValidRole checks a role value against the known set.
func IsValidRole(role RoleName) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// AccountStatus enumerates roster activity states.
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

// UserAccount is one entry in the admin-panel roster.
//
// ViewsToday rolls over lazily: it is only reset when the next view arrives
// on a later calendar day, so an account that stops receiving views keeps
// its last ViewsToday value indefinitely.
type UserAccount struct {
	ID         string        `gorm:"primaryKey" json:"id"`
	Name       string        `gorm:"index" json:"name"`
	Email      string        `gorm:"index" json:"email"`
	Password   string        `json:"-"`
	Role       RoleName      `gorm:"type:varchar(16);index" json:"role"`
	Status     AccountStatus `gorm:"type:varchar(16)" json:"status"`
	LastSeen   time.Time     `json:"lastSeen"`
	JoinedDate time.Time     `json:"joinedDate"`
	ViewsToday int           `json:"viewsToday"`
	TotalViews int           `json:"totalViews"`
	IP         string        `gorm:"type:varchar(45)" json:"ip,omitempty"`
	Location   string        `json:"location,omitempty"`
	Device     string        `gorm:"type:varchar(32)" json:"device,omitempty"`
	CreatedAt  time.Time     `json:"-"`
	UpdatedAt  time.Time     `json:"-"`
}
