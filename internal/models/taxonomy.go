/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// Genre is a display taxonomy entry for catalog items.
//
// Slug is derived from Name once at creation and never regenerated on
// rename, so the two can drift. Slug uniqueness is not enforced; lookups on
// a duplicated slug return the first match.
type Genre struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index" json:"name"`
	Slug        string    `gorm:"index" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Color       string    `gorm:"type:varchar(16)" json:"color,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Category is a curation taxonomy entry (featured, trending, ...). Same slug
// semantics as Genre.
type Category struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index" json:"name"`
	Slug        string    `gorm:"index" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Color       string    `gorm:"type:varchar(16)" json:"color,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
