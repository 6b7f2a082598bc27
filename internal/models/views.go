/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// ViewCount is one per-day, per-item view tally. Counts only ever grow
// within a day; the sole reset path is deleting a whole day's rows. Rows are
// never expired or compacted.
type ViewCount struct {
	Date   string `gorm:"primaryKey;type:varchar(10)" json:"date"`
	ItemID string `gorm:"primaryKey" json:"itemId"`
	Count  int    `json:"count"`
}

// DateKey formats a timestamp as the YYYY-MM-DD key used by view counters.
// The key is local-timezone relative; there is no normalization, matching
// the advisory nature of the counters.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
