/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// DownloadStatus tracks the simulated download lifecycle.
type DownloadStatus string

const (
	DownloadPending     DownloadStatus = "pending"
	DownloadDownloading DownloadStatus = "downloading"
	DownloadCompleted   DownloadStatus = "completed"
	// DownloadFailed is defined for imported data; the simulator itself never
	// transitions into it.
	DownloadFailed DownloadStatus = "failed"
)

// Download is a client-tracked simulated download for one catalog item.
// Its ID is the source content item's ID, so there is at most one record per
// item; adding again replaces the existing record.
type Download struct {
	ID       string         `gorm:"primaryKey" json:"id"`
	Title    string         `json:"title"`
	Poster   string         `json:"poster,omitempty"`
	Quality  string         `gorm:"type:varchar(16)" json:"quality"`
	Status   DownloadStatus `gorm:"type:varchar(16);index" json:"downloadStatus"`
	Progress int            `json:"downloadProgress"`
	FileSize string         `gorm:"type:varchar(16)" json:"fileSize"`
	IsSeries bool           `json:"isSeries"`

	// Per-episode mirror for series downloads. Episodes advance sequentially,
	// derived from the parent's overall progress.
	Episodes []EpisodeDownload `gorm:"serializer:json" json:"episodes,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// EpisodeDownload mirrors one episode of a series download.
type EpisodeDownload struct {
	ID       string         `json:"id"`
	Season   int            `json:"season"`
	Episode  int            `json:"episode"`
	Status   DownloadStatus `json:"downloadStatus"`
	Progress int            `json:"downloadProgress"`
}
