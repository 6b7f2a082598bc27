/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// ContentType classifies a catalog item.
type ContentType string

const (
	ContentMovie  ContentType = "movie"
	ContentSeries ContentType = "series"
)

// ContentItem is one movie or series record in the catalog.
//
// ID is a millisecond-timestamp string assigned at creation and immutable
// afterwards. Type determines whether the series fields (Seasons, Episodes,
// EpisodeList) carry meaning; movies leave them empty. No referential
// integrity is enforced against genres or categories.
type ContentItem struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"index" json:"title"`
	Year        int         `json:"year"`
	Rating      float64     `json:"rating"`
	Duration    string      `json:"duration"`
	Genres      []string    `gorm:"serializer:json" json:"genres"`
	Description string      `gorm:"type:text" json:"description"`
	Poster      string      `json:"poster"`
	Backdrop    string      `json:"backdrop,omitempty"`
	Quality     string      `gorm:"type:varchar(16)" json:"quality"`
	Type        ContentType `gorm:"type:varchar(8);index" json:"type"`

	// Series fields
	Seasons     int       `json:"seasons,omitempty"`
	Episodes    int       `json:"episodes,omitempty"`
	EpisodeList []Episode `gorm:"serializer:json" json:"episodeList,omitempty"`

	// Playback references
	Servers     []string `gorm:"serializer:json" json:"servers,omitempty"`
	TrailerURL  string   `json:"trailerUrl,omitempty"`
	EmbedCode   string   `gorm:"type:text" json:"embedCode,omitempty"`
	DownloadURL string   `json:"downloadUrl,omitempty"`

	// SEO metadata
	Slug            string   `gorm:"index" json:"slug,omitempty"`
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `gorm:"type:text" json:"metaDescription,omitempty"`
	Keywords        []string `gorm:"serializer:json" json:"keywords,omitempty"`
	OGImage         string   `json:"ogImage,omitempty"`

	Categories []string `gorm:"serializer:json" json:"categories,omitempty"`

	// Position orders the catalog; new items are prepended (lowest position
	// first). Imports assign positions in payload order.
	Position  int       `gorm:"index" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsSeries reports whether the item is a series.
func (c *ContentItem) IsSeries() bool {
	return c.Type == ContentSeries
}

// Episode is one episode of a series, stored inline on its parent item.
type Episode struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Season      int      `json:"season"`
	Episode     int      `json:"episode"`
	Description string   `json:"description,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	TrailerURL  string   `json:"trailerUrl,omitempty"`
	EmbedCode   string   `json:"embedCode,omitempty"`
	Servers     []string `json:"servers,omitempty"`
}
