/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// SettingsRecord stores the single global site-configuration aggregate.
// Uses singleton pattern with a fixed ID=1 row; the nested objects are
// serialized as JSON columns so each section round-trips wholesale.
type SettingsRecord struct {
	ID            int            `gorm:"primaryKey" json:"-"`
	Site          SiteSettings   `gorm:"serializer:json" json:"settings"`
	CodeInjection CodeInjection  `gorm:"serializer:json" json:"codeInjection"`
	MenuItems     []MenuItem     `gorm:"serializer:json" json:"menuItems"`
	Footer        FooterSettings `gorm:"serializer:json" json:"footerSettings"`
	Ads           AdSettings     `gorm:"serializer:json" json:"adSettings"`
	CreatedAt     time.Time      `json:"-"`
	UpdatedAt     time.Time      `json:"-"`
}

// TableName returns the table name for GORM.
func (SettingsRecord) TableName() string {
	return "site_settings"
}

// AdminCredentials is the demo-only admin gate: plaintext values compared
// verbatim at login.
type AdminCredentials struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Role     RoleName `json:"role,omitempty"`
}

// SiteSettings covers branding, layout and the admin credentials.
type SiteSettings struct {
	SiteName         string           `json:"siteName"`
	SiteDescription  string           `json:"siteDescription"`
	LogoURL          string           `json:"logoUrl"`
	LogoSize         int              `json:"logoSize"`
	FaviconURL       string           `json:"faviconUrl"`
	ContactEmail     string           `json:"contactEmail"`
	DownloadAppURL   string           `json:"downloadAppUrl"`
	LayoutMode       string           `json:"layoutMode"`
	Language         string           `json:"language"`
	FontStyle        string           `json:"fontStyle"`
	FontWeight       string           `json:"fontWeight"`
	AdminCredentials AdminCredentials `json:"adminCredentials"`
}

// ValidLayoutModes contains the allowed layout values.
var ValidLayoutModes = []string{"sidebar", "classic"}

// ValidLanguages contains the allowed UI languages.
var ValidLanguages = []string{"en", "ar", "fr", "id", "hi", "ur", "fil"}

// CodeInjection holds opaque markup inserted into rendered pages. The
// strings are stored and served as-is; sanitization is a rendering-layer
// concern.
type CodeInjection struct {
	HeadCode   string `json:"headCode"`
	BodyCode   string `json:"bodyCode"`
	FooterCode string `json:"footerCode"`
}

// MenuItemType enumerates navigation entry kinds.
type MenuItemType string

const (
	MenuLink              MenuItemType = "link"
	MenuDropdown          MenuItemType = "dropdown"
	MenuDynamicGenres     MenuItemType = "dynamic-genres"
	MenuDynamicCategories MenuItemType = "dynamic-categories"
)

// MenuItem is one ordered navigation entry. Reordering swaps adjacent
// elements; the list is the only ordering-sensitive settings structure.
type MenuItem struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Path     string       `json:"path"`
	Type     MenuItemType `json:"type"`
	Visible  bool         `json:"visible"`
	Children []MenuItem   `json:"children,omitempty"`
}

// SocialLinks groups footer social URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Telegram  string `json:"telegram"`
}

// FooterSettings configures the rendered footer.
type FooterSettings struct {
	FooterLogoURL string      `json:"footerLogoUrl"`
	CopyrightText string      `json:"copyrightText"`
	SocialLinks   SocialLinks `json:"socialLinks"`
}

// AdMobSettings holds mobile ad unit identifiers.
type AdMobSettings struct {
	AppID          string `json:"appId"`
	BannerID       string `json:"bannerId"`
	InterstitialID string `json:"interstitialId"`
	RewardedID     string `json:"rewardedId"`
	NativeID       string `json:"nativeId"`
}

// BrandPromotion configures the brand takeover placement.
type BrandPromotion struct {
	Enabled   bool   `json:"enabled"`
	ImageURL  string `json:"imageUrl"`
	TargetURL string `json:"targetUrl"`
	Position  string `json:"position"`
}

// PopupSettings configures the timed popup ad.
type PopupSettings struct {
	Enabled   bool   `json:"enabled"`
	Type      string `json:"type"`
	ImageURL  string `json:"imageUrl"`
	TargetURL string `json:"targetUrl"`
	Code      string `json:"code"`
	Timer     int    `json:"timer"`
}

// AdSettings aggregates every ad placement. The nested objects (AdMob,
// BrandPromotion, PopupSettings) are deep-merged by the settings service so
// partial updates cannot clobber sibling fields.
type AdSettings struct {
	HomeAdCode          string         `json:"homeAdCode"`
	WatchAdCode         string         `json:"watchAdCode"`
	InterCategoryAdCode string         `json:"interCategoryAdCode"`
	MoviesAdCode        string         `json:"moviesAdCode"`
	SeriesAdCode        string         `json:"seriesAdCode"`
	TrendingAdCode      string         `json:"trendingAdCode"`
	FooterAdCode        string         `json:"footerAdCode"`
	PopunderCode        string         `json:"popunderCode"`
	AdMob               AdMobSettings  `json:"admob"`
	BrandPromotion      BrandPromotion `json:"brandPromotion"`
	PopupSettings       PopupSettings  `json:"popupSettings"`
}
