/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package settings

import "github.com/streamsphere/hub/internal/models"

// DefaultSite returns the factory site configuration, including the demo
// admin credentials.
func DefaultSite() models.SiteSettings {
	return models.SiteSettings{
		SiteName:        "StreamSphere Hub",
		SiteDescription: "Your ultimate destination for movies and TV series streaming",
		LogoURL:         "",
		LogoSize:        40,
		FaviconURL:      "",
		ContactEmail:    "admin@streamsphere.com",
		DownloadAppURL:  "#",
		LayoutMode:      "sidebar",
		Language:        "en",
		FontStyle:       "Inter",
		FontWeight:      "400",
		AdminCredentials: models.AdminCredentials{
			Username: "admin",
			Password: "admin",
			Role:     models.RoleSuperAdmin,
		},
	}
}

// DefaultCodeInjection returns empty injection slots.
func DefaultCodeInjection() models.CodeInjection {
	return models.CodeInjection{}
}

// DefaultMenuItems returns the stock navigation entries.
func DefaultMenuItems() []models.MenuItem {
	return []models.MenuItem{
		{ID: "home", Label: "Home", Path: "/", Type: models.MenuLink, Visible: true},
		{ID: "movies", Label: "Movies", Path: "/movies", Type: models.MenuLink, Visible: true},
		{ID: "series", Label: "Series", Path: "/series", Type: models.MenuLink, Visible: true},
		{ID: "trending", Label: "Trending", Path: "/trending", Type: models.MenuLink, Visible: true},
		{ID: "downloads", Label: "Downloads", Path: "/downloads", Type: models.MenuLink, Visible: true},
	}
}

// DefaultFooter returns the stock footer block.
func DefaultFooter() models.FooterSettings {
	return models.FooterSettings{
		CopyrightText: "© 2024 StreamSphere Hub. All rights reserved.",
	}
}

// DefaultAds returns the stock ad configuration with every placement off.
func DefaultAds() models.AdSettings {
	return models.AdSettings{
		BrandPromotion: models.BrandPromotion{
			Enabled:  false,
			Position: "popup",
		},
		PopupSettings: models.PopupSettings{
			Enabled: false,
			Type:    "image",
			Timer:   20,
		},
	}
}

// defaultRecord assembles the singleton row from the factory defaults.
func defaultRecord() models.SettingsRecord {
	return models.SettingsRecord{
		ID:            singletonID,
		Site:          DefaultSite(),
		CodeInjection: DefaultCodeInjection(),
		MenuItems:     DefaultMenuItems(),
		Footer:        DefaultFooter(),
		Ads:           DefaultAds(),
	}
}
