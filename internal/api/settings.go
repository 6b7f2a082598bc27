/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/settings"
)

// handleSettingsPublic serves the storefront settings with the admin
// credentials blanked out.
func (a *API) handleSettingsPublic(w http.ResponseWriter, r *http.Request) {
	record, ok := a.cache.GetSettings(r.Context())
	if !ok {
		var err error
		record, err = a.settings.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		_ = a.cache.SetSettings(r.Context(), record)
	}

	public := *record
	public.Site.AdminCredentials = models.AdminCredentials{}
	writeJSON(w, http.StatusOK, public)
}

func (a *API) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	record, err := a.settings.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// patchBody reads a partial JSON document that the handler overlays onto
// the current settings section inside the service's update closure.
func patchBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(raw) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return nil, false
	}
	return raw, true
}

func (a *API) writeSettingsResult(w http.ResponseWriter, record *models.SettingsRecord, err error) {
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidLayout):
			writeError(w, http.StatusBadRequest, "invalid_layout")
		case errors.Is(err, settings.ErrInvalidLanguage):
			writeError(w, http.StatusBadRequest, "invalid_language")
		case errors.Is(err, settings.ErrMenuItemNotFound):
			writeError(w, http.StatusNotFound, "menu_item_not_found")
		default:
			writeError(w, http.StatusInternalServerError, "db_error")
		}
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) handleSettingsSite(w http.ResponseWriter, r *http.Request) {
	raw, ok := patchBody(w, r)
	if !ok {
		return
	}
	record, err := a.settings.UpdateSite(r.Context(), func(site *models.SiteSettings) {
		_ = json.Unmarshal(raw, site)
	})
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleSettingsCredentials(w http.ResponseWriter, r *http.Request) {
	raw, ok := patchBody(w, r)
	if !ok {
		return
	}
	record, err := a.settings.UpdateAdminCredentials(r.Context(), func(creds *models.AdminCredentials) {
		_ = json.Unmarshal(raw, creds)
	})
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleSettingsCodeInjection(w http.ResponseWriter, r *http.Request) {
	raw, ok := patchBody(w, r)
	if !ok {
		return
	}
	record, err := a.settings.UpdateCodeInjection(r.Context(), func(ci *models.CodeInjection) {
		_ = json.Unmarshal(raw, ci)
	})
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleSettingsFooter(w http.ResponseWriter, r *http.Request) {
	raw, ok := patchBody(w, r)
	if !ok {
		return
	}
	record, err := a.settings.UpdateFooter(r.Context(), func(footer *models.FooterSettings) {
		_ = json.Unmarshal(raw, footer)
	})
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleSettingsAds(w http.ResponseWriter, r *http.Request) {
	raw, ok := patchBody(w, r)
	if !ok {
		return
	}
	record, err := a.settings.UpdateAds(r.Context(), func(ads *models.AdSettings) {
		_ = json.Unmarshal(raw, ads)
	})
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleMenuReplace(w http.ResponseWriter, r *http.Request) {
	var items []models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	record, err := a.settings.SetMenuItems(r.Context(), items)
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleMenuAdd(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	record, err := a.settings.AddMenuItem(r.Context(), item)
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleMenuRemove(w http.ResponseWriter, r *http.Request) {
	record, err := a.settings.RemoveMenuItem(r.Context(), chi.URLParam(r, "itemID"))
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleMenuToggle(w http.ResponseWriter, r *http.Request) {
	record, err := a.settings.ToggleMenuItem(r.Context(), chi.URLParam(r, "itemID"))
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleMenuMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	record, err := a.settings.MoveMenuItem(r.Context(), chi.URLParam(r, "itemID"), req.Delta)
	a.writeSettingsResult(w, record, err)
}

func (a *API) handleSettingsExport(w http.ResponseWriter, r *http.Request) {
	payload, err := a.settings.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (a *API) handleSettingsImport(w http.ResponseWriter, r *http.Request) {
	raw, ok := patchBody(w, r)
	if !ok {
		return
	}
	record, err := a.settings.Import(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) handleSettingsReset(w http.ResponseWriter, r *http.Request) {
	record, err := a.settings.Reset(r.Context())
	a.writeSettingsResult(w, record, err)
}
