/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *API) handleViewRecord(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "contentID")
	if err := a.views.AddView(r.Context(), itemID); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (a *API) handleViewStats(w http.ResponseWriter, r *http.Request) {
	today, err := a.views.TodayViews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	total, err := a.views.TotalViews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"today": today,
		"total": total,
	})
}

func (a *API) handleViewsReset(w http.ResponseWriter, r *http.Request) {
	if err := a.views.ResetTodayViews(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
