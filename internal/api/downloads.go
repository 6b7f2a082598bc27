/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamsphere/hub/internal/catalog"
	"github.com/streamsphere/hub/internal/downloads"
)

func (a *API) handleDownloadsList(w http.ResponseWriter, r *http.Request) {
	records, err := a.downloads.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *API) handleDownloadAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentID string `json:"contentId"`
		Quality   string `json:"quality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	item, err := a.catalog.GetByID(r.Context(), req.ContentID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "content_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	record, err := a.downloads.Add(r.Context(), item, req.Quality)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (a *API) handleDownloadsCompleted(w http.ResponseWriter, r *http.Request) {
	records, err := a.downloads.GetCompleted(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *API) handleDownloadsClearCompleted(w http.ResponseWriter, r *http.Request) {
	if err := a.downloads.ClearCompleted(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (a *API) handleDownloadGet(w http.ResponseWriter, r *http.Request) {
	record, err := a.downloads.GetByID(r.Context(), chi.URLParam(r, "downloadID"))
	if err != nil {
		if errors.Is(err, downloads.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) handleDownloadRemove(w http.ResponseWriter, r *http.Request) {
	if err := a.downloads.Remove(r.Context(), chi.URLParam(r, "downloadID")); err != nil {
		if errors.Is(err, downloads.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
