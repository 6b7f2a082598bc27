/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/streamsphere/hub/internal/backup"
)

func (a *API) handleBackupCreate(w http.ResponseWriter, r *http.Request) {
	name, err := a.backup.Create(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "backup_failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"archive": name})
}

func (a *API) handleBackupsList(w http.ResponseWriter, r *http.Request) {
	archives, err := a.backup.ListArchives(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage_error")
		return
	}
	writeJSON(w, http.StatusOK, archives)
}

// handleBackupRestore restores from a backup file uploaded in the request
// body rather than one held in archive storage.
func (a *API) handleBackupRestore(w http.ResponseWriter, r *http.Request) {
	raw, ok := patchBody(w, r)
	if !ok {
		return
	}
	if err := a.backup.Restore(r.Context(), raw); err != nil {
		if errors.Is(err, backup.ErrInvalidArchive) {
			writeError(w, http.StatusBadRequest, "invalid_backup_file")
			return
		}
		writeError(w, http.StatusInternalServerError, "restore_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

func (a *API) handleBackupRestoreArchive(w http.ResponseWriter, r *http.Request) {
	if err := a.backup.RestoreArchive(r.Context(), chi.URLParam(r, "archive")); err != nil {
		if errors.Is(err, backup.ErrInvalidArchive) {
			writeError(w, http.StatusBadRequest, "invalid_backup_file")
			return
		}
		writeError(w, http.StatusInternalServerError, "restore_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

func (a *API) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = n
	}

	logs, err := a.audit.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
