/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/streamsphere/hub/internal/logbuffer"
)

func (a *API) handleLogsQuery(w http.ResponseWriter, r *http.Request) {
	if a.logBuffer == nil {
		writeError(w, http.StatusNotFound, "log_buffer_disabled")
		return
	}

	q := r.URL.Query()
	params := logbuffer.QueryParams{
		Level:      q.Get("level"),
		Component:  q.Get("component"),
		Search:     q.Get("search"),
		Descending: true,
		Limit:      100,
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		params.Limit = n
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_since")
			return
		}
		params.Since = since
	}

	entries := a.logBuffer.Query(params)
	if entries == nil {
		entries = []logbuffer.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"components": a.logBuffer.Components(),
	})
}

func (a *API) handleLogsStats(w http.ResponseWriter, r *http.Request) {
	if a.logBuffer == nil {
		writeError(w, http.StatusNotFound, "log_buffer_disabled")
		return
	}
	writeJSON(w, http.StatusOK, a.logBuffer.Stats())
}

func (a *API) handleLogsClear(w http.ResponseWriter, r *http.Request) {
	if a.logBuffer == nil {
		writeError(w, http.StatusNotFound, "log_buffer_disabled")
		return
	}
	a.logBuffer.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
