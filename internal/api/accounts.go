/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/streamsphere/hub/internal/accounts"
	"github.com/streamsphere/hub/internal/models"
)

type userUpdateRequest struct {
	Name     *string               `json:"name"`
	Email    *string               `json:"email"`
	Password *string               `json:"password"`
	Role     *models.RoleName      `json:"role"`
	Status   *models.AccountStatus `json:"status"`
	IP       *string               `json:"ip"`
	Location *string               `json:"location"`
	Device   *string               `json:"device"`
}

func (a *API) handleUsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.accounts.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var user models.UserAccount
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	created, err := a.accounts.Add(r.Context(), user)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidRole) {
			writeError(w, http.StatusBadRequest, "invalid_role")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleUsersImport(w http.ResponseWriter, r *http.Request) {
	var users []models.UserAccount
	if err := json.NewDecoder(r.Body).Decode(&users); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := a.accounts.Import(r.Context(), users); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(users)})
}

func (a *API) handleUsersStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.accounts.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleUserActivity(w http.ResponseWriter, r *http.Request) {
	if err := a.accounts.UpdateUserActivity(r.Context(), chi.URLParam(r, "userID")); err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleUsersActiveToday(w http.ResponseWriter, r *http.Request) {
	users, err := a.accounts.GetActiveUsersToday(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) handleUsersRecent(w http.ResponseWriter, r *http.Request) {
	minutes := 30
	if raw := r.URL.Query().Get("minutes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_minutes")
			return
		}
		minutes = n
	}

	users, err := a.accounts.GetRecentUsers(r.Context(), time.Duration(minutes)*time.Minute)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) handleUserGet(w http.ResponseWriter, r *http.Request) {
	user, err := a.accounts.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	user, err := a.accounts.Update(r.Context(), chi.URLParam(r, "userID"), accounts.Patch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
		IP:       req.IP,
		Location: req.Location,
		Device:   req.Device,
	})
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found")
		case errors.Is(err, accounts.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "invalid_role")
		default:
			writeError(w, http.StatusInternalServerError, "db_error")
		}
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.accounts.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleUserIncrementViews(w http.ResponseWriter, r *http.Request) {
	user, err := a.accounts.IncrementUserViews(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
