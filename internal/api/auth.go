/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/streamsphere/hub/internal/session"
)

type contextKey string

const tokenContextKey contextKey = "admin_token"

// bearerToken pulls the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// authMiddleware requires a live admin session and stashes it in the
// request context.
func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := a.session.Validate(bearerToken(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSection gates a route group on the role matrix.
func (a *API) requireSection(section session.Section) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := r.Context().Value(tokenContextKey).(*session.Token)
			if !ok || !session.CanAccess(token.Role, section) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	token, err := a.session.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "login_failed")
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// handleSession describes the caller's live session for the admin shell.
func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	token, ok := r.Context().Value(tokenContextKey).(*session.Token)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username":  token.Username,
		"role":      token.Role,
		"sections":  session.SectionsFor(token.Role),
		"expiresAt": token.ExpiresAt,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.session.Logout(bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
