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

	"github.com/go-chi/chi/v5"

	"github.com/streamsphere/hub/internal/catalog"
	"github.com/streamsphere/hub/internal/models"
)

func (a *API) handleContentList(w http.ResponseWriter, r *http.Request) {
	if items, ok := a.cache.GetCatalog(r.Context()); ok {
		writeJSON(w, http.StatusOK, items)
		return
	}

	items, err := a.catalog.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = a.cache.SetCatalog(r.Context(), items)
	writeJSON(w, http.StatusOK, items)
}

func (a *API) handleContentGet(w http.ResponseWriter, r *http.Request) {
	item, err := a.catalog.GetByID(r.Context(), chi.URLParam(r, "contentID"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) handleContentFeatured(w http.ResponseWriter, r *http.Request) {
	a.writeDerived(w, r, a.catalog.Featured)
}

func (a *API) handleContentTrending(w http.ResponseWriter, r *http.Request) {
	a.writeDerived(w, r, a.catalog.Trending)
}

func (a *API) handleContentLatest(w http.ResponseWriter, r *http.Request) {
	a.writeDerived(w, r, a.catalog.Latest)
}

func (a *API) handleContentSeries(w http.ResponseWriter, r *http.Request) {
	a.writeDerived(w, r, a.catalog.Series)
}

func (a *API) writeDerived(w http.ResponseWriter, r *http.Request, query func(context.Context) ([]models.ContentItem, error)) {
	items, err := query(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) handleContentByGenre(w http.ResponseWriter, r *http.Request) {
	items, err := a.catalog.ByGenre(r.Context(), chi.URLParam(r, "genre"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) handleContentByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := a.catalog.ByCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) handleContentCreate(w http.ResponseWriter, r *http.Request) {
	var item models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	created, err := a.catalog.Add(r.Context(), item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type contentUpdateRequest struct {
	Title       *string             `json:"title"`
	Year        *int                `json:"year"`
	Rating      *float64            `json:"rating"`
	Duration    *string             `json:"duration"`
	Genres      *[]string           `json:"genres"`
	Description *string             `json:"description"`
	Poster      *string             `json:"poster"`
	Backdrop    *string             `json:"backdrop"`
	Quality     *string             `json:"quality"`
	Type        *models.ContentType `json:"type"`

	Seasons     *int              `json:"seasons"`
	Episodes    *int              `json:"episodes"`
	EpisodeList *[]models.Episode `json:"episodeList"`

	Servers     *[]string `json:"servers"`
	TrailerURL  *string   `json:"trailerUrl"`
	EmbedCode   *string   `json:"embedCode"`
	DownloadURL *string   `json:"downloadUrl"`

	Slug            *string   `json:"slug"`
	MetaTitle       *string   `json:"metaTitle"`
	MetaDescription *string   `json:"metaDescription"`
	Keywords        *[]string `json:"keywords"`
	OGImage         *string   `json:"ogImage"`

	Categories *[]string `json:"categories"`
}

func (req *contentUpdateRequest) patch() catalog.Patch {
	return catalog.Patch{
		Title:           req.Title,
		Year:            req.Year,
		Rating:          req.Rating,
		Duration:        req.Duration,
		Genres:          req.Genres,
		Description:     req.Description,
		Poster:          req.Poster,
		Backdrop:        req.Backdrop,
		Quality:         req.Quality,
		Type:            req.Type,
		Seasons:         req.Seasons,
		Episodes:        req.Episodes,
		EpisodeList:     req.EpisodeList,
		Servers:         req.Servers,
		TrailerURL:      req.TrailerURL,
		EmbedCode:       req.EmbedCode,
		DownloadURL:     req.DownloadURL,
		Slug:            req.Slug,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
		OGImage:         req.OGImage,
		Categories:      req.Categories,
	}
}

func (a *API) handleContentUpdate(w http.ResponseWriter, r *http.Request) {
	var req contentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	item, err := a.catalog.Update(r.Context(), chi.URLParam(r, "contentID"), req.patch())
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) handleContentDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.Delete(r.Context(), chi.URLParam(r, "contentID")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleContentImport(w http.ResponseWriter, r *http.Request) {
	var items []models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if err := a.catalog.Import(r.Context(), items); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(items)})
}

func (a *API) handleContentSync(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.SyncWithServer(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "offline")
		return
	}
	status, last := a.catalog.SyncState()
	writeJSON(w, http.StatusOK, map[string]any{"syncStatus": status, "lastSyncTime": last})
}

type onlineRequest struct {
	Online bool `json:"online"`
}

func (a *API) handleContentOnline(w http.ResponseWriter, r *http.Request) {
	var req onlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	a.catalog.SetOnline(req.Online)
	writeJSON(w, http.StatusOK, map[string]bool{"online": req.Online})
}
