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

	"github.com/streamsphere/hub/internal/models"
	"github.com/streamsphere/hub/internal/taxonomy"
)

type taxonomyCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type taxonomyUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (a *API) handleGenresList(w http.ResponseWriter, r *http.Request) {
	if genres, ok := a.cache.GetGenres(r.Context()); ok {
		writeJSON(w, http.StatusOK, genres)
		return
	}

	genres, err := a.taxonomy.ListGenres(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = a.cache.SetGenres(r.Context(), genres)
	writeJSON(w, http.StatusOK, genres)
}

func (a *API) handleGenreBySlug(w http.ResponseWriter, r *http.Request) {
	genre, err := a.taxonomy.GetGenreBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (a *API) handleGenreCreate(w http.ResponseWriter, r *http.Request) {
	var req taxonomyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	genre, err := a.taxonomy.AddGenre(r.Context(), req.Name, req.Description, req.Color)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusCreated, genre)
}

func (a *API) handleGenreUpdate(w http.ResponseWriter, r *http.Request) {
	var req taxonomyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	genre, err := a.taxonomy.UpdateGenre(r.Context(), chi.URLParam(r, "genreID"), taxonomy.GenrePatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (a *API) handleGenreDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.taxonomy.DeleteGenre(r.Context(), chi.URLParam(r, "genreID")); err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleGenresImport(w http.ResponseWriter, r *http.Request) {
	var genres []models.Genre
	if err := json.NewDecoder(r.Body).Decode(&genres); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if err := a.taxonomy.ImportGenres(r.Context(), genres); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(genres)})
}

func (a *API) handleCategoriesList(w http.ResponseWriter, r *http.Request) {
	if categories, ok := a.cache.GetCategories(r.Context()); ok {
		writeJSON(w, http.StatusOK, categories)
		return
	}

	categories, err := a.taxonomy.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = a.cache.SetCategories(r.Context(), categories)
	writeJSON(w, http.StatusOK, categories)
}

func (a *API) handleCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := a.taxonomy.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (a *API) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req taxonomyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	category, err := a.taxonomy.AddCategory(r.Context(), req.Name, req.Description, req.Color)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (a *API) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var req taxonomyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	category, err := a.taxonomy.UpdateCategory(r.Context(), chi.URLParam(r, "categoryID"), taxonomy.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (a *API) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.taxonomy.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleCategoriesImport(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := json.NewDecoder(r.Body).Decode(&categories); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if err := a.taxonomy.ImportCategories(r.Context(), categories); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(categories)})
}
