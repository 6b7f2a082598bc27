/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
)

// ErrNotFound is returned when no entry matches the requested id or slug.
var ErrNotFound = errors.New("taxonomy: not found")

// GenrePatch carries partial genre updates; nil fields are left untouched.
// Slug is deliberately absent: it is fixed at creation and never
// regenerated, even when the name changes.
type GenrePatch struct {
	Name        *string
	Description *string
	Color       *string
}

// CategoryPatch mirrors GenrePatch for categories.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
}

// Service owns the genre and category stores.
type Service struct {
	db     *gorm.DB
	bus    *events.Bus
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates the taxonomy service.
func NewService(database *gorm.DB, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:     database,
		bus:    bus,
		logger: logger.With().Str("component", "taxonomy").Logger(),
		now:    time.Now,
	}
}

// AddGenre creates a genre, synthesizing its id from the current time and
// its slug from the name. Duplicate names produce duplicate slugs; no check
// rejects them.
func (s *Service) AddGenre(ctx context.Context, name, description, color string) (*models.Genre, error) {
	genre := &models.Genre{
		ID:          models.TimeID(s.now()),
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
		Color:       color,
	}

	if err := s.db.WithContext(ctx).Create(genre).Error; err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.logger.Info().Str("genre_id", genre.ID).Str("slug", genre.Slug).Msg("genre created")
	s.bus.Publish(events.EventGenreCreated, events.Payload{"id": genre.ID, "slug": genre.Slug})
	return genre, nil
}

// UpdateGenre merges non-nil patch fields into the stored genre.
func (s *Service) UpdateGenre(ctx context.Context, id string, patch GenrePatch) (*models.Genre, error) {
	var genre models.Genre
	if err := s.db.WithContext(ctx).First(&genre, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load genre: %w", err)
	}

	if patch.Name != nil {
		genre.Name = *patch.Name
	}
	if patch.Description != nil {
		genre.Description = *patch.Description
	}
	if patch.Color != nil {
		genre.Color = *patch.Color
	}

	if err := s.db.WithContext(ctx).Save(&genre).Error; err != nil {
		return nil, fmt.Errorf("update genre: %w", err)
	}

	s.bus.Publish(events.EventGenreUpdated, events.Payload{"id": genre.ID})
	return &genre, nil
}

// DeleteGenre removes a genre by id. Content items referencing it are left
// untouched; there is no cascade.
func (s *Service) DeleteGenre(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Genre{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete genre: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.bus.Publish(events.EventGenreDeleted, events.Payload{"id": id})
	return nil
}

// GetGenreByID returns a genre by id.
func (s *Service) GetGenreByID(ctx context.Context, id string) (*models.Genre, error) {
	var genre models.Genre
	if err := s.db.WithContext(ctx).First(&genre, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load genre: %w", err)
	}
	return &genre, nil
}

// GetGenreBySlug returns the first genre carrying the slug. With duplicated
// slugs the earliest-created entry wins, silently.
func (s *Service) GetGenreBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Order("created_at ASC, id ASC").First(&genre).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load genre by slug: %w", err)
	}
	return &genre, nil
}

// ListGenres returns all genres in creation order.
func (s *Service) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// ImportGenres replaces the whole genre collection.
func (s *Service) ImportGenres(ctx context.Context, genres []models.Genre) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Genre{}).Error; err != nil {
			return err
		}
		if len(genres) == 0 {
			return nil
		}
		return tx.Create(&genres).Error
	})
	if err != nil {
		return fmt.Errorf("import genres: %w", err)
	}

	s.logger.Info().Int("count", len(genres)).Msg("genres imported")
	return nil
}

// AddCategory creates a category with the same id/slug synthesis as genres.
func (s *Service) AddCategory(ctx context.Context, name, description, color string) (*models.Category, error) {
	category := &models.Category{
		ID:          models.TimeID(s.now()),
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
		Color:       color,
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info().Str("category_id", category.ID).Str("slug", category.Slug).Msg("category created")
	s.bus.Publish(events.EventCategoryCreated, events.Payload{"id": category.ID, "slug": category.Slug})
	return category, nil
}

// UpdateCategory merges non-nil patch fields into the stored category.
func (s *Service) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}

	if err := s.db.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.bus.Publish(events.EventCategoryUpdated, events.Payload{"id": category.ID})
	return &category, nil
}

// DeleteCategory removes a category by id, without cascading.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.bus.Publish(events.EventCategoryDeleted, events.Payload{"id": id})
	return nil
}

// GetCategoryByID returns a category by id.
func (s *Service) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	return &category, nil
}

// GetCategoryBySlug returns the first category carrying the slug.
func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Order("created_at ASC, id ASC").First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load category by slug: %w", err)
	}
	return &category, nil
}

// ListCategories returns all categories in creation order.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ImportCategories replaces the whole category collection.
func (s *Service) ImportCategories(ctx context.Context, categories []models.Category) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if len(categories) == 0 {
			return nil
		}
		return tx.Create(&categories).Error
	})
	if err != nil {
		return fmt.Errorf("import categories: %w", err)
	}

	s.logger.Info().Int("count", len(categories)).Msg("categories imported")
	return nil
}

// SeedDefaults inserts the stock genre and category sets when the stores are
// empty. Re-running is a no-op.
func (s *Service) SeedDefaults(ctx context.Context) error {
	var genreCount int64
	if err := s.db.WithContext(ctx).Model(&models.Genre{}).Count(&genreCount).Error; err != nil {
		return fmt.Errorf("count genres: %w", err)
	}
	if genreCount == 0 {
		if err := s.db.WithContext(ctx).Create(defaultGenres()).Error; err != nil {
			return fmt.Errorf("seed genres: %w", err)
		}
	}

	var categoryCount int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if categoryCount == 0 {
		if err := s.db.WithContext(ctx).Create(defaultCategories()).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}

	return nil
}

func defaultGenres() []models.Genre {
	names := []struct {
		name  string
		color string
	}{
		{"Action", "#ef4444"},
		{"Comedy", "#22c55e"},
		{"Drama", "#3b82f6"},
		{"Horror", "#8b5cf6"},
		{"Sci-Fi", "#06b6d4"},
		{"Romance", "#ec4899"},
		{"Fantasy", "#f59e0b"},
		{"Thriller", "#64748b"},
		{"Adventure", "#84cc16"},
		{"Crime", "#f97316"},
		{"Mystery", "#8b5cf6"},
		{"Animation", "#14b8a6"},
	}

	genres := make([]models.Genre, 0, len(names))
	for i, entry := range names {
		genres = append(genres, models.Genre{
			ID:    fmt.Sprintf("%d", i+1),
			Name:  entry.name,
			Slug:  Slugify(entry.name),
			Color: entry.color,
		})
	}
	return genres
}

func defaultCategories() []models.Category {
	names := []struct {
		name  string
		color string
	}{
		{"Featured", "#ef4444"},
		{"Trending", "#f59e0b"},
		{"New Releases", "#10b981"},
		{"Popular", "#8b5cf6"},
		{"Top Rated", "#3b82f6"},
		{"Coming Soon", "#ec4899"},
		{"Exclusive", "#06b6d4"},
		{"Anime", "#f97316"},
	}

	categories := make([]models.Category, 0, len(names))
	for i, entry := range names {
		categories = append(categories, models.Category{
			ID:    fmt.Sprintf("%d", i+1),
			Name:  entry.name,
			Slug:  Slugify(entry.name),
			Color: entry.color,
		})
	}
	return categories
}
