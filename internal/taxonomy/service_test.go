package taxonomy

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.AutoMigrate(&models.Genre{}, &models.Category{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func newTestService(t *testing.T) *Service {
	svc := NewService(setupTestDB(t), events.NewBus(), zerolog.Nop())

	// Deterministic, strictly increasing clock so time-based ids never collide.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Millisecond)
	}
	return svc
}

func TestAddGenreSynthesizesIDAndSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	genre, err := svc.AddGenre(ctx, "Sci-Fi & Fantasy!", "speculative fiction", "#06b6d4")
	if err != nil {
		t.Fatalf("AddGenre: %v", err)
	}
	if genre.ID == "" {
		t.Fatal("expected synthesized id")
	}
	if genre.Slug != "sci-fi-fantasy" {
		t.Fatalf("unexpected slug: %q", genre.Slug)
	}

	got, err := svc.GetGenreBySlug(ctx, "sci-fi-fantasy")
	if err != nil {
		t.Fatalf("GetGenreBySlug: %v", err)
	}
	if got.ID != genre.ID {
		t.Fatalf("slug lookup returned %q, want %q", got.ID, genre.ID)
	}
}

func TestUpdateGenreDoesNotRegenerateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	genre, err := svc.AddGenre(ctx, "Action", "", "")
	if err != nil {
		t.Fatalf("AddGenre: %v", err)
	}

	newName := "Action & Adventure"
	updated, err := svc.UpdateGenre(ctx, genre.ID, GenrePatch{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateGenre: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Slug != "action" {
		t.Fatalf("slug regenerated on rename: %q", updated.Slug)
	}
}

func TestDuplicateSlugFirstMatchWins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.AddGenre(ctx, "Horror", "", "")
	if err != nil {
		t.Fatalf("AddGenre: %v", err)
	}
	if _, err := svc.AddGenre(ctx, "Horror", "second entry, same slug", ""); err != nil {
		t.Fatalf("AddGenre duplicate: %v", err)
	}

	got, err := svc.GetGenreBySlug(ctx, "horror")
	if err != nil {
		t.Fatalf("GetGenreBySlug: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("expected first genre %q to win, got %q", first.ID, got.ID)
	}
}

func TestDeleteGenre(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	genre, err := svc.AddGenre(ctx, "Crime", "", "")
	if err != nil {
		t.Fatalf("AddGenre: %v", err)
	}
	if err := svc.DeleteGenre(ctx, genre.ID); err != nil {
		t.Fatalf("DeleteGenre: %v", err)
	}
	if _, err := svc.GetGenreByID(ctx, genre.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteGenre(ctx, genre.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestCategoryCRUDAndSlugLookup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category, err := svc.AddCategory(ctx, "New Releases", "", "#10b981")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if category.Slug != "new-releases" {
		t.Fatalf("unexpected slug: %q", category.Slug)
	}

	got, err := svc.GetCategoryBySlug(ctx, "new-releases")
	if err != nil {
		t.Fatalf("GetCategoryBySlug: %v", err)
	}
	if got.ID != category.ID {
		t.Fatalf("slug lookup mismatch: %q vs %q", got.ID, category.ID)
	}

	if err := svc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
}

func TestImportGenresReplacesCollection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddGenre(ctx, "Old", "", ""); err != nil {
		t.Fatalf("AddGenre: %v", err)
	}

	replacement := []models.Genre{
		{ID: "10", Name: "Western", Slug: "western"},
		{ID: "11", Name: "Noir", Slug: "noir"},
	}
	if err := svc.ImportGenres(ctx, replacement); err != nil {
		t.Fatalf("ImportGenres: %v", err)
	}

	genres, err := svc.ListGenres(ctx)
	if err != nil {
		t.Fatalf("ListGenres: %v", err)
	}
	if len(genres) != 2 {
		t.Fatalf("expected 2 genres after import, got %d", len(genres))
	}
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults rerun: %v", err)
	}

	genres, err := svc.ListGenres(ctx)
	if err != nil {
		t.Fatalf("ListGenres: %v", err)
	}
	if len(genres) != 12 {
		t.Fatalf("expected 12 seeded genres, got %d", len(genres))
	}
}
