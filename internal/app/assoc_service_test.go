package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-results-service/internal/app"
	"quiz-results-service/internal/domain"
	"quiz-results-service/internal/infra/memory"
)

func newAssocFixture() *app.AssociationService {
	catalog := memory.NewCatalog(memory.NewStaticCatalogLoader(map[string]domain.Quiz{
		"quiz-1": {ID: "quiz-1", Title: "One", IsFree: true},
		"quiz-2": {ID: "quiz-2", Title: "Two", IsFree: true},
	}), 5*time.Minute)
	return app.NewAssociationService(catalog, memory.NewAssociationStore())
}

func TestAddListRemoveFavorite(t *testing.T) {
	ctx := context.Background()
	service := newAssocFixture()

	if _, err := service.Add(ctx, "u1", "quiz-1", domain.AssociationFavorite); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := service.Add(ctx, "u1", "quiz-2", domain.AssociationFavorite); err != nil {
		t.Fatalf("add: %v", err)
	}

	links, err := service.List(ctx, "u1", domain.AssociationFavorite)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(links))
	}

	if err := service.Remove(ctx, "u1", "quiz-1", domain.AssociationFavorite); err != nil {
		t.Fatalf("remove: %v", err)
	}
	links, _ = service.List(ctx, "u1", domain.AssociationFavorite)
	if len(links) != 1 || links[0].QuizID != "quiz-2" {
		t.Fatalf("expected only quiz-2 left, got %+v", links)
	}
}

func TestAddFavoriteUnknownQuiz(t *testing.T) {
	service := newAssocFixture()

	_, err := service.Add(context.Background(), "u1", "quiz-missing", domain.AssociationFavorite)
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestRemoveMissingFavorite(t *testing.T) {
	service := newAssocFixture()

	err := service.Remove(context.Background(), "u1", "quiz-1", domain.AssociationFavorite)
	if !errors.Is(err, domain.ErrAssociationNotFound) {
		t.Fatalf("expected association not found, got %v", err)
	}
}

func TestFavoritesAreScopedPerUser(t *testing.T) {
	ctx := context.Background()
	service := newAssocFixture()

	if _, err := service.Add(ctx, "u1", "quiz-1", domain.AssociationFavorite); err != nil {
		t.Fatalf("add: %v", err)
	}
	links, err := service.List(ctx, "u2", domain.AssociationFavorite)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected no favorites for u2, got %+v", links)
	}
}
