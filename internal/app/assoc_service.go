package app

import (
	"context"
	"time"

	"quiz-results-service/internal/domain"
)

// AssociationStore persists user<->quiz links as explicit rows; neither side
// owns the relation.
type AssociationStore interface {
	AddAssociation(ctx context.Context, a domain.Association) error
	RemoveAssociation(ctx context.Context, userID, quizID string, kind domain.AssociationKind) error
	ListAssociations(ctx context.Context, userID string, kind domain.AssociationKind) ([]domain.Association, error)
}

// AssociationService manages favorites and similar user<->quiz relations.
type AssociationService struct {
	catalog CatalogRepository
	store   AssociationStore
	now     func() time.Time
}

func NewAssociationService(catalog CatalogRepository, store AssociationStore) *AssociationService {
	return &AssociationService{catalog: catalog, store: store, now: time.Now}
}

// Add links the user to an existing quiz. Re-adding is a no-op.
func (s *AssociationService) Add(ctx context.Context, userID, quizID string, kind domain.AssociationKind) (domain.Association, error) {
	if _, err := s.catalog.GetQuiz(ctx, quizID); err != nil {
		return domain.Association{}, err
	}
	a := domain.Association{UserID: userID, QuizID: quizID, Kind: kind, CreatedAt: s.now()}
	if err := s.store.AddAssociation(ctx, a); err != nil {
		return domain.Association{}, err
	}
	return a, nil
}

// Remove deletes the link, failing with ErrAssociationNotFound when absent.
func (s *AssociationService) Remove(ctx context.Context, userID, quizID string, kind domain.AssociationKind) error {
	return s.store.RemoveAssociation(ctx, userID, quizID, kind)
}

// List returns the user's links of one kind, newest first.
func (s *AssociationService) List(ctx context.Context, userID string, kind domain.AssociationKind) ([]domain.Association, error) {
	return s.store.ListAssociations(ctx, userID, kind)
}
