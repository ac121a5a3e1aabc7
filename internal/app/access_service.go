package app

import (
	"context"
	"fmt"
	"time"

	"quiz-results-service/internal/domain"
)

// AccessStore persists which users bought which quizzes.
type AccessStore interface {
	GrantPurchase(ctx context.Context, p domain.Purchase) error
	HasPurchase(ctx context.Context, userID, quizID string) (bool, error)
	ListPurchases(ctx context.Context, userID string) ([]domain.Purchase, error)
}

// GrantCache is an optional read-through cache of positive access grants.
type GrantCache interface {
	Granted(ctx context.Context, userID, quizID string) bool
	Remember(ctx context.Context, userID, quizID string)
}

// PaymentAuthorizer is the opaque payment capability. Provider protocol
// details live behind this interface, outside the service.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, userID string, amountCents int64) error
}

// AccessService answers "may this user see this quiz's questions?" and
// handles purchases of paid quizzes.
type AccessService struct {
	catalog  CatalogRepository
	store    AccessStore
	cache    GrantCache
	payments PaymentAuthorizer
	now      func() time.Time
}

func NewAccessService(catalog CatalogRepository, store AccessStore, cache GrantCache, payments PaymentAuthorizer) *AccessService {
	return &AccessService{catalog: catalog, store: store, cache: cache, payments: payments, now: time.Now}
}

// CanView reports whether the user may see the quiz's questions: free-tier
// quizzes are open to any authenticated user, paid ones require a purchase.
func (s *AccessService) CanView(ctx context.Context, userID string, quiz domain.Quiz) (bool, error) {
	if quiz.IsFree || quiz.PriceCents == 0 {
		return true, nil
	}
	if s.cache != nil && s.cache.Granted(ctx, userID, quiz.ID) {
		return true, nil
	}
	bought, err := s.store.HasPurchase(ctx, userID, quiz.ID)
	if err != nil {
		return false, err
	}
	if bought && s.cache != nil {
		s.cache.Remember(ctx, userID, quiz.ID)
	}
	return bought, nil
}

// Purchase authorizes payment for a paid quiz and records the grant. Buying
// an already-bought quiz is a no-op and does not charge again.
func (s *AccessService) Purchase(ctx context.Context, userID, quizID string) (domain.Purchase, error) {
	quiz, err := s.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Purchase{}, err
	}
	if quiz.IsFree || quiz.PriceCents == 0 {
		return domain.Purchase{}, domain.ErrQuizFree
	}

	if bought, err := s.store.HasPurchase(ctx, userID, quizID); err != nil {
		return domain.Purchase{}, err
	} else if bought {
		return domain.Purchase{UserID: userID, QuizID: quizID}, nil
	}

	if err := s.payments.Authorize(ctx, userID, quiz.PriceCents); err != nil {
		return domain.Purchase{}, fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, err)
	}

	purchase := domain.Purchase{UserID: userID, QuizID: quizID, CreatedAt: s.now()}
	if err := s.store.GrantPurchase(ctx, purchase); err != nil {
		return domain.Purchase{}, err
	}
	if s.cache != nil {
		s.cache.Remember(ctx, userID, quizID)
	}
	return purchase, nil
}

// ListPurchases returns every quiz the user bought.
func (s *AccessService) ListPurchases(ctx context.Context, userID string) ([]domain.Purchase, error) {
	return s.store.ListPurchases(ctx, userID)
}
