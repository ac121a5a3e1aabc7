package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-results-service/internal/domain"
)

// AccessStore is an in-memory implementation of app.AccessStore.
type AccessStore struct {
	mu        sync.RWMutex
	purchases map[string]domain.Purchase // userID+"\x00"+quizID
}

func NewAccessStore() *AccessStore {
	return &AccessStore{purchases: make(map[string]domain.Purchase)}
}

func purchaseKey(userID, quizID string) string {
	return userID + "\x00" + quizID
}

func (s *AccessStore) GrantPurchase(_ context.Context, p domain.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := purchaseKey(p.UserID, p.QuizID)
	if _, ok := s.purchases[key]; !ok {
		s.purchases[key] = p
	}
	return nil
}

func (s *AccessStore) HasPurchase(_ context.Context, userID, quizID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.purchases[purchaseKey(userID, quizID)]
	return ok, nil
}

func (s *AccessStore) ListPurchases(_ context.Context, userID string) ([]domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Purchase, 0)
	for _, p := range s.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
