package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-results-service/internal/domain"
)

// AssociationStore is an in-memory implementation of app.AssociationStore.
type AssociationStore struct {
	mu    sync.RWMutex
	links map[string]domain.Association // userID+"\x00"+quizID+"\x00"+kind
}

func NewAssociationStore() *AssociationStore {
	return &AssociationStore{links: make(map[string]domain.Association)}
}

func assocKey(userID, quizID string, kind domain.AssociationKind) string {
	return userID + "\x00" + quizID + "\x00" + string(kind)
}

func (s *AssociationStore) AddAssociation(_ context.Context, a domain.Association) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := assocKey(a.UserID, a.QuizID, a.Kind)
	if _, ok := s.links[key]; !ok {
		s.links[key] = a
	}
	return nil
}

func (s *AssociationStore) RemoveAssociation(_ context.Context, userID, quizID string, kind domain.AssociationKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := assocKey(userID, quizID, kind)
	if _, ok := s.links[key]; !ok {
		return domain.ErrAssociationNotFound
	}
	delete(s.links, key)
	return nil
}

func (s *AssociationStore) ListAssociations(_ context.Context, userID string, kind domain.AssociationKind) ([]domain.Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Association, 0)
	for _, a := range s.links {
		if a.UserID == userID && a.Kind == kind {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
