package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-results-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultStore, used by
// tests and by demo mode when no Postgres URL is configured.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.QuizResult
	answers map[string][]domain.QuestionResult // quizResultID -> answers in insert order
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[string]domain.QuizResult),
		answers: make(map[string][]domain.QuestionResult),
	}
}

func (s *ResultStore) CreateResult(_ context.Context, res *domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[res.ID] = *res
	return nil
}

func (s *ResultStore) GetResult(_ context.Context, userID, id string) (domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[id]
	if !ok || res.UserID != userID {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	return res, nil
}

func (s *ResultStore) ListResults(_ context.Context, userID string, limit, offset int) ([]domain.QuizResult, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]domain.QuizResult, 0)
	for _, res := range s.results {
		if res.UserID == userID {
			owned = append(owned, res)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].ID < owned[j].ID
	})

	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (s *ResultStore) CreateQuestionResult(_ context.Context, qr *domain.QuestionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[qr.QuizResultID]; !ok {
		return domain.ErrResultNotFound
	}
	for _, existing := range s.answers[qr.QuizResultID] {
		if existing.QuestionID == qr.QuestionID {
			return domain.ErrDuplicateAnswer
		}
	}
	s.answers[qr.QuizResultID] = append(s.answers[qr.QuizResultID], *qr)
	return nil
}

func (s *ResultStore) ListQuestionResults(_ context.Context, quizResultID string) ([]domain.QuestionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answers := s.answers[quizResultID]
	out := make([]domain.QuestionResult, len(answers))
	copy(out, answers)
	return out, nil
}

func (s *ResultStore) FinalizeResult(_ context.Context, id string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[id]
	if !ok {
		return domain.ErrResultNotFound
	}
	res.IsFinished = true
	res.Result = score
	s.results[id] = res
	return nil
}
