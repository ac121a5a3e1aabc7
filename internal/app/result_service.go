package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quiz-results-service/internal/domain"
)

// CatalogRepository loads quiz content (from cache/backing store).
type CatalogRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context, limit, offset int) ([]domain.Quiz, int, error)
}

// ResultStore abstracts how quiz results are stored (in-memory, Postgres, etc).
// Implementations enforce the (attempt, question) uniqueness invariant and
// create a question result together with its option results atomically.
type ResultStore interface {
	CreateResult(ctx context.Context, res *domain.QuizResult) error
	GetResult(ctx context.Context, userID, id string) (domain.QuizResult, error)
	ListResults(ctx context.Context, userID string, limit, offset int) ([]domain.QuizResult, int, error)
	CreateQuestionResult(ctx context.Context, qr *domain.QuestionResult) error
	ListQuestionResults(ctx context.Context, quizResultID string) ([]domain.QuestionResult, error)
	FinalizeResult(ctx context.Context, id string, score int) error
}

// ResultService contains the attempt lifecycle use cases: start, record
// answers, finalize with scoring, and the next-unanswered-question query.
type ResultService struct {
	store   ResultStore
	catalog CatalogRepository
	feed    *ProgressFeed
	now     func() time.Time
}

func NewResultService(store ResultStore, catalog CatalogRepository, feed *ProgressFeed) *ResultService {
	return NewResultServiceWithClock(store, catalog, feed, time.Now)
}

// NewResultServiceWithClock is test-only for deterministic timestamps.
func NewResultServiceWithClock(store ResultStore, catalog CatalogRepository, feed *ProgressFeed, now func() time.Time) *ResultService {
	return &ResultService{store: store, catalog: catalog, feed: feed, now: now}
}

// Start creates a new open attempt at a quiz. Users may start any number of
// attempts at the same quiz; each is an independent record.
func (s *ResultService) Start(ctx context.Context, userID, quizID string) (domain.QuizResult, error) {
	if _, err := s.catalog.GetQuiz(ctx, quizID); err != nil {
		return domain.QuizResult{}, err
	}

	res := domain.QuizResult{
		ID:         uuid.NewString(),
		UserID:     userID,
		QuizID:     quizID,
		IsFinished: false,
		Result:     0,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateResult(ctx, &res); err != nil {
		return domain.QuizResult{}, err
	}
	return res, nil
}

// Get returns a single attempt scoped to its owner.
func (s *ResultService) Get(ctx context.Context, userID, id string) (domain.QuizResult, error) {
	return s.store.GetResult(ctx, userID, id)
}

// List returns the user's attempts, newest first, with the total count for
// pagination.
func (s *ResultService) List(ctx context.Context, userID string, limit, offset int) ([]domain.QuizResult, int, error) {
	return s.store.ListResults(ctx, userID, limit, offset)
}

// RecordAnswer creates one question result plus one option result per
// selected option, atomically. The question must belong to the attempt's
// quiz and every option to that question; a repeat answer for the same
// question is rejected. Finished attempts are not rejected here: the score
// was already frozen at finalize time.
func (s *ResultService) RecordAnswer(ctx context.Context, userID, quizResultID, questionID string, optionIDs []string) (domain.QuestionResult, error) {
	res, err := s.store.GetResult(ctx, userID, quizResultID)
	if err != nil {
		return domain.QuestionResult{}, err
	}

	quiz, err := s.catalog.GetQuiz(ctx, res.QuizID)
	if err != nil {
		return domain.QuestionResult{}, err
	}
	question, ok := quiz.QuestionByID(questionID)
	if !ok {
		return domain.QuestionResult{}, domain.ErrQuizMismatch
	}
	if len(optionIDs) == 0 {
		return domain.QuestionResult{}, domain.ErrNoOptions
	}

	qr := domain.QuestionResult{
		ID:           uuid.NewString(),
		QuizResultID: res.ID,
		QuestionID:   questionID,
		CreatedAt:    s.now(),
	}
	seen := make(map[string]struct{}, len(optionIDs))
	for _, optionID := range optionIDs {
		if !question.HasOption(optionID) {
			return domain.QuestionResult{}, domain.ErrOptionMismatch
		}
		if _, dup := seen[optionID]; dup {
			continue
		}
		seen[optionID] = struct{}{}
		qr.Options = append(qr.Options, domain.OptionResult{
			ID:               uuid.NewString(),
			QuestionResultID: qr.ID,
			OptionID:         optionID,
		})
	}

	if err := s.store.CreateQuestionResult(ctx, &qr); err != nil {
		return domain.QuestionResult{}, err
	}
	s.publishProgress(ctx, res)
	return qr, nil
}

// Finalize transitions an attempt per the requested flag.
//
// open -> closed computes the score and persists it together with the flag.
// closed -> closed is a no-op returning the stored state; the score is never
// recomputed. closed -> open is rejected.
func (s *ResultService) Finalize(ctx context.Context, userID, id string, finished bool) (domain.QuizResult, error) {
	res, err := s.store.GetResult(ctx, userID, id)
	if err != nil {
		return domain.QuizResult{}, err
	}

	if !finished {
		if res.IsFinished {
			return domain.QuizResult{}, domain.ErrAlreadyFinished
		}
		return res, nil
	}
	if res.IsFinished {
		return res, nil
	}

	quiz, err := s.catalog.GetQuiz(ctx, res.QuizID)
	if err != nil {
		return domain.QuizResult{}, err
	}
	answers, err := s.store.ListQuestionResults(ctx, res.ID)
	if err != nil {
		return domain.QuizResult{}, err
	}

	score := scoreAnswers(quiz, answers)
	if err := s.store.FinalizeResult(ctx, res.ID, score); err != nil {
		return domain.QuizResult{}, err
	}
	res.IsFinished = true
	res.Result = score
	s.publishProgress(ctx, res)
	return res, nil
}

// LastQuestion returns the first catalog-ordered question of the attempt's
// quiz that has no recorded answer, or ok=false when every question has been
// answered (trivially so for a quiz without questions).
func (s *ResultService) LastQuestion(ctx context.Context, userID, id string) (string, bool, error) {
	res, err := s.store.GetResult(ctx, userID, id)
	if err != nil {
		return "", false, err
	}
	quiz, err := s.catalog.GetQuiz(ctx, res.QuizID)
	if err != nil {
		return "", false, err
	}
	answers, err := s.store.ListQuestionResults(ctx, res.ID)
	if err != nil {
		return "", false, err
	}

	answered := make(map[string]struct{}, len(answers))
	for _, qr := range answers {
		answered[qr.QuestionID] = struct{}{}
	}
	for _, question := range quiz.Questions {
		if _, ok := answered[question.ID]; !ok {
			return question.ID, true, nil
		}
	}
	return "", false, nil
}

// Progress builds the live-feed snapshot for an attempt.
func (s *ResultService) Progress(ctx context.Context, userID, id string) (domain.AttemptProgress, error) {
	res, err := s.store.GetResult(ctx, userID, id)
	if err != nil {
		return domain.AttemptProgress{}, err
	}
	return s.progressOf(ctx, res)
}

func (s *ResultService) progressOf(ctx context.Context, res domain.QuizResult) (domain.AttemptProgress, error) {
	answers, err := s.store.ListQuestionResults(ctx, res.ID)
	if err != nil {
		return domain.AttemptProgress{}, err
	}
	return domain.AttemptProgress{
		QuizResultID: res.ID,
		QuizID:       res.QuizID,
		Answered:     len(answers),
		IsFinished:   res.IsFinished,
		Result:       res.Result,
		UpdatedAt:    s.now(),
	}, nil
}

func (s *ResultService) publishProgress(ctx context.Context, res domain.QuizResult) {
	if s.feed == nil {
		return
	}
	progress, err := s.progressOf(ctx, res)
	if err != nil {
		return
	}
	s.feed.Publish(progress)
}

// scoreAnswers counts questions answered exactly right: the submitted option
// set must equal the question's correct option set, order irrelevant. A
// missing correct option or an extra wrong one disqualifies the question.
func scoreAnswers(quiz domain.Quiz, answers []domain.QuestionResult) int {
	score := 0
	for _, qr := range answers {
		question, ok := quiz.QuestionByID(qr.QuestionID)
		if !ok {
			continue
		}
		correct := question.CorrectOptionIDs()
		if len(correct) == 0 || len(qr.Options) != len(correct) {
			continue
		}
		match := true
		for _, selected := range qr.Options {
			if _, ok := correct[selected.OptionID]; !ok {
				match = false
				break
			}
		}
		if match {
			score++
		}
	}
	return score
}
