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

func newTestService() (*app.ResultService, *memory.ResultStore) {
	store := memory.NewResultStore()
	catalog := memory.NewCatalog(memory.NewStaticCatalogLoader(map[string]domain.Quiz{
		"quiz-1":     fixtureQuiz(),
		"quiz-empty": {ID: "quiz-empty", Title: "Empty", IsFree: true},
	}), 5*time.Minute)
	return app.NewResultService(store, catalog, app.NewProgressFeed()), store
}

// fixtureQuiz has question A with one correct option and question B with two.
func fixtureQuiz() domain.Quiz {
	return domain.Quiz{
		ID:     "quiz-1",
		Title:  "Fixture",
		IsFree: true,
		Questions: []domain.Question{
			{
				ID:   "qA",
				Text: "Pick the right one",
				Options: []domain.Option{
					{ID: "o1", Text: "right", IsRight: true},
					{ID: "o9", Text: "wrong", IsRight: false},
				},
			},
			{
				ID:   "qB",
				Text: "Pick both right ones",
				Options: []domain.Option{
					{ID: "o2", Text: "right", IsRight: true},
					{ID: "o3", Text: "also right", IsRight: true},
					{ID: "o4", Text: "wrong", IsRight: false},
				},
			},
		},
	}
}

func TestStartAttempt(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, err := service.Start(ctx, "u1", "quiz-1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if res.IsFinished || res.Result != 0 {
		t.Fatalf("expected open attempt with zero result, got %+v", res)
	}
	if res.UserID != "u1" || res.QuizID != "quiz-1" {
		t.Fatalf("attempt not linked to user and quiz: %+v", res)
	}

	// multiple attempts at the same quiz are independent records
	again, err := service.Start(ctx, "u1", "quiz-1")
	if err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if again.ID == res.ID {
		t.Fatalf("expected independent attempts, got same id %s", res.ID)
	}
}

func TestStartAttemptUnknownQuiz(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Start(context.Background(), "u1", "quiz-missing")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	if _, err := service.Get(ctx, "u2", res.ID); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected foreign attempt to look absent, got %v", err)
	}
}

func TestRecordAnswerCrossQuiz(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-empty")
	_, err := service.RecordAnswer(ctx, "u1", res.ID, "qA", []string{"o1"})
	if !errors.Is(err, domain.ErrQuizMismatch) {
		t.Fatalf("expected quiz mismatch, got %v", err)
	}
	answers, _ := store.ListQuestionResults(ctx, res.ID)
	if len(answers) != 0 {
		t.Fatalf("mismatch must create nothing, got %d answers", len(answers))
	}
}

func TestRecordAnswerForeignOption(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	_, err := service.RecordAnswer(ctx, "u1", res.ID, "qA", []string{"o2"})
	if !errors.Is(err, domain.ErrOptionMismatch) {
		t.Fatalf("expected option mismatch, got %v", err)
	}
}

func TestRecordAnswerRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qA", []string{"o1"}); err != nil {
		t.Fatalf("first answer failed: %v", err)
	}
	_, err := service.RecordAnswer(ctx, "u1", res.ID, "qA", []string{"o9"})
	if !errors.Is(err, domain.ErrDuplicateAnswer) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestRecordAnswerCreatesOptionResults(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	qr, err := service.RecordAnswer(ctx, "u1", res.ID, "qB", []string{"o2", "o3"})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(qr.Options) != 2 {
		t.Fatalf("expected 2 option results, got %d", len(qr.Options))
	}
	for _, o := range qr.Options {
		if o.QuestionResultID != qr.ID {
			t.Fatalf("option result not linked to parent: %+v", o)
		}
	}
}

func TestFinalizeWithoutAnswers(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	finished, err := service.Finalize(ctx, "u1", res.ID, true)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !finished.IsFinished || finished.Result != 0 {
		t.Fatalf("expected finished with zero score, got %+v", finished)
	}
}

func TestFinalizeExactMatchScoresOne(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qB", []string{"o3", "o2"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	finished, err := service.Finalize(ctx, "u1", res.ID, true)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finished.Result != 1 {
		t.Fatalf("order-insensitive exact match must score, got %d", finished.Result)
	}
}

func TestFinalizeIncompleteSelection(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	// qA answered exactly right, qB missing one correct option
	res, _ := service.Start(ctx, "u1", "quiz-1")
	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qA", []string{"o1"}); err != nil {
		t.Fatalf("record qA: %v", err)
	}
	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qB", []string{"o2"}); err != nil {
		t.Fatalf("record qB: %v", err)
	}
	finished, err := service.Finalize(ctx, "u1", res.ID, true)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finished.Result != 1 {
		t.Fatalf("subset selection must not count, got %d", finished.Result)
	}
}

func TestFinalizeSupersetWithWrongOption(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qB", []string{"o2", "o3", "o4"}); err != nil {
		t.Fatalf("record qB: %v", err)
	}
	finished, err := service.Finalize(ctx, "u1", res.ID, true)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finished.Result != 0 {
		t.Fatalf("superset with a wrong option must not count, got %d", finished.Result)
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qA", []string{"o1"}); err != nil {
		t.Fatalf("record qA: %v", err)
	}
	first, err := service.Finalize(ctx, "u1", res.ID, true)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	// a late answer must not change the frozen score on re-finalize
	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qB", []string{"o2", "o3"}); err != nil {
		t.Fatalf("late record: %v", err)
	}
	second, err := service.Finalize(ctx, "u1", res.ID, true)
	if err != nil {
		t.Fatalf("re-finalize failed: %v", err)
	}
	if second.Result != first.Result {
		t.Fatalf("re-finalize recomputed score: %d -> %d", first.Result, second.Result)
	}
}

func TestUnfinalizeRejected(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	if _, err := service.Finalize(ctx, "u1", res.ID, true); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	_, err := service.Finalize(ctx, "u1", res.ID, false)
	if !errors.Is(err, domain.ErrAlreadyFinished) {
		t.Fatalf("expected un-finalize rejection, got %v", err)
	}
}

func TestFinalizeFalseOnOpenAttemptIsNoop(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")
	same, err := service.Finalize(ctx, "u1", res.ID, false)
	if err != nil {
		t.Fatalf("finalize(false) failed: %v", err)
	}
	if same.IsFinished || same.Result != 0 {
		t.Fatalf("open attempt must stay open with zero result, got %+v", same)
	}
}

func TestLastQuestionProgression(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-1")

	questionID, ok, err := service.LastQuestion(ctx, "u1", res.ID)
	if err != nil {
		t.Fatalf("last question: %v", err)
	}
	if !ok || questionID != "qA" {
		t.Fatalf("fresh attempt must point at first question, got %q ok=%v", questionID, ok)
	}

	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qA", []string{"o1"}); err != nil {
		t.Fatalf("record qA: %v", err)
	}
	questionID, ok, err = service.LastQuestion(ctx, "u1", res.ID)
	if err != nil {
		t.Fatalf("last question: %v", err)
	}
	if !ok || questionID != "qB" {
		t.Fatalf("expected qB next, got %q ok=%v", questionID, ok)
	}

	if _, err := service.RecordAnswer(ctx, "u1", res.ID, "qB", []string{"o2", "o3"}); err != nil {
		t.Fatalf("record qB: %v", err)
	}
	_, ok, err = service.LastQuestion(ctx, "u1", res.ID)
	if err != nil {
		t.Fatalf("last question: %v", err)
	}
	if ok {
		t.Fatalf("fully answered attempt must have no next question")
	}
}

func TestLastQuestionEmptyQuiz(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	res, _ := service.Start(ctx, "u1", "quiz-empty")
	_, ok, err := service.LastQuestion(ctx, "u1", res.ID)
	if err != nil {
		t.Fatalf("last question: %v", err)
	}
	if ok {
		t.Fatalf("quiz without questions must have no next question")
	}
}
