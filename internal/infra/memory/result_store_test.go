package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-results-service/internal/domain"
)

func TestResultStoreDuplicateAnswer(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	res := domain.QuizResult{ID: "res-1", UserID: "u1", QuizID: "quiz-1", CreatedAt: time.Now()}
	if err := store.CreateResult(ctx, &res); err != nil {
		t.Fatalf("create result: %v", err)
	}

	first := domain.QuestionResult{ID: "qr-1", QuizResultID: "res-1", QuestionID: "q1"}
	if err := store.CreateQuestionResult(ctx, &first); err != nil {
		t.Fatalf("create question result: %v", err)
	}
	second := domain.QuestionResult{ID: "qr-2", QuizResultID: "res-1", QuestionID: "q1"}
	if err := store.CreateQuestionResult(ctx, &second); !errors.Is(err, domain.ErrDuplicateAnswer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestResultStoreOrphanAnswer(t *testing.T) {
	store := NewResultStore()

	qr := domain.QuestionResult{ID: "qr-1", QuizResultID: "res-missing", QuestionID: "q1"}
	if err := store.CreateQuestionResult(context.Background(), &qr); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected result not found, got %v", err)
	}
}

func TestResultStoreListPagination(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		res := domain.QuizResult{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			QuizID:    "quiz-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.CreateResult(ctx, &res); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	other := domain.QuizResult{ID: "zz", UserID: "u2", QuizID: "quiz-1", CreatedAt: base}
	_ = store.CreateResult(ctx, &other)

	page, total, err := store.ListResults(ctx, "u1", 2, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	// newest first: e, d, c, b, a -> offset 1 gives d, c
	if len(page) != 2 || page[0].ID != "d" || page[1].ID != "c" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestResultStoreFinalize(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	res := domain.QuizResult{ID: "res-1", UserID: "u1", QuizID: "quiz-1", CreatedAt: time.Now()}
	_ = store.CreateResult(ctx, &res)

	if err := store.FinalizeResult(ctx, "res-1", 3); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	got, err := store.GetResult(ctx, "u1", "res-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsFinished || got.Result != 3 {
		t.Fatalf("flag and score must persist together, got %+v", got)
	}

	if err := store.FinalizeResult(ctx, "res-missing", 1); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected result not found, got %v", err)
	}
}
