package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"quiz-results-service/internal/domain"
)

type quizResultRow struct {
	bun.BaseModel `bun:"table:quiz_results,alias:qr"`

	ID         string    `bun:"id,pk"`
	UserID     string    `bun:"user_id,notnull"`
	QuizID     string    `bun:"quiz_id,notnull"`
	IsFinished bool      `bun:"is_finished,notnull"`
	Result     int       `bun:"result,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

type questionResultRow struct {
	bun.BaseModel `bun:"table:question_results,alias:qnr"`

	ID           string    `bun:"id,pk"`
	QuizResultID string    `bun:"quiz_result_id,notnull"`
	QuestionID   string    `bun:"question_id,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

type optionResultRow struct {
	bun.BaseModel `bun:"table:option_results,alias:opr"`

	ID               string `bun:"id,pk"`
	QuestionResultID string `bun:"question_result_id,notnull"`
	OptionID         string `bun:"option_id,notnull"`
}

// ResultStore persists quiz results in Postgres via bun.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) CreateResult(ctx context.Context, res *domain.QuizResult) error {
	row := quizResultRow{
		ID:         res.ID,
		UserID:     res.UserID,
		QuizID:     res.QuizID,
		IsFinished: res.IsFinished,
		Result:     res.Result,
		CreatedAt:  res.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

func (s *ResultStore) GetResult(ctx context.Context, userID, id string) (domain.QuizResult, error) {
	var row quizResultRow
	err := s.db.NewSelect().Model(&row).
		Where("qr.id = ?", id).
		Where("qr.user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.QuizResult{}, fmt.Errorf("select quiz result: %w", err)
	}
	return row.toDomain(), nil
}

func (s *ResultStore) ListResults(ctx context.Context, userID string, limit, offset int) ([]domain.QuizResult, int, error) {
	var rows []quizResultRow
	total, err := s.db.NewSelect().Model(&rows).
		Where("qr.user_id = ?", userID).
		OrderExpr("qr.created_at DESC, qr.id ASC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list quiz results: %w", err)
	}
	out := make([]domain.QuizResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (s *ResultStore) CreateQuestionResult(ctx context.Context, qr *domain.QuestionResult) error {
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		row := questionResultRow{
			ID:           qr.ID,
			QuizResultID: qr.QuizResultID,
			QuestionID:   qr.QuestionID,
			CreatedAt:    qr.CreatedAt,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}
		options := make([]optionResultRow, 0, len(qr.Options))
		for _, o := range qr.Options {
			options = append(options, optionResultRow{
				ID:               o.ID,
				QuestionResultID: o.QuestionResultID,
				OptionID:         o.OptionID,
			})
		}
		if len(options) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&options).Exec(ctx)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAnswer
		}
		return fmt.Errorf("insert question result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListQuestionResults(ctx context.Context, quizResultID string) ([]domain.QuestionResult, error) {
	var qRows []questionResultRow
	err := s.db.NewSelect().Model(&qRows).
		Where("qnr.quiz_result_id = ?", quizResultID).
		OrderExpr("qnr.created_at ASC, qnr.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list question results: %w", err)
	}
	if len(qRows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(qRows))
	for _, row := range qRows {
		ids = append(ids, row.ID)
	}
	var oRows []optionResultRow
	err = s.db.NewSelect().Model(&oRows).
		Where("opr.question_result_id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list option results: %w", err)
	}
	byQuestion := make(map[string][]domain.OptionResult, len(qRows))
	for _, row := range oRows {
		byQuestion[row.QuestionResultID] = append(byQuestion[row.QuestionResultID], domain.OptionResult{
			ID:               row.ID,
			QuestionResultID: row.QuestionResultID,
			OptionID:         row.OptionID,
		})
	}

	out := make([]domain.QuestionResult, 0, len(qRows))
	for _, row := range qRows {
		out = append(out, domain.QuestionResult{
			ID:           row.ID,
			QuizResultID: row.QuizResultID,
			QuestionID:   row.QuestionID,
			Options:      byQuestion[row.ID],
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, nil
}

// FinalizeResult flips is_finished and writes the score in one statement, so
// a finished flag can never be observed with a stale score.
func (s *ResultStore) FinalizeResult(ctx context.Context, id string, score int) error {
	res, err := s.db.NewUpdate().Model((*quizResultRow)(nil)).
		Set("is_finished = TRUE").
		Set("result = ?", score).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("finalize quiz result: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrResultNotFound
	}
	return nil
}

func (r quizResultRow) toDomain() domain.QuizResult {
	return domain.QuizResult{
		ID:         r.ID,
		UserID:     r.UserID,
		QuizID:     r.QuizID,
		IsFinished: r.IsFinished,
		Result:     r.Result,
		CreatedAt:  r.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
