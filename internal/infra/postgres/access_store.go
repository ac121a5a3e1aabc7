package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"quiz-results-service/internal/domain"
)

type purchaseRow struct {
	bun.BaseModel `bun:"table:purchases,alias:p"`

	UserID    string    `bun:"user_id,pk"`
	QuizID    string    `bun:"quiz_id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// AccessStore persists purchase grants in Postgres.
type AccessStore struct {
	db *bun.DB
}

func NewAccessStore(db *bun.DB) *AccessStore {
	return &AccessStore{db: db}
}

func (s *AccessStore) GrantPurchase(ctx context.Context, p domain.Purchase) error {
	row := purchaseRow{UserID: p.UserID, QuizID: p.QuizID, CreatedAt: p.CreatedAt}
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (user_id, quiz_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("grant purchase: %w", err)
	}
	return nil
}

func (s *AccessStore) HasPurchase(ctx context.Context, userID, quizID string) (bool, error) {
	exists, err := s.db.NewSelect().Model((*purchaseRow)(nil)).
		Where("p.user_id = ?", userID).
		Where("p.quiz_id = ?", quizID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return exists, nil
}

func (s *AccessStore) ListPurchases(ctx context.Context, userID string) ([]domain.Purchase, error) {
	var rows []purchaseRow
	err := s.db.NewSelect().Model(&rows).
		Where("p.user_id = ?", userID).
		OrderExpr("p.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	out := make([]domain.Purchase, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Purchase{UserID: row.UserID, QuizID: row.QuizID, CreatedAt: row.CreatedAt})
	}
	return out, nil
}
