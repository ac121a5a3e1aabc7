package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"quiz-results-service/internal/domain"
)

type associationRow struct {
	bun.BaseModel `bun:"table:user_quiz_associations,alias:uqa"`

	UserID    string    `bun:"user_id,pk"`
	QuizID    string    `bun:"quiz_id,pk"`
	Kind      string    `bun:"kind,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// AssociationStore persists user<->quiz links in an explicit join table.
type AssociationStore struct {
	db *bun.DB
}

func NewAssociationStore(db *bun.DB) *AssociationStore {
	return &AssociationStore{db: db}
}

func (s *AssociationStore) AddAssociation(ctx context.Context, a domain.Association) error {
	row := associationRow{UserID: a.UserID, QuizID: a.QuizID, Kind: string(a.Kind), CreatedAt: a.CreatedAt}
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (user_id, quiz_id, kind) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("add association: %w", err)
	}
	return nil
}

func (s *AssociationStore) RemoveAssociation(ctx context.Context, userID, quizID string, kind domain.AssociationKind) error {
	res, err := s.db.NewDelete().Model((*associationRow)(nil)).
		Where("user_id = ?", userID).
		Where("quiz_id = ?", quizID).
		Where("kind = ?", string(kind)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("remove association: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAssociationNotFound
	}
	return nil
}

func (s *AssociationStore) ListAssociations(ctx context.Context, userID string, kind domain.AssociationKind) ([]domain.Association, error) {
	var rows []associationRow
	err := s.db.NewSelect().Model(&rows).
		Where("uqa.user_id = ?", userID).
		Where("uqa.kind = ?", string(kind)).
		OrderExpr("uqa.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	out := make([]domain.Association, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Association{
			UserID:    row.UserID,
			QuizID:    row.QuizID,
			Kind:      domain.AssociationKind(row.Kind),
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
