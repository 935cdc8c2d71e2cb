package repository

import (
	"context"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository stores periodic conversation summaries.
type ConversationRepository struct {
	db dbtx
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: pool}
}

func (r *ConversationRepository) SaveSummary(ctx context.Context, summary *domain.ConversationSummary) error {
	if summary.User == "" {
		return domain.ErrMissingRequiredField
	}
	createdAt := summary.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO conversation_summaries (user_name, summary, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		summary.User, summary.Summary, createdAt,
	).Scan(&summary.ID)
}

func (r *ConversationRepository) ListSummaries(ctx context.Context, user string, limit int) ([]*domain.ConversationSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_name, summary, created_at
		 FROM conversation_summaries
		 WHERE user_name = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		user, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.ConversationSummary
	for rows.Next() {
		var s domain.ConversationSummary
		if err := rows.Scan(&s.ID, &s.User, &s.Summary, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}
