package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TurnLogRepository stores scored assistant turns for curation.
type TurnLogRepository struct {
	db dbtx
}

func NewTurnLogRepository(pool *pgxpool.Pool) *TurnLogRepository {
	return &TurnLogRepository{db: pool}
}

// WriteTurn inserts a turn and fills in its generated ID.
func (r *TurnLogRepository) WriteTurn(ctx context.Context, record *domain.TurnRecord) error {
	factsJSON, err := json.Marshal(record.RetrievedFacts)
	if err != nil {
		return err
	}
	flags := record.Flags
	if flags == nil {
		flags = []string{}
	}
	timestamp := record.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO turn_logs (created_at, user_name, retrieved_facts, raw_reply, final_reply, length, readability_score, flags, model, elapsed_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		timestamp,
		record.User,
		factsJSON,
		record.RawReply,
		record.FinalReply,
		record.Length,
		record.ReadabilityScore,
		flags,
		nullableString(record.Model),
		record.ElapsedMS,
	).Scan(&record.ID)
}

// ListFlagged returns flagged turns created at or after since, oldest first.
// A non-nil after resumes strictly past that row. Up to limit+1 rows are
// returned so callers can tell whether another page exists.
func (r *TurnLogRepository) ListFlagged(ctx context.Context, since time.Time, after *pagination.Cursor, limit int) ([]domain.TurnRecord, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	afterTS := since
	afterID := ""
	if after != nil {
		afterTS = after.Timestamp
		afterID = after.LastID
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, created_at, user_name, retrieved_facts, raw_reply, final_reply, length, readability_score, flags, model, elapsed_ms
		 FROM turn_logs
		 WHERE cardinality(flags) > 0
		   AND created_at >= $1
		   AND (created_at, id::text) > ($2, $3)
		 ORDER BY created_at ASC, id ASC
		 LIMIT $4`,
		since, afterTS, afterID, limit+1,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.TurnRecord
	for rows.Next() {
		var rec domain.TurnRecord
		var factsJSON []byte
		var model *string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.User, &factsJSON, &rec.RawReply, &rec.FinalReply,
			&rec.Length, &rec.ReadabilityScore, &rec.Flags, &model, &rec.ElapsedMS); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(factsJSON, &rec.RetrievedFacts); err != nil {
			return nil, err
		}
		if model != nil {
			rec.Model = *model
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
