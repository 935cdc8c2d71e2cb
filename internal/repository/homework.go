package repository

import (
	"context"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HomeworkRepository stores homework entries in Postgres.
type HomeworkRepository struct {
	db dbtx
}

func NewHomeworkRepository(pool *pgxpool.Pool) *HomeworkRepository {
	return &HomeworkRepository{db: pool}
}

func (r *HomeworkRepository) Add(ctx context.Context, entry *domain.HomeworkEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO homework (id, school_id, grade, week_start, subject, description, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		nullableString(entry.SchoolID),
		entry.Grade,
		domain.WeekOf(entry.WeekStart),
		entry.Subject,
		entry.Description,
		nullableString(entry.CreatedBy),
		entry.CreatedAt,
	)
	return err
}

// ListForWeek returns every entry of the week containing day, oldest first.
func (r *HomeworkRepository) ListForWeek(ctx context.Context, day time.Time) ([]*domain.HomeworkEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, school_id, grade, week_start, subject, description, created_by, created_at
		 FROM homework
		 WHERE week_start = $1
		 ORDER BY created_at ASC`,
		domain.WeekOf(day),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.HomeworkEntry
	for rows.Next() {
		var hw domain.HomeworkEntry
		var schoolID, createdBy *string
		if err := rows.Scan(&hw.ID, &schoolID, &hw.Grade, &hw.WeekStart, &hw.Subject, &hw.Description, &createdBy, &hw.CreatedAt); err != nil {
			return nil, err
		}
		if schoolID != nil {
			hw.SchoolID = *schoolID
		}
		if createdBy != nil {
			hw.CreatedBy = *createdBy
		}
		hw.WeekStart = hw.WeekStart.UTC()
		entries = append(entries, &hw)
	}
	return entries, rows.Err()
}
