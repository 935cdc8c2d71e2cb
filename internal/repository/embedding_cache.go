package repository

import (
	"context"
	"errors"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingCacheRepository caches chunk embeddings keyed by text hash and model.
type EmbeddingCacheRepository struct {
	db dbtx
}

func NewEmbeddingCacheRepository(pool *pgxpool.Pool) *EmbeddingCacheRepository {
	return &EmbeddingCacheRepository{db: pool}
}

func (r *EmbeddingCacheRepository) GetEmbedding(ctx context.Context, textHash, model string) ([]float32, error) {
	var vec pgvector.Vector
	err := r.db.QueryRow(ctx,
		`SELECT embedding FROM chunk_embeddings WHERE text_hash = $1 AND model = $2`,
		textHash, model,
	).Scan(&vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmbeddingMissing
		}
		return nil, err
	}
	return vec.Slice(), nil
}

func (r *EmbeddingCacheRepository) PutEmbedding(ctx context.Context, textHash, model string, embedding []float32) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chunk_embeddings (text_hash, model, embedding)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (text_hash, model) DO UPDATE SET embedding = EXCLUDED.embedding, created_at = now()`,
		textHash, model, pgvector.NewVector(embedding),
	)
	return err
}
