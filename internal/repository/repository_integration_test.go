//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/pagination"
	"github.com/cloo-solutions/classmate/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := testutil.NewPostgresContainer(ctx, t)
	return testutil.NewTestPool(ctx, t, pc, "../../migrations")
}

// TestRepositories shares one Postgres container across cases and truncates
// every table before each one.
func TestRepositories(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(ctx, t)

	cases := []struct {
		name string
		run  func(context.Context, *testing.T, *pgxpool.Pool)
	}{
		{name: "turn logs", run: testTurnLogRepository},
		{name: "conversations", run: testConversationRepository},
		{name: "homework", run: testHomeworkRepository},
		{name: "embedding cache", run: testEmbeddingCacheRepository},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, testutil.TruncateAll(ctx, pool))
			tc.run(ctx, t, pool)
		})
	}
}

func testTurnLogRepository(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	repo := NewTurnLogRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	flagged := &domain.TurnRecord{
		Timestamp:      now,
		User:           "Thandi",
		RetrievedFacts: []string{"The principal is Mrs Naidoo."},
		RawReply:       "Mrs Naidoo!",
		FinalReply:     "Mrs Naidoo!",
		Length:         11,
		Flags:          []string{domain.FlagReadability},
		Model:          "phi-4",
		ElapsedMS:      420,
	}
	clean := &domain.TurnRecord{Timestamp: now, User: "Sipho", RetrievedFacts: []string{}, Flags: []string{}}

	require.NoError(t, repo.WriteTurn(ctx, flagged))
	require.NoError(t, repo.WriteTurn(ctx, clean))
	assert.NotEmpty(t, flagged.ID)

	records, err := repo.ListFlagged(ctx, now.Add(-time.Minute), nil, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, flagged.ID, records[0].ID)
	assert.Equal(t, []string{"The principal is Mrs Naidoo."}, records[0].RetrievedFacts)
	assert.Equal(t, "phi-4", records[0].Model)
	assert.Equal(t, int64(420), records[0].ElapsedMS)

	later := &domain.TurnRecord{Timestamp: now.Add(time.Second), User: "Lerato", RetrievedFacts: []string{}, Flags: []string{domain.FlagLength}}
	require.NoError(t, repo.WriteTurn(ctx, later))

	first, err := repo.ListFlagged(ctx, now.Add(-time.Minute), nil, 1)
	require.NoError(t, err)
	require.Len(t, first, 2, "one extra row signals another page")
	page := pagination.NewPage(first, 1,
		func(r domain.TurnRecord) string { return r.ID },
		func(r domain.TurnRecord) time.Time { return r.Timestamp })
	require.True(t, page.HasMore)

	cursor, err := pagination.DecodeCursor(page.Cursor)
	require.NoError(t, err)
	rest, err := repo.ListFlagged(ctx, now.Add(-time.Minute), cursor, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, later.ID, rest[0].ID)
}

func testConversationRepository(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	repo := NewConversationRepository(pool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i, text := range []string{"first", "second", "third"} {
		require.NoError(t, repo.SaveSummary(ctx, &domain.ConversationSummary{
			User: "Thandi", Summary: text, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	summaries, err := repo.ListSummaries(ctx, "Thandi", 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "third", summaries[0].Summary)
	assert.Equal(t, "second", summaries[1].Summary)

	err = repo.SaveSummary(ctx, &domain.ConversationSummary{Summary: "anonymous"})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func testHomeworkRepository(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	repo := NewHomeworkRepository(pool)

	wednesday := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	entry := &domain.HomeworkEntry{
		ID:          uuid.NewString(),
		SchoolID:    "bryneven",
		Grade:       "3",
		WeekStart:   wednesday,
		Subject:     "Maths",
		Description: "Times tables 2 to 5",
		CreatedAt:   wednesday,
	}
	require.NoError(t, repo.Add(ctx, entry))

	entries, err := repo.ListForWeek(ctx, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), entries[0].WeekStart)
	assert.Equal(t, "", entries[0].CreatedBy)

	entries, err = repo.ListForWeek(ctx, time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testEmbeddingCacheRepository(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	repo := NewEmbeddingCacheRepository(pool)

	_, err := repo.GetEmbedding(ctx, "abc", "text-embedding-3-small")
	assert.ErrorIs(t, err, domain.ErrEmbeddingMissing)

	require.NoError(t, repo.PutEmbedding(ctx, "abc", "text-embedding-3-small", []float32{0.1, 0.2, 0.3}))
	require.NoError(t, repo.PutEmbedding(ctx, "abc", "text-embedding-3-small", []float32{0.4, 0.5, 0.6}))

	vec, err := repo.GetEmbedding(ctx, "abc", "text-embedding-3-small")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.4, 0.5, 0.6}, vec, 1e-6)
}
