package admin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlaggedLister struct {
	mock.Mock
}

func (m *MockFlaggedLister) ListFlagged(ctx context.Context, since time.Time, after *pagination.Cursor, limit int) ([]domain.TurnRecord, error) {
	args := m.Called(ctx, since, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TurnRecord), args.Error(1)
}

func TestAllFlagged_FollowsCursor(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	first := make([]domain.TurnRecord, pagination.MaxLimit+1)
	for i := range first {
		first[i] = domain.TurnRecord{ID: "t" + strings.Repeat("x", i%3), Timestamp: since.Add(time.Duration(i) * time.Second)}
	}
	last := first[pagination.MaxLimit-1]

	lister := new(MockFlaggedLister)
	lister.On("ListFlagged", mock.Anything, since, (*pagination.Cursor)(nil), pagination.MaxLimit).Return(first, nil).Once()
	lister.On("ListFlagged", mock.Anything, since, mock.MatchedBy(func(c *pagination.Cursor) bool {
		return c != nil && c.LastID == last.ID && c.Timestamp.Equal(last.Timestamp)
	}), pagination.MaxLimit).Return([]domain.TurnRecord{{ID: "final"}}, nil).Once()

	turns, err := allFlagged(context.Background(), lister, since)

	require.NoError(t, err)
	assert.Len(t, turns, pagination.MaxLimit+1)
	assert.Equal(t, "final", turns[len(turns)-1].ID)
	lister.AssertExpectations(t)
}

func TestFlaggedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatbot_logs.jsonl")
	lines := strings.Join([]string{
		`{"timestamp":"2026-03-02T08:00:00Z","user":"Thandi","final_reply":"ok","flags":["readability"]}`,
		`{"timestamp":"2026-03-02T08:01:00Z","user":"Sipho","final_reply":"fine","flags":[]}`,
		`not json`,
		`{"timestamp":"2026-02-01T08:00:00Z","user":"Old","final_reply":"old","flags":["length"]}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	turns, err := flaggedFromFile(path, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "Thandi", turns[0].User)
}

func TestFlaggedFromFile_Missing(t *testing.T) {
	_, err := flaggedFromFile(filepath.Join(t.TempDir(), "nope.jsonl"), time.Time{})
	assert.Error(t, err)
}

func TestWriteCurationReport(t *testing.T) {
	var buf bytes.Buffer
	writeCurationReport(&buf, []domain.TurnRecord{{
		Timestamp:  time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		User:       "Thandi",
		FinalReply: strings.Repeat("word ", 100),
		Flags:      []string{domain.FlagReadability, domain.FlagLength},
	}})

	out := buf.String()
	assert.Contains(t, out, "Thandi")
	assert.Contains(t, out, "readability,length")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "1 flagged turns (readability 1, length 1, negative feedback 0)")

	buf.Reset()
	writeCurationReport(&buf, nil)
	assert.Equal(t, "No flagged turns.\n", buf.String())
}

func TestWriteCorpusStats(t *testing.T) {
	corpus := &domain.Corpus{
		Chunks: []domain.KnowledgeChunk{
			{Text: "The principal is Mrs Naidoo.", Topics: []string{"leadership"}},
			{Text: "Fees are due monthly.", Topics: []string{"fees"}},
		},
		Sources: []domain.SourceStats{
			{Name: "data/knowledge.json", Facts: 2, Chunks: 2},
			{Name: "data/knowledge.txt", Error: "knowledge source not found"},
		},
	}
	var buf bytes.Buffer
	writeCorpusStats(&buf, corpus, true)

	out := buf.String()
	assert.Contains(t, out, "chunks: 2")
	assert.Contains(t, out, "data/knowledge.txt: failed (knowledge source not found)")
	assert.Contains(t, out, "leadership")
	assert.Contains(t, out, "Fees are due monthly.")
}

func TestWriteCorpusJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCorpusJSON(&buf, &domain.Corpus{}, false))
	assert.JSONEq(t, `{"chunks":0,"topics":{},"sources":null}`, buf.String())
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/json", contentTypeFor("knowledge.json"))
	assert.Equal(t, "text/plain; charset=utf-8", contentTypeFor("knowledge.txt"))
}
