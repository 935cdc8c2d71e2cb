package service

import (
	"context"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/llm"
	"github.com/stretchr/testify/mock"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCompleter) Name() string { return "mock-model" }

type MockHomeworkStore struct {
	mock.Mock
}

func (m *MockHomeworkStore) Add(ctx context.Context, entry *domain.HomeworkEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHomeworkStore) ListForWeek(ctx context.Context, day time.Time) ([]*domain.HomeworkEntry, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HomeworkEntry), args.Error(1)
}

type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) SaveSummary(ctx context.Context, summary *domain.ConversationSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockConversationStore) ListSummaries(ctx context.Context, user string, limit int) ([]*domain.ConversationSummary, error) {
	args := m.Called(ctx, user, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConversationSummary), args.Error(1)
}

type MockTurnRecorder struct {
	mock.Mock
}

func (m *MockTurnRecorder) Record(ctx context.Context, record domain.TurnRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockTurnSink struct {
	mock.Mock
}

func (m *MockTurnSink) WriteTurn(ctx context.Context, record *domain.TurnRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type fixedUUID struct {
	ids []string
	n   int
}

func (f *fixedUUID) NewString() string {
	id := f.ids[f.n%len(f.ids)]
	f.n++
	return id
}

type staticCorpus []domain.KnowledgeChunk

func (c staticCorpus) Chunks() []domain.KnowledgeChunk { return c }

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
