package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/llm"
	"github.com/cloo-solutions/classmate/internal/pagination"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatRouter struct {
	mock.Mock
}

func (m *MockChatRouter) Route(ctx context.Context, req llm.RouteRequest) (*llm.RouteResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.RouteResult), args.Error(1)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCompleter) Name() string { return "mock-model" }

type MockCorpusManager struct {
	mock.Mock
}

func (m *MockCorpusManager) Current() *domain.Corpus {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Corpus)
}

func (m *MockCorpusManager) Reload(ctx context.Context) *domain.Corpus {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Corpus)
}

type MockAnswerEvaluator struct {
	mock.Mock
}

func (m *MockAnswerEvaluator) Evaluate(ctx context.Context, question string, options []string, userAnswer string) (*domain.Evaluation, error) {
	args := m.Called(ctx, question, options, userAnswer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

type MockHomeworkService struct {
	mock.Mock
}

func (m *MockHomeworkService) Add(ctx context.Context, entry *domain.HomeworkEntry) (*domain.HomeworkEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HomeworkEntry), args.Error(1)
}

func (m *MockHomeworkService) ListForLearner(ctx context.Context, learner domain.Learner) ([]*domain.HomeworkEntry, error) {
	args := m.Called(ctx, learner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HomeworkEntry), args.Error(1)
}

type MockFlaggedTurnLister struct {
	mock.Mock
}

func (m *MockFlaggedTurnLister) ListFlagged(ctx context.Context, since time.Time, after *pagination.Cursor, limit int) ([]domain.TurnRecord, error) {
	args := m.Called(ctx, since, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TurnRecord), args.Error(1)
}

type chunkList []domain.KnowledgeChunk

func (c chunkList) Chunks() []domain.KnowledgeChunk { return c }

var schoolChunks = chunkList{
	{Text: "[leadership] The principal is Mrs Naidoo.", Topics: []string{"leadership"}},
	{Text: "[hours] School starts at 07:30 every day.", Topics: []string{"hours"}},
	{Text: "[sports] Netball practice is on Tuesdays.", Topics: []string{"sports"}},
}

// decodeData unwraps the {"data": ...} envelope into dst.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}
