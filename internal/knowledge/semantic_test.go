package knowledge

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mapEmbedder returns fixed vectors per text.
type mapEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   int
}

func (e *mapEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	vec, ok := e.vectors[text]
	if !ok {
		return nil, errors.New("unknown text")
	}
	return vec, nil
}

type MockEmbeddingCache struct {
	mock.Mock
}

func (m *MockEmbeddingCache) GetEmbedding(ctx context.Context, textHash, model string) ([]float32, error) {
	args := m.Called(ctx, textHash, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingCache) PutEmbedding(ctx context.Context, textHash, model string, embedding []float32) error {
	args := m.Called(ctx, textHash, model, embedding)
	return args.Error(0)
}

func semanticCorpus() *domain.Corpus {
	return &domain.Corpus{Chunks: []domain.KnowledgeChunk{
		{Text: "Soccer on Monday", Topics: []string{"sports"}},
		{Text: "Fees are monthly", Topics: []string{"fees"}},
		{Text: "We have a library", Topics: []string{"general"}},
		{Text: "Robots use cubes", Topics: []string{"robotics"}},
	}}
}

func semanticEmbedder() *mapEmbedder {
	return &mapEmbedder{vectors: map[string][]float32{
		"Soccer on Monday":  {1, 0, 0},
		"Fees are monthly":  {0, 1, 0},
		"We have a library": {0, 0, 1},
		"Robots use cubes":  {0.7, 0, 0.7},
		"when is soccer":    {1, 0.1, 0},
		"what are the fees": {0.6, 0.8, 0},
	}}
}

func TestSemanticIndex_Search(t *testing.T) {
	idx, err := NewSemanticIndex(context.Background(), semanticCorpus(), SemanticConfig{Embedder: semanticEmbedder()})
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	results, err := idx.Search(context.Background(), "when is soccer", 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Soccer on Monday", results[0].Text)
	assert.Equal(t, "Robots use cubes", results[1].Text)
}

func TestSemanticIndex_TopicAwareSearchBroadens(t *testing.T) {
	idx, err := NewSemanticIndex(context.Background(), semanticCorpus(), SemanticConfig{Embedder: semanticEmbedder()})
	require.NoError(t, err)

	// "fees" matches one chunk; adding general gives two, so the whole corpus is used.
	results, err := idx.TopicAwareSearch(context.Background(), "what are the fees", 4)

	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "Fees are monthly", results[0].Text)
}

func TestSemanticIndex_UsesCache(t *testing.T) {
	embedder := semanticEmbedder()
	cache := new(MockEmbeddingCache)
	cached := HashText("Soccer on Monday")
	cache.On("GetEmbedding", mock.Anything, cached, "test-model").Return([]float32{1, 0, 0}, nil)
	cache.On("GetEmbedding", mock.Anything, mock.Anything, "test-model").Return(nil, domain.ErrEmbeddingMissing)
	cache.On("PutEmbedding", mock.Anything, mock.Anything, "test-model", mock.Anything).Return(nil)

	_, err := NewSemanticIndex(context.Background(), semanticCorpus(), SemanticConfig{
		Embedder: embedder,
		Cache:    cache,
		Model:    "test-model",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, embedder.calls)
	cache.AssertNumberOfCalls(t, "PutEmbedding", 3)
}

func TestSemanticIndex_EmbedFailure(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{}}

	_, err := NewSemanticIndex(context.Background(), semanticCorpus(), SemanticConfig{Embedder: embedder})

	assert.Error(t, err)
}

func TestSemanticIndex_RequiresEmbedder(t *testing.T) {
	_, err := NewSemanticIndex(context.Background(), semanticCorpus(), SemanticConfig{})

	assert.ErrorIs(t, err, domain.ErrSemanticIndexOff)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
