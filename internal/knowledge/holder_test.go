package knowledge

import (
	"context"
	"sync"
	"testing"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCorpusBuilder struct {
	mock.Mock
}

func (m *MockCorpusBuilder) Build(ctx context.Context) *domain.Corpus {
	args := m.Called(ctx)
	return args.Get(0).(*domain.Corpus)
}

func TestHolder_StartsEmpty(t *testing.T) {
	h := NewHolder(new(MockCorpusBuilder), nil)

	require.NotNil(t, h.Current())
	assert.Empty(t, h.Chunks())
}

func TestHolder_ReloadSwapsAndRunsHooks(t *testing.T) {
	first := &domain.Corpus{Chunks: []domain.KnowledgeChunk{{Text: "one", Topics: []string{"general"}}}}
	second := &domain.Corpus{Chunks: []domain.KnowledgeChunk{{Text: "two", Topics: []string{"general"}}}}
	builder := new(MockCorpusBuilder)
	builder.On("Build", mock.Anything).Return(first).Once()
	builder.On("Build", mock.Anything).Return(second).Once()

	h := NewHolder(builder, nil)
	var seen []string
	h.OnReload(func(_ context.Context, c *domain.Corpus) {
		seen = append(seen, c.Chunks[0].Text)
	})

	h.Reload(context.Background())
	snapshot := h.Current()
	require.NoError(t, h.ProcessJobs(context.Background()))

	assert.Equal(t, "one", snapshot.Chunks[0].Text)
	assert.Equal(t, "two", h.Chunks()[0].Text)
	assert.Equal(t, []string{"one", "two"}, seen)
	builder.AssertExpectations(t)
}

func TestHolder_ReloadKeepsCorpusWhenSourcesFail(t *testing.T) {
	good := &domain.Corpus{
		Chunks:  []domain.KnowledgeChunk{{Text: "school starts at 07:30", Topics: []string{"times"}}},
		Sources: []domain.SourceStats{{Name: "knowledge.json", Facts: 1, Chunks: 1}},
	}
	failed := &domain.Corpus{
		Chunks: []domain.KnowledgeChunk{},
		Sources: []domain.SourceStats{
			{Name: "s3://bucket/knowledge.json", Error: "connection refused"},
			{Name: "https://example.org/knowledge.txt", Error: "status 503"},
		},
	}
	partial := &domain.Corpus{
		Chunks: []domain.KnowledgeChunk{{Text: "netball on tuesdays", Topics: []string{"sport"}}},
		Sources: []domain.SourceStats{
			{Name: "knowledge.json", Error: "timeout"},
			{Name: "knowledge.txt", Facts: 1, Chunks: 1},
		},
	}
	builder := new(MockCorpusBuilder)
	builder.On("Build", mock.Anything).Return(good).Once()
	builder.On("Build", mock.Anything).Return(failed).Once()
	builder.On("Build", mock.Anything).Return(partial).Once()

	h := NewHolder(builder, nil)
	hooks := 0
	h.OnReload(func(context.Context, *domain.Corpus) { hooks++ })
	ctx := context.Background()

	h.Reload(ctx)
	kept := h.Reload(ctx)
	assert.Same(t, good, kept)
	assert.Same(t, good, h.Current())
	assert.Equal(t, 1, hooks)

	h.Reload(ctx)
	assert.Same(t, partial, h.Current())
	assert.Equal(t, 2, hooks)
}

func TestHolder_ReloadFailedSourcesOnEmptyCorpus(t *testing.T) {
	failed := &domain.Corpus{
		Chunks:  []domain.KnowledgeChunk{},
		Sources: []domain.SourceStats{{Name: "knowledge.json", Error: "no such file"}},
	}
	builder := new(MockCorpusBuilder)
	builder.On("Build", mock.Anything).Return(failed).Once()

	h := NewHolder(builder, nil)
	h.Reload(context.Background())

	assert.Same(t, failed, h.Current())
}

func TestHolder_ConcurrentReadersDuringReload(t *testing.T) {
	corpus := &domain.Corpus{Chunks: []domain.KnowledgeChunk{
		{Text: "School fees are paid monthly.", Topics: []string{"fees"}},
	}}
	builder := new(MockCorpusBuilder)
	builder.On("Build", mock.Anything).Return(corpus)
	h := NewHolder(builder, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Reload(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = Rank("fees", h.Chunks(), 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, h.Current().Len())
}
