package knowledge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cloo-solutions/classmate/internal/domain"
	"go.uber.org/zap"
)

// CorpusBuilder produces a fresh corpus.
type CorpusBuilder interface {
	Build(ctx context.Context) *domain.Corpus
}

// Holder owns the current corpus snapshot and swaps it wholesale on reload.
// Readers always see a complete, immutable corpus.
type Holder struct {
	builder CorpusBuilder
	logger  *zap.Logger
	current atomic.Pointer[domain.Corpus]

	mu       sync.Mutex
	onReload []func(context.Context, *domain.Corpus)
}

// NewHolder creates a holder with an empty corpus. Call Reload to populate it.
func NewHolder(builder CorpusBuilder, logger *zap.Logger) *Holder {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Holder{builder: builder, logger: logger}
	h.current.Store(&domain.Corpus{Chunks: []domain.KnowledgeChunk{}})
	return h
}

// Current returns the active corpus snapshot.
func (h *Holder) Current() *domain.Corpus {
	return h.current.Load()
}

// Chunks returns the active corpus chunks.
func (h *Holder) Chunks() []domain.KnowledgeChunk {
	return h.current.Load().Chunks
}

// OnReload registers a hook run after each successful swap.
func (h *Holder) OnReload(fn func(context.Context, *domain.Corpus)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = append(h.onReload, fn)
}

// Reload rebuilds the corpus and swaps it in. When every source failed and
// a non-empty corpus is already loaded, the current snapshot is kept.
func (h *Holder) Reload(ctx context.Context) *domain.Corpus {
	corpus := h.builder.Build(ctx)
	if current := h.current.Load(); current.Len() > 0 && allSourcesFailed(corpus) {
		h.logger.Warn("knowledge sources failed, keeping current corpus",
			zap.Int("chunks", current.Len()),
		)
		return current
	}
	previous := h.current.Swap(corpus)
	h.logger.Info("knowledge corpus swapped",
		zap.Int("previous_chunks", previous.Len()),
		zap.Int("chunks", corpus.Len()),
	)

	h.mu.Lock()
	hooks := append([]func(context.Context, *domain.Corpus){}, h.onReload...)
	h.mu.Unlock()
	for _, hook := range hooks {
		hook(ctx, corpus)
	}
	return corpus
}

func allSourcesFailed(corpus *domain.Corpus) bool {
	if len(corpus.Sources) == 0 {
		return false
	}
	for _, src := range corpus.Sources {
		if src.Error == "" {
			return false
		}
	}
	return true
}

// ProcessJobs reloads the corpus; it lets a jobs.Worker refresh it on a timer.
func (h *Holder) ProcessJobs(ctx context.Context) error {
	h.Reload(ctx)
	return nil
}
