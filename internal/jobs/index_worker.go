package jobs

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/knowledge"
	"github.com/cloo-solutions/classmate/internal/telemetry"
	"go.uber.org/zap"
)

const (
	// MaxRetries is how many times a corpus is embedded before it is skipped.
	MaxRetries = 3
)

// CorpusSource exposes the active corpus snapshot.
type CorpusSource interface {
	Current() *domain.Corpus
}

// IndexBuilder embeds a corpus into a semantic index.
type IndexBuilder func(ctx context.Context, corpus *domain.Corpus) (*knowledge.SemanticIndex, error)

// IndexWorker rebuilds the semantic index whenever the corpus snapshot changes.
type IndexWorker struct {
	source  CorpusSource
	build   IndexBuilder
	logger  *zap.Logger
	current atomic.Pointer[knowledge.SemanticIndex]

	indexed *domain.Corpus
	retries int
}

// NewIndexWorker creates a new IndexWorker instance
func NewIndexWorker(source CorpusSource, build IndexBuilder, logger *zap.Logger) *IndexWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexWorker{source: source, build: build, logger: logger}
}

// Index returns the latest semantic index, or nil before the first build.
func (w *IndexWorker) Index() *knowledge.SemanticIndex {
	return w.current.Load()
}

// ProcessJobs implements the JobProcessor interface. It is not safe to call
// concurrently with itself.
func (w *IndexWorker) ProcessJobs(ctx context.Context) error {
	corpus := w.source.Current()
	if corpus == nil || corpus == w.indexed {
		return nil
	}

	idx, err := w.build(ctx, corpus)
	if err != nil {
		w.retries++
		if w.retries >= MaxRetries {
			w.logger.Error("semantic index build failed, skipping corpus",
				zap.Int("retries", w.retries),
				zap.Int("chunks", corpus.Len()),
				zap.Error(err),
			)
			telemetry.CaptureMessage(ctx, fmt.Sprintf("semantic index skipped a %d-chunk corpus after %d failures", corpus.Len(), w.retries))
			w.indexed = corpus
			w.retries = 0
			return nil
		}
		w.logger.Warn("semantic index build failed, will retry",
			zap.Int("retries", w.retries),
			zap.Error(err),
		)
		return nil
	}

	w.current.Store(idx)
	w.indexed = corpus
	w.retries = 0
	w.logger.Info("semantic index swapped", zap.Int("chunks", idx.Len()))
	return nil
}
