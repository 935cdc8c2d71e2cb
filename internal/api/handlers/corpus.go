package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
	"go.uber.org/zap"
)

type CorpusManager interface {
	Current() *domain.Corpus
	Reload(ctx context.Context) *domain.Corpus
}

// CorpusHandler reports on and rebuilds the knowledge corpus.
type CorpusHandler struct {
	corpus CorpusManager
	logger *zap.Logger
}

func NewCorpusHandler(corpus CorpusManager, logger *zap.Logger) *CorpusHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorpusHandler{corpus: corpus, logger: logger}
}

type CorpusStatsResponse struct {
	Chunks  int                  `json:"chunks"`
	Topics  map[string]int       `json:"topics"`
	Sources []domain.SourceStats `json:"sources"`
	BuiltAt *time.Time           `json:"built_at,omitempty"`
}

func corpusStats(c *domain.Corpus) CorpusStatsResponse {
	resp := CorpusStatsResponse{
		Chunks:  c.Len(),
		Topics:  c.TopicCounts(),
		Sources: []domain.SourceStats{},
	}
	if c != nil {
		if c.Sources != nil {
			resp.Sources = c.Sources
		}
		if !c.BuiltAt.IsZero() {
			builtAt := c.BuiltAt
			resp.BuiltAt = &builtAt
		}
	}
	return resp
}

func (h *CorpusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, corpusStats(h.corpus.Current()))
}

// Reload rebuilds the corpus from its sources. A failing source only
// shrinks the corpus, so this never returns an error status.
func (h *CorpusHandler) Reload(w http.ResponseWriter, r *http.Request) {
	corpus := h.corpus.Reload(r.Context())
	h.logger.Info("corpus reloaded via api", zap.Int("chunks", corpus.Len()))
	api.Success(w, http.StatusOK, corpusStats(corpus))
}
