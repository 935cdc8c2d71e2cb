package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/knowledge"
)

const (
	defaultFactCount = 3
	maxFactCount     = 50
)

type ChunkSource interface {
	Chunks() []domain.KnowledgeChunk
}

// SemanticIndexProvider returns the current semantic index, or nil while
// none has been built.
type SemanticIndexProvider interface {
	Index() *knowledge.SemanticIndex
}

// FactsHandler ranks corpus facts against a query.
type FactsHandler struct {
	corpus   ChunkSource
	ranker   *knowledge.Ranker
	semantic SemanticIndexProvider
}

// NewFactsHandler creates a FactsHandler. semantic may be nil.
func NewFactsHandler(corpus ChunkSource, ranker *knowledge.Ranker, semantic SemanticIndexProvider) *FactsHandler {
	if ranker == nil {
		ranker = knowledge.NewRanker(nil)
	}
	return &FactsHandler{corpus: corpus, ranker: ranker, semantic: semantic}
}

type FactsRequest struct {
	Query      string `json:"query"`
	K          int    `json:"k"`
	Normalized bool   `json:"normalized"`
	Semantic   bool   `json:"semantic"`
}

type FactsResponse struct {
	Query  string              `json:"query"`
	Topics []string            `json:"topics"`
	Facts  []domain.ScoredFact `json:"facts"`
}

func (h *FactsHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req FactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	k := req.K
	if k <= 0 {
		k = defaultFactCount
	}
	k = min(k, maxFactCount)

	var facts []domain.ScoredFact
	switch {
	case req.Semantic:
		var index *knowledge.SemanticIndex
		if h.semantic != nil {
			index = h.semantic.Index()
		}
		if index == nil {
			api.HandleError(w, r, domain.ErrSemanticIndexOff)
			return
		}
		var err error
		facts, err = index.TopicAwareSearch(r.Context(), req.Query, k)
		if err != nil {
			api.HandleError(w, r, err)
			return
		}
	case req.Normalized:
		facts = h.ranker.RankNormalized(req.Query, h.corpus.Chunks(), k)
	default:
		facts = h.ranker.Rank(req.Query, h.corpus.Chunks(), k)
	}
	if facts == nil {
		facts = []domain.ScoredFact{}
	}

	api.Success(w, http.StatusOK, FactsResponse{
		Query:  req.Query,
		Topics: h.ranker.QueryTopics(req.Query),
		Facts:  facts,
	})
}
