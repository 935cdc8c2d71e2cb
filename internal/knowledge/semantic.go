package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Embedder turns text into a vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache stores vectors keyed by text hash and model so rebuilding a
// corpus does not re-embed unchanged chunks.
type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, textHash, model string) ([]float32, error)
	PutEmbedding(ctx context.Context, textHash, model string, embedding []float32) error
}

// SemanticConfig configures a SemanticIndex.
type SemanticConfig struct {
	Embedder Embedder
	Cache    EmbeddingCache
	Model    string
	Tagger   *Tagger
	// Concurrency bounds parallel embedding calls. Defaults to 4.
	Concurrency int
	Logger      *zap.Logger
}

// SemanticIndex ranks chunks by cosine similarity of their embeddings.
type SemanticIndex struct {
	cfg     SemanticConfig
	chunks  []domain.KnowledgeChunk
	vectors [][]float32
}

// HashText returns the cache key for a chunk text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NewSemanticIndex embeds every chunk of the corpus.
func NewSemanticIndex(ctx context.Context, corpus *domain.Corpus, cfg SemanticConfig) (*SemanticIndex, error) {
	if cfg.Embedder == nil {
		return nil, domain.ErrSemanticIndexOff
	}
	if cfg.Tagger == nil {
		cfg.Tagger = defaultTagger
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ctx, span := telemetry.StartSpan(ctx, "semantic.index", telemetry.SpanAttributes{Operation: "embed_corpus"})
	defer span.End()

	idx := &SemanticIndex{cfg: cfg}
	if corpus == nil {
		return idx, nil
	}
	idx.chunks = corpus.Chunks
	idx.vectors = make([][]float32, len(corpus.Chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, chunk := range corpus.Chunks {
		g.Go(func() error {
			vec, err := idx.embed(gctx, chunk.Text)
			if err != nil {
				return fmt.Errorf("failed to embed chunk %d: %w", i, err)
			}
			idx.vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, err
	}

	cfg.Logger.Info("semantic index built", zap.Int("chunks", len(idx.chunks)))
	return idx, nil
}

func (s *SemanticIndex) embed(ctx context.Context, text string) ([]float32, error) {
	if s.cfg.Cache == nil {
		return s.cfg.Embedder.GenerateEmbedding(ctx, text)
	}
	hash := HashText(text)
	vec, err := s.cfg.Cache.GetEmbedding(ctx, hash, s.cfg.Model)
	if err == nil && len(vec) > 0 {
		return vec, nil
	}
	if err != nil && !errors.Is(err, domain.ErrEmbeddingMissing) {
		s.cfg.Logger.Warn("embedding cache lookup failed", zap.Error(err))
	}

	vec, err = s.cfg.Embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.Cache.PutEmbedding(ctx, hash, s.cfg.Model, vec); err != nil {
		s.cfg.Logger.Warn("embedding cache write failed", zap.Error(err))
	}
	return vec, nil
}

// Len returns the number of indexed chunks.
func (s *SemanticIndex) Len() int {
	return len(s.chunks)
}

// Search returns the k chunks most similar to the query.
func (s *SemanticIndex) Search(ctx context.Context, query string, k int) ([]domain.ScoredFact, error) {
	return s.search(ctx, query, k, nil)
}

// TopicAwareSearch narrows the candidates with Broaden before ranking them
// by similarity.
func (s *SemanticIndex) TopicAwareSearch(ctx context.Context, query string, k int) ([]domain.ScoredFact, error) {
	topics := s.cfg.Tagger.Tag(query)
	return s.search(ctx, query, k, topics)
}

func (s *SemanticIndex) search(ctx context.Context, query string, k int, topics []string) ([]domain.ScoredFact, error) {
	if k <= 0 || len(s.chunks) == 0 {
		return []domain.ScoredFact{}, nil
	}
	qvec, err := s.cfg.Embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	allowed := make(map[int]bool, len(s.chunks))
	if topics == nil {
		for i := range s.chunks {
			allowed[i] = true
		}
	} else {
		pool := Broaden(s.chunks, topics, MinCandidates)
		inPool := make(map[string]bool, len(pool))
		for _, c := range pool {
			inPool[c.Text] = true
		}
		for i, c := range s.chunks {
			allowed[i] = inPool[c.Text]
		}
	}

	results := make([]domain.ScoredFact, 0, len(allowed))
	for i, chunk := range s.chunks {
		if !allowed[i] {
			continue
		}
		results = append(results, domain.ScoredFact{
			Text:   chunk.Text,
			Topics: append([]string(nil), chunk.Topics...),
			Score:  CosineSimilarity(qvec, s.vectors[i]),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when the vectors differ in length or either is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
