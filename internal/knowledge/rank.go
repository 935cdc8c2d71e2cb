package knowledge

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cloo-solutions/classmate/internal/domain"
)

const (
	// TopicWeight is added once when a chunk shares any topic with the query.
	TopicWeight = 10

	// NormalizationCeiling is the divisor used by RankNormalized. It assumes
	// at most five overlapping words, so scores above 1.0 are possible.
	NormalizationCeiling = 15.0
)

var nonWord = regexp.MustCompile(`\W+`)

// tokenize lower-cases s and splits it on runs of non-word characters,
// dropping empty tokens. Duplicates are kept.
func tokenize(s string) []string {
	parts := nonWord.Split(strings.ToLower(s), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Ranker scores chunks against queries. It holds no mutable state and is
// safe for concurrent use.
type Ranker struct {
	tagger *Tagger
}

// NewRanker returns a ranker that infers query topics with the given tagger.
func NewRanker(tagger *Tagger) *Ranker {
	if tagger == nil {
		tagger = defaultTagger
	}
	return &Ranker{tagger: tagger}
}

var defaultRanker = NewRanker(nil)

// Score returns 10*topicMatch + wordOverlap for one chunk. Query tokens are
// counted with repetition; chunk tokens act as a set.
func (r *Ranker) Score(queryTokens, queryTopics []string, chunk domain.KnowledgeChunk) int {
	score := 0
	if chunk.SharesTopic(queryTopics) {
		score += TopicWeight
	}
	words := make(map[string]struct{})
	for _, w := range tokenize(chunk.Text) {
		words[w] = struct{}{}
	}
	for _, q := range queryTokens {
		if _, ok := words[q]; ok {
			score++
		}
	}
	return score
}

// Rank returns at most k chunks with a positive score, highest first.
// Ties keep corpus order.
func (r *Ranker) Rank(query string, chunks []domain.KnowledgeChunk, k int) []domain.ScoredFact {
	if k <= 0 || len(chunks) == 0 {
		return []domain.ScoredFact{}
	}
	queryTokens := tokenize(query)
	queryTopics := r.tagger.Tag(query)

	scored := make([]domain.ScoredFact, 0, len(chunks))
	for _, chunk := range chunks {
		score := r.Score(queryTokens, queryTopics, chunk)
		if score == 0 {
			continue
		}
		scored = append(scored, domain.ScoredFact{
			Text:   chunk.Text,
			Topics: append([]string(nil), chunk.Topics...),
			Score:  float64(score),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// RankNormalized is Rank with each score divided by NormalizationCeiling.
// The result is not clamped: a query sharing more than five words with a
// topic-matching chunk scores above 1.0.
func (r *Ranker) RankNormalized(query string, chunks []domain.KnowledgeChunk, k int) []domain.ScoredFact {
	facts := r.Rank(query, chunks, k)
	for i := range facts {
		facts[i].Score /= NormalizationCeiling
	}
	return facts
}

// RankTexts is Rank projected to chunk texts.
func (r *Ranker) RankTexts(query string, chunks []domain.KnowledgeChunk, k int) []string {
	facts := r.Rank(query, chunks, k)
	texts := make([]string, 0, len(facts))
	for _, f := range facts {
		texts = append(texts, f.Text)
	}
	return texts
}

// QueryTopics returns the topics inferred for a query.
func (r *Ranker) QueryTopics(query string) []string {
	return r.tagger.Tag(query)
}

// Rank ranks chunks with the default topic table.
func Rank(query string, chunks []domain.KnowledgeChunk, k int) []domain.ScoredFact {
	return defaultRanker.Rank(query, chunks, k)
}

// RankNormalized ranks chunks with the default topic table and divides
// scores by NormalizationCeiling.
func RankNormalized(query string, chunks []domain.KnowledgeChunk, k int) []domain.ScoredFact {
	return defaultRanker.RankNormalized(query, chunks, k)
}

// RankTexts ranks chunks with the default topic table and returns texts.
func RankTexts(query string, chunks []domain.KnowledgeChunk, k int) []string {
	return defaultRanker.RankTexts(query, chunks, k)
}
