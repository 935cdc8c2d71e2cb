package knowledge

import "github.com/cloo-solutions/classmate/internal/domain"

// MinCandidates is the pool size below which Broaden widens its selection.
const MinCandidates = 3

// FilterByTopics returns the chunks sharing at least one of topics, in
// corpus order.
func FilterByTopics(chunks []domain.KnowledgeChunk, topics []string) []domain.KnowledgeChunk {
	out := make([]domain.KnowledgeChunk, 0)
	for _, c := range chunks {
		if c.SharesTopic(topics) {
			out = append(out, c)
		}
	}
	return out
}

// Broaden selects a candidate pool for a query: chunks sharing a query
// topic, then general chunks if there are fewer than min, then the whole
// corpus if there are still fewer than min.
func Broaden(chunks []domain.KnowledgeChunk, queryTopics []string, min int) []domain.KnowledgeChunk {
	if min <= 0 {
		min = MinCandidates
	}
	pool := FilterByTopics(chunks, queryTopics)
	if len(pool) >= min {
		return pool
	}

	seen := make(map[int]bool, len(chunks))
	for i, c := range chunks {
		if c.SharesTopic(queryTopics) {
			seen[i] = true
		}
	}
	for i, c := range chunks {
		if !seen[i] && c.HasTopic(domain.TopicGeneral) {
			pool = append(pool, c)
		}
	}
	if len(pool) >= min {
		return pool
	}
	return append([]domain.KnowledgeChunk(nil), chunks...)
}
