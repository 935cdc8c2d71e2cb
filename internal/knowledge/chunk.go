package knowledge

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cloo-solutions/classmate/internal/domain"
)

// A sentence is a run of non-terminator characters and an optional terminator.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]?`)

// ChunkFact splits a fact into pieces of at most maxLen characters, breaking
// only on sentence boundaries. A single sentence longer than maxLen is kept
// whole. A non-positive maxLen uses domain.MaxChunkChars.
func ChunkFact(fact string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = domain.MaxChunkChars
	}
	if utf8.RuneCountInString(fact) <= maxLen {
		if trimmed := strings.TrimSpace(fact); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	sentences := sentencePattern.FindAllString(fact, -1)
	if len(sentences) == 0 {
		sentences = []string{fact}
	}

	chunks := make([]string, 0, 4)
	current := ""
	for _, sentence := range sentences {
		if utf8.RuneCountInString(strings.TrimSpace(current+sentence)) > maxLen {
			if trimmed := strings.TrimSpace(current); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
			current = sentence
			continue
		}
		current += sentence
	}
	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}
