package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HintUnavailable is returned for questions without hints.
const HintUnavailable = "Hint unavailable for this question."

// Hints serves progressive hints keyed by question id.
type Hints struct {
	byQuestion map[string][]string
}

// NewHints wraps an in-memory hint table.
func NewHints(byQuestion map[string][]string) *Hints {
	if byQuestion == nil {
		byQuestion = map[string][]string{}
	}
	return &Hints{byQuestion: byQuestion}
}

// LoadHints reads a hint table from a JSON or YAML file mapping question
// ids to ordered hint lists.
func LoadHints(path string) (*Hints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hints: %w", err)
	}
	var table map[string][]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse hints: %w", err)
	}
	return NewHints(table), nil
}

// Hint returns the hint at level, clamped to the available range.
func (h *Hints) Hint(questionID string, level int) string {
	hints := h.byQuestion[questionID]
	if len(hints) == 0 {
		return HintUnavailable
	}
	level = max(level, 0)
	level = min(level, len(hints)-1)
	return hints[level]
}
