package domain

import "time"

// Turn log flags raised for weekly curation.
const (
	FlagReadability      = "readability"
	FlagLength           = "length"
	FlagNegativeFeedback = "negative_feedback"
)

// TurnRecord is one logged assistant turn with its quality signals.
type TurnRecord struct {
	ID               string    `json:"id,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	User             string    `json:"user"`
	RetrievedFacts   []string  `json:"retrieved_facts"`
	RawReply         string    `json:"raw_reply"`
	FinalReply       string    `json:"final_reply"`
	Length           int       `json:"length"`
	ReadabilityScore float64   `json:"readability_score"`
	Flags            []string  `json:"flags"`
	Model            string    `json:"model,omitempty"`
	ElapsedMS        int64     `json:"elapsed,omitempty"`
}

// Flagged reports whether the turn raised any curation flag.
func (r *TurnRecord) Flagged() bool {
	return len(r.Flags) > 0
}
