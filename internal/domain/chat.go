package domain

import "time"

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a learner's chat history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turn pairs a learner message with the assistant's answer.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ReplyKind tells the caller which branch of the chat flow produced a reply.
type ReplyKind string

const (
	ReplyNone       ReplyKind = "none"
	ReplyHomework   ReplyKind = "homework"
	ReplyPaste      ReplyKind = "paste"
	ReplyDiscussion ReplyKind = "discussion"
	ReplyTimesTable ReplyKind = "times_table"
	ReplyAnswer     ReplyKind = "answer"
	ReplyFallback   ReplyKind = "fallback"
	ReplyError      ReplyKind = "error"
)

// Reply is what a chat session returns for one learner message.
type Reply struct {
	Text  string       `json:"text"`
	Kind  ReplyKind    `json:"kind"`
	Facts []ScoredFact `json:"facts,omitempty"`
}

// Learner identifies the person chatting and the class they belong to.
type Learner struct {
	Name     string `json:"name"`
	SchoolID string `json:"school_id,omitempty"`
	Grade    string `json:"grade,omitempty"`
}

// ConversationSummary is a periodic digest of a learner's recent messages.
type ConversationSummary struct {
	ID        string    `json:"id,omitempty"`
	User      string    `json:"user"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Section names used to route model requests.
const (
	SectionKnowledge      = "Knowledge"
	SectionInvestigations = "Investigations"
)
