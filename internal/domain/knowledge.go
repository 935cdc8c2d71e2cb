package domain

import "time"

// TopicGeneral is the fallback topic given to text that matches no keyword.
const TopicGeneral = "general"

// MaxChunkChars is the length limit, in characters, for a corpus chunk.
const MaxChunkChars = 200

// KnowledgeChunk is one retrievable unit of school knowledge.
// Topics is never empty once the chunk has been tagged.
type KnowledgeChunk struct {
	Text   string   `json:"text"`
	Topics []string `json:"topics"`
}

// HasTopic reports whether the chunk carries the given topic.
func (c KnowledgeChunk) HasTopic(topic string) bool {
	for _, t := range c.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// SharesTopic reports whether the chunk carries any of the given topics.
func (c KnowledgeChunk) SharesTopic(topics []string) bool {
	for _, t := range topics {
		if c.HasTopic(t) {
			return true
		}
	}
	return false
}

// ScoredFact is a chunk ranked against a particular query.
type ScoredFact struct {
	Text   string   `json:"text"`
	Topics []string `json:"topics"`
	Score  float64  `json:"score"`
}

// Topic is one row of a TopicTable.
type Topic struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// TopicTable is an ordered mapping of topic name to trigger keywords.
// Order is significant: tags are emitted in table order.
type TopicTable []Topic

// Names returns topic names in table order.
func (t TopicTable) Names() []string {
	names := make([]string, 0, len(t))
	for _, topic := range t {
		names = append(names, topic.Name)
	}
	return names
}

// Validate checks the table has at least one topic and every topic is named.
func (t TopicTable) Validate() error {
	if len(t) == 0 {
		return ErrInvalidTopicTable
	}
	for _, topic := range t {
		if topic.Name == "" {
			return NewDomainErrorWithCause(ErrCodeValidation, "topic name is required", ErrInvalidTopicTable)
		}
	}
	return nil
}

// DefaultTopicTable returns the school's built-in topic table.
func DefaultTopicTable() TopicTable {
	return TopicTable{
		{Name: "leadership", Keywords: []string{"principal", "head", "leadership", "nakooda", "staff"}},
		{Name: "sports", Keywords: []string{"sport", "soccer", "netball", "cricket", "athletics", "team", "coach", "ball"}},
		{Name: "fees", Keywords: []string{"fee", "fees", "payment", "cost", "tuition"}},
		{Name: "contact", Keywords: []string{"address", "email", "phone", "contact", "location"}},
		{Name: "academics", Keywords: []string{"grade", "subject", "curriculum", "class", "lesson", "teacher", "homework"}},
		{Name: "robotics", Keywords: []string{"robotics", "cubroid", "coding", "programming", "purple mash", "kit", "block coding"}},
		{Name: "hours", Keywords: []string{"hours", "time", "schedule", "start", "end", "timetable"}},
		{Name: TopicGeneral, Keywords: []string{}},
	}
}

// SourceStats records what one knowledge source contributed to a corpus build.
type SourceStats struct {
	Name   string `json:"name"`
	Facts  int    `json:"facts"`
	Chunks int    `json:"chunks"`
	Error  string `json:"error,omitempty"`
}

// Corpus is an immutable snapshot of the chunked knowledge base.
type Corpus struct {
	Chunks  []KnowledgeChunk `json:"chunks"`
	Sources []SourceStats    `json:"sources"`
	BuiltAt time.Time        `json:"built_at"`
}

// Len returns the number of chunks, treating a nil corpus as empty.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Chunks)
}

// TopicCounts returns how many chunks carry each topic.
func (c *Corpus) TopicCounts() map[string]int {
	counts := map[string]int{}
	if c == nil {
		return counts
	}
	for _, chunk := range c.Chunks {
		for _, t := range chunk.Topics {
			counts[t]++
		}
	}
	return counts
}
