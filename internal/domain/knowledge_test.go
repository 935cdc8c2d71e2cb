package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTopicTable_Order(t *testing.T) {
	table := DefaultTopicTable()

	assert.Equal(t, []string{
		"leadership", "sports", "fees", "contact", "academics", "robotics", "hours", "general",
	}, table.Names())
	require.NoError(t, table.Validate())
}

func TestTopicTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   TopicTable
		wantErr bool
	}{
		{"Empty", TopicTable{}, true},
		{"Unnamed", TopicTable{{Keywords: []string{"x"}}}, true},
		{"Valid", TopicTable{{Name: "fees", Keywords: []string{"fee"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTopicTable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKnowledgeChunk_SharesTopic(t *testing.T) {
	chunk := KnowledgeChunk{Text: "Soccer fees", Topics: []string{"sports", "fees"}}

	assert.True(t, chunk.HasTopic("fees"))
	assert.False(t, chunk.HasTopic("hours"))
	assert.True(t, chunk.SharesTopic([]string{"hours", "sports"}))
	assert.False(t, chunk.SharesTopic([]string{"general"}))
	assert.False(t, chunk.SharesTopic(nil))
}

func TestCorpus_NilSafe(t *testing.T) {
	var c *Corpus

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.TopicCounts())
}

func TestCorpus_TopicCounts(t *testing.T) {
	c := &Corpus{Chunks: []KnowledgeChunk{
		{Text: "a", Topics: []string{"fees"}},
		{Text: "b", Topics: []string{"fees", "sports"}},
		{Text: "c", Topics: []string{"general"}},
	}}

	assert.Equal(t, map[string]int{"fees": 2, "sports": 1, "general": 1}, c.TopicCounts())
}

func TestDomainError_IsMatchesWrappedSentinel(t *testing.T) {
	err := NewDomainErrorWithCause(ErrCodeNotFound, "session not found", assert.AnError)

	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrSubjectNotFound)
	assert.Contains(t, err.Error(), "[NOT_FOUND] session not found")
}
