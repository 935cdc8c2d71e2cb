package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagTopics(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"Leadership", "The principal is Mr Nakooda", []string{"leadership"}},
		{"MultipleInTableOrder", "Soccer practice starts at 2pm", []string{"sports", "hours"}},
		{"Fallback", "I like apples", []string{"general"}},
		{"MultiWordKeywordCaseInsensitive", "PURPLE MASH lessons", []string{"academics", "robotics"}},
		{"Substring", "Tuition payments", []string{"fees"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagTopics(tt.text))
		})
	}
}

func TestTagger_CustomTable(t *testing.T) {
	tagger := NewTagger(domain.TopicTable{
		{Name: "art", Keywords: []string{"Paint", " crayon "}},
		{Name: "music", Keywords: []string{"song"}},
	})

	assert.Equal(t, []string{"art", "music"}, tagger.Tag("We paint while singing a song"))
	assert.Equal(t, []string{"general"}, tagger.Tag("nothing here"))
}

func TestLoadTopicTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`topics:
  - name: fees
    keywords: [fee, tuition]
  - name: general
    keywords: []
`), 0o600))

	table, err := LoadTopicTable(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"fees", "general"}, table.Names())
	assert.Equal(t, []string{"fee", "tuition"}, table[0].Keywords)
}

func TestLoadTopicTable_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTopicTable(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("topics: []\n"), 0o600))
	_, err = LoadTopicTable(empty)
	assert.ErrorIs(t, err, domain.ErrInvalidTopicTable)
}
