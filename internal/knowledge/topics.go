package knowledge

import (
	"fmt"
	"os"
	"strings"

	"github.com/cloo-solutions/classmate/internal/domain"
	"gopkg.in/yaml.v3"
)

// Tagger assigns topics to text by keyword containment.
type Tagger struct {
	table domain.TopicTable
}

// NewTagger returns a tagger over the given table. A nil or empty table
// falls back to the default school table.
func NewTagger(table domain.TopicTable) *Tagger {
	if len(table) == 0 {
		table = domain.DefaultTopicTable()
	}
	lowered := make(domain.TopicTable, 0, len(table))
	for _, topic := range table {
		kws := make([]string, 0, len(topic.Keywords))
		for _, kw := range topic.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		lowered = append(lowered, domain.Topic{Name: topic.Name, Keywords: kws})
	}
	return &Tagger{table: lowered}
}

var defaultTagger = NewTagger(nil)

// Table returns the tagger's topic table.
func (t *Tagger) Table() domain.TopicTable {
	return t.table
}

// Tag returns, in table order, every topic whose keywords occur as a
// substring of the lower-cased text, or [general] when none do.
func (t *Tagger) Tag(text string) []string {
	lower := strings.ToLower(text)
	var topics []string
	for _, topic := range t.table {
		for _, kw := range topic.Keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, topic.Name)
				break
			}
		}
	}
	if len(topics) == 0 {
		topics = []string{domain.TopicGeneral}
	}
	return topics
}

// TagTopics tags text with the default school topic table.
func TagTopics(text string) []string {
	return defaultTagger.Tag(text)
}

type topicFile struct {
	Topics domain.TopicTable `yaml:"topics"`
}

// LoadTopicTable reads an ordered topic table from a YAML file of the form
//
//	topics:
//	  - name: fees
//	    keywords: [fee, tuition]
func LoadTopicTable(path string) (domain.TopicTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topic table: %w", err)
	}
	var file topicFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse topic table: %w", err)
	}
	if err := file.Topics.Validate(); err != nil {
		return nil, err
	}
	return file.Topics, nil
}
