package service

import (
	"strings"
	"testing"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFactPrompt(t *testing.T) {
	prompt := BuildFactPrompt("When does school start?", []string{"[schedule] hours: 7:30am to 1:40pm", "name: Bryneven Primary School"})

	expected := "You are Bryneven Helper, a chatbot for 7-year-olds.\n" +
		"Use the facts below to answer the question in a friendly way.\n" +
		"If there are no helpful facts, try to help anyway.\n" +
		"Facts:\nhours: 7:30am to 1:40pm\nname: Bryneven Primary School\n\nUser: When does school start?"
	assert.Equal(t, expected, prompt)
}

func TestBuildGenerationPrompt(t *testing.T) {
	t.Run("start of conversation", func(t *testing.T) {
		prompt := BuildGenerationPrompt("Hi", nil, []string{"a", "b"})
		assert.Contains(t, prompt, "CONTEXT: This is the start of the conversation.\n")
		assert.Contains(t, prompt, "FACTS: a; b\n")
		assert.True(t, strings.HasSuffix(prompt, "USER: Hi\nASSISTANT:"))
	})

	t.Run("last two turns", func(t *testing.T) {
		history := []domain.Turn{
			{User: "one", Assistant: "1"},
			{User: "two", Assistant: "2"},
			{User: "three", Assistant: "3"},
		}
		prompt := BuildGenerationPrompt("four?", history, nil)
		assert.Contains(t, prompt, "CONTEXT: User: two Assistant: 2 | User: three Assistant: 3\n")
		assert.NotContains(t, prompt, "User: one")
	})
}

func TestEnsureFullSentence(t *testing.T) {
	t.Run("short text is trimmed only", func(t *testing.T) {
		assert.Equal(t, "Hello there.", EnsureFullSentence("  Hello there.  ", 100))
	})

	t.Run("cuts at a nearby full stop", func(t *testing.T) {
		text := strings.Repeat("a", 90) + ". " + strings.Repeat("b", 50)
		assert.Equal(t, strings.Repeat("a", 90)+".", EnsureFullSentence(text, 120))
	})

	t.Run("keeps hard cut when full stop is far away", func(t *testing.T) {
		text := "Hi. " + strings.Repeat("c", 300)
		got := EnsureFullSentence(text, 200)
		assert.Equal(t, 200, len([]rune(got)))
	})

	t.Run("counts runes", func(t *testing.T) {
		text := strings.Repeat("é", 150)
		assert.Equal(t, 100, len([]rune(EnsureFullSentence(text, 100))))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", EnsureFullSentence("   ", 100))
	})
}

func TestClampResponseLength(t *testing.T) {
	assert.Equal(t, DefaultResponseLength, ClampResponseLength(0))
	assert.Equal(t, MinResponseLength, ClampResponseLength(50))
	assert.Equal(t, 800, ClampResponseLength(800))
}

func TestMaxOutputTokens(t *testing.T) {
	assert.Equal(t, 200, MaxOutputTokens(100))
	assert.Equal(t, 400, MaxOutputTokens(400))
	assert.Equal(t, 1000, MaxOutputTokens(5000))
}

func TestSummarizeMessages(t *testing.T) {
	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	}
	assert.Equal(t, "user: hi assistant: hello", SummarizeMessages(msgs))

	long := []domain.Message{{Role: domain.RoleUser, Content: strings.Repeat("x", 400)}}
	summary := SummarizeMessages(long)
	assert.Len(t, summary, 300)
	assert.True(t, strings.HasSuffix(summary, "..."))
}

func TestHistorySummary(t *testing.T) {
	var history []domain.Message
	assert.Equal(t, "", HistorySummary(history))

	history = []domain.Message{
		{Role: domain.RoleUser, Content: "Tell me robots"},
		{Role: domain.RoleAssistant, Content: "Robots are machines. Cubroid robots snap together."},
		{Role: domain.RoleUser, Content: "Explain coding?"},
		{Role: domain.RoleAssistant, Content: "Coding tells robots things."},
	}
	for i := 0; i < 6; i++ {
		history = append(history, domain.Message{Role: domain.RoleUser, Content: "recent message"})
	}

	assert.Equal(t, "We have been talking about robots and coding.", HistorySummary(history))
}

func TestDetectContradiction(t *testing.T) {
	summary := "We have been talking about robots and coding."

	c := DetectContradiction(summary, []string{"Robots are not allowed in class.", "Coding is fun."})
	require.NotNil(t, c)
	assert.Equal(t, "robots", c.Topic)
	assert.Equal(t, "Robots are not allowed in class.", c.Fact)

	assert.Nil(t, DetectContradiction(summary, []string{"Painting is fun."}))
	assert.Nil(t, DetectContradiction("", []string{"Robots are not allowed."}))
	assert.Nil(t, DetectContradiction("nothing here", []string{"Robots are not allowed."}))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "hours: 7:30am", StripTags("[schedule][time] hours: 7:30am"))
}
