package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cloo-solutions/classmate/internal/domain"
)

const (
	// DefaultResponseLength is the reply length cap when a session sets none.
	DefaultResponseLength = 400
	// MinResponseLength is the smallest accepted reply length cap.
	MinResponseLength = 100
	// SummaryInterval is how many buffered messages trigger a conversation summary.
	SummaryInterval = 5

	recentHistoryMessages = 6
	sentenceWindow        = 120
	maxSummaryChars       = 300
)

var (
	tagMarker      = regexp.MustCompile(`\[[^\]]+\]`)
	longWord       = regexp.MustCompile(`\b\w{4,}\b`)
	summaryTopics  = regexp.MustCompile(`about (.+)\.`)
	negationMarker = []string{"not", "no", "instead"}
)

// StripTags removes "[topic]" style markers from a fact.
func StripTags(fact string) string {
	return strings.TrimSpace(tagMarker.ReplaceAllString(fact, ""))
}

// BuildFactPrompt builds the default answer prompt from retrieved facts.
func BuildFactPrompt(message string, facts []string) string {
	cleaned := make([]string, len(facts))
	for i, f := range facts {
		cleaned[i] = StripTags(f)
	}
	return "You are Bryneven Helper, a chatbot for 7-year-olds.\n" +
		"Use the facts below to answer the question in a friendly way.\n" +
		"If there are no helpful facts, try to help anyway.\n" +
		"Facts:\n" + strings.Join(cleaned, "\n") + "\n\nUser: " + message
}

// BuildGenerationPrompt builds the conversational prompt with the last two
// turns as context.
func BuildGenerationPrompt(message string, history []domain.Turn, facts []string) string {
	context := "This is the start of the conversation."
	if len(history) > 0 {
		recent := history
		if len(recent) > 2 {
			recent = recent[len(recent)-2:]
		}
		parts := make([]string, len(recent))
		for i, t := range recent {
			parts[i] = "User: " + t.User + " Assistant: " + t.Assistant
		}
		context = strings.Join(parts, " | ")
	}

	return "SYSTEM: You are Bryneven Helper, talking to a 7-year-old. Use simple words, no markup, ≤1500 chars.\n" +
		"CONTEXT: " + context + "\n" +
		"FACTS: " + strings.Join(facts, "; ") + "\n" +
		"USER: " + message + "\n" +
		"ASSISTANT:"
}

// BuildPastePrompt asks the model for two comprehension questions about a
// pasted passage.
func BuildPastePrompt(passage string) string {
	return "You're Bryneven Helper, a chatbot for learners aged 7–13.\n\nHere is something the learner pasted:\n\"" +
		passage + "\"\n\nYour job is to ask 2 friendly, simple questions to check understanding.\n" +
		"Avoid tricky words. Ask like a kind tutor. Use full sentences."
}

// BuildDiscussionPrompt continues a discussion about a pasted passage.
func BuildDiscussionPrompt(passage, message string) string {
	return "Here's the passage again:\n\"" + passage + "\"\n\nThe learner said:\n\"" + message +
		"\"\n\nRespond in a way that keeps the discussion going. Ask another simple question or give helpful feedback."
}

// ClampResponseLength applies the default and minimum reply length.
func ClampResponseLength(n int) int {
	if n <= 0 {
		return DefaultResponseLength
	}
	if n < MinResponseLength {
		return MinResponseLength
	}
	return n
}

// MaxOutputTokens converts a reply length cap into a model token budget.
func MaxOutputTokens(responseLength int) int {
	return max(200, min(responseLength, 1000))
}

// EnsureFullSentence trims text to maxChars runes and, when a full stop lies
// close to the cut, ends the text there.
func EnsureFullSentence(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	runes := []rune(text)
	truncated := runes[:maxChars]
	lastPeriod := -1
	for i := len(truncated) - 1; i >= 0; i-- {
		if truncated[i] == '.' {
			lastPeriod = i
			break
		}
	}
	if lastPeriod > 0 && lastPeriod > maxChars-sentenceWindow {
		truncated = truncated[:lastPeriod+1]
	}
	return strings.TrimSpace(string(truncated))
}

// SummarizeMessages joins messages as "role: content" and caps the result
// at 300 characters.
func SummarizeMessages(messages []domain.Message) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = string(m.Role) + ": " + m.Content
	}
	text := strings.Join(parts, " ")
	if utf8.RuneCountInString(text) > maxSummaryChars {
		return string([]rune(text)[:maxSummaryChars-3]) + "..."
	}
	return text
}

// HistorySummary names the two most frequent long words of the messages
// older than the six most recent ones. Ties keep first-appearance order.
func HistorySummary(history []domain.Message) string {
	if len(history) <= recentHistoryMessages {
		return ""
	}
	older := history[:len(history)-recentHistoryMessages]

	contents := make([]string, len(older))
	for i, m := range older {
		contents[i] = m.Content
	}
	words := longWord.FindAllString(strings.ToLower(strings.Join(contents, " ")), -1)
	if len(words) == 0 {
		return ""
	}

	freq := make(map[string]int)
	var order []string
	for _, w := range words {
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > 2 {
		order = order[:2]
	}
	return fmt.Sprintf("We have been talking about %s.", strings.Join(order, " and "))
}

// Contradiction is a fact that appears to negate a topic from the summary.
type Contradiction struct {
	Topic string
	Fact  string
}

// DetectContradiction reports the first fact that mentions a summary topic
// together with a negation marker.
func DetectContradiction(summary string, facts []string) *Contradiction {
	if summary == "" {
		return nil
	}
	m := summaryTopics.FindStringSubmatch(summary)
	if m == nil {
		return nil
	}
	for _, topic := range strings.Split(m[1], " and ") {
		for _, fact := range facts {
			lower := strings.ToLower(fact)
			if !strings.Contains(lower, topic) {
				continue
			}
			for _, marker := range negationMarker {
				if strings.Contains(lower, marker) {
					return &Contradiction{Topic: topic, Fact: fact}
				}
			}
		}
	}
	return nil
}
