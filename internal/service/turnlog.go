package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/cloo-solutions/classmate/internal/domain"
	"go.uber.org/zap"
)

const (
	// ReadabilityTarget is the Flesch score above which a reply is flagged.
	ReadabilityTarget = 70.0
	// MaxReplyLength is the reply length above which a reply is flagged.
	MaxReplyLength = 1500
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3,4}[-.\s]?\d{3}[-.\s]?\d{3,4}\b`)

	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordRun       = regexp.MustCompile(`\w+`)
	vowel         = regexp.MustCompile(`(?i)[aeiouy]`)
)

// FilterPII masks email addresses and phone-like digit runs.
func FilterPII(text string) string {
	if text == "" {
		return text
	}
	text = emailPattern.ReplaceAllString(text, "[email]")
	return phonePattern.ReplaceAllString(text, "[phone]")
}

// Readability is a crude Flesch reading-ease score. Syllables are
// approximated by the number of words containing a vowel.
func Readability(text string) float64 {
	if text == "" {
		return 0
	}
	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if s != "" {
			sentences++
		}
	}
	words := len(strings.Fields(text))
	syllables := 0
	for _, w := range wordRun.FindAllString(text, -1) {
		if vowel.MatchString(w) {
			syllables++
		}
	}
	sentences = max(sentences, 1)
	words = max(words, 1)
	syllables = max(syllables, 1)

	return 206.835 - 1.015*(float64(words)/float64(sentences)) - 84.6*(float64(syllables)/float64(words))
}

// TurnSink persists a finished turn record.
type TurnSink interface {
	WriteTurn(ctx context.Context, record *domain.TurnRecord) error
}

// TurnLogger scores each turn and fans it out to its sinks.
type TurnLogger struct {
	sinks  []TurnSink
	now    Clock
	logger *zap.Logger
}

// NewTurnLogger creates a turn logger writing to every sink.
func NewTurnLogger(logger *zap.Logger, sinks ...TurnSink) *TurnLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurnLogger{sinks: sinks, now: systemClock, logger: logger}
}

// Score fills in the PII-filtered text, length, readability and flags.
// A negative_feedback flag already on the record is kept.
func (l *TurnLogger) Score(record *domain.TurnRecord) {
	negative := slices.Contains(record.Flags, domain.FlagNegativeFeedback)

	record.User = FilterPII(record.User)
	record.RawReply = FilterPII(record.RawReply)
	record.FinalReply = FilterPII(record.FinalReply)
	if record.RetrievedFacts == nil {
		record.RetrievedFacts = []string{}
	}
	record.Length = utf8.RuneCountInString(record.FinalReply)
	record.ReadabilityScore = Readability(record.FinalReply)

	flags := []string{}
	if record.ReadabilityScore > ReadabilityTarget {
		flags = append(flags, domain.FlagReadability)
	}
	if record.Length > MaxReplyLength {
		flags = append(flags, domain.FlagLength)
	}
	if negative {
		flags = append(flags, domain.FlagNegativeFeedback)
	}
	record.Flags = flags
	if record.Timestamp.IsZero() {
		record.Timestamp = l.now()
	}
}

// Record scores a turn and writes it to every sink. Sink failures are
// logged and the first one is returned after all sinks have been tried.
func (l *TurnLogger) Record(ctx context.Context, record domain.TurnRecord) error {
	l.Score(&record)

	var firstErr error
	for _, sink := range l.sinks {
		if err := sink.WriteTurn(ctx, &record); err != nil {
			l.logger.Warn("turn log write failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if record.Flagged() {
		l.logger.Debug("turn flagged for curation",
			zap.String("model", record.Model),
			zap.Strings("flags", record.Flags),
		)
	}
	return firstErr
}

// ReadTurnLog parses a JSON-lines turn log. Malformed lines are skipped.
func ReadTurnLog(r io.Reader) ([]domain.TurnRecord, error) {
	var records []domain.TurnRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec domain.TurnRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read turn log: %w", err)
	}
	return records, nil
}

// FlaggedTurns keeps the records that raised at least one flag.
func FlaggedTurns(records []domain.TurnRecord) []domain.TurnRecord {
	flagged := make([]domain.TurnRecord, 0, len(records))
	for _, r := range records {
		if r.Flagged() {
			flagged = append(flagged, r)
		}
	}
	return flagged
}
