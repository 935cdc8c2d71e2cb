package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"go.uber.org/zap"
)

// NoHomeworkReply is shown when the learner has nothing due this week.
const NoHomeworkReply = "You don't have any homework listed for this week!"

var homeworkQuery = regexp.MustCompile(`(?i)\b(homework|what.*homework|my homework|do I have homework|show.*homework|list.*homework)\b`)

// IsHomeworkQuery reports whether a message asks about homework.
func IsHomeworkQuery(message string) bool {
	return homeworkQuery.MatchString(message)
}

// HomeworkStore persists homework entries.
type HomeworkStore interface {
	Add(ctx context.Context, entry *domain.HomeworkEntry) error
	// ListForWeek returns every entry of the week containing day.
	ListForWeek(ctx context.Context, day time.Time) ([]*domain.HomeworkEntry, error)
}

// HomeworkService posts homework and lists it for learners.
type HomeworkService struct {
	store   HomeworkStore
	uuidGen UUIDGenerator
	now     Clock
	logger  *zap.Logger
}

// NewHomeworkService creates a new HomeworkService instance
func NewHomeworkService(store HomeworkStore, logger *zap.Logger) *HomeworkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeworkService{store: store, uuidGen: &DefaultUUIDGenerator{}, now: systemClock, logger: logger}
}

// Add validates and stores an entry. A missing week defaults to the current week.
func (s *HomeworkService) Add(ctx context.Context, entry *domain.HomeworkEntry) (*domain.HomeworkEntry, error) {
	entry.Subject = strings.TrimSpace(entry.Subject)
	entry.Description = strings.TrimSpace(entry.Description)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	if entry.ID == "" {
		entry.ID = s.uuidGen.NewString()
	}
	if entry.WeekStart.IsZero() {
		entry.WeekStart = now
	}
	entry.WeekStart = domain.WeekOf(entry.WeekStart)
	entry.CreatedAt = now

	if err := s.store.Add(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store homework: %w", err)
	}
	s.logger.Info("homework posted",
		zap.String("id", entry.ID),
		zap.String("school_id", entry.SchoolID),
		zap.String("grade", entry.Grade),
		zap.Time("week_start", entry.WeekStart),
	)
	return entry, nil
}

// ListForLearner returns this week's homework matching the learner's school and grade.
func (s *HomeworkService) ListForLearner(ctx context.Context, learner domain.Learner) ([]*domain.HomeworkEntry, error) {
	all, err := s.store.ListForWeek(ctx, s.now())
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.HomeworkEntry, 0, len(all))
	for _, hw := range all {
		if hw.MatchesLearner(learner) {
			matched = append(matched, hw)
		}
	}
	return matched, nil
}

// SummarizeHomework renders entries as "• Subject: description" lines.
func SummarizeHomework(entries []*domain.HomeworkEntry) string {
	if len(entries) == 0 {
		return NoHomeworkReply
	}
	lines := make([]string, len(entries))
	for i, hw := range entries {
		lines[i] = "• " + hw.Subject + ": " + hw.Description
	}
	return strings.Join(lines, "\n")
}
