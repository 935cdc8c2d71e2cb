package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxHomeworkDescription is the longest description a teacher may post.
const MaxHomeworkDescription = 200

// HomeworkEntry is one piece of homework set for a grade in a given week.
type HomeworkEntry struct {
	ID          string    `json:"id"`
	SchoolID    string    `json:"schoolId"`
	Grade       string    `json:"grade"`
	WeekStart   time.Time `json:"weekStart"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks required fields and the description length limit.
func (h *HomeworkEntry) Validate() error {
	if strings.TrimSpace(h.Subject) == "" || strings.TrimSpace(h.Description) == "" || h.Grade == "" {
		return ErrMissingRequiredField
	}
	if utf8.RuneCountInString(h.Description) > MaxHomeworkDescription {
		return ErrDescriptionTooLong
	}
	return nil
}

// MatchesLearner reports whether the entry applies to the learner's school and grade.
// An entry without a school applies to every school.
func (h *HomeworkEntry) MatchesLearner(l Learner) bool {
	if l.SchoolID != "" && h.SchoolID != "" && !strings.EqualFold(h.SchoolID, l.SchoolID) {
		return false
	}
	if l.Grade != "" && h.Grade != l.Grade {
		return false
	}
	return true
}

// WeekOf returns the Monday starting the week that contains t, in UTC.
func WeekOf(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
