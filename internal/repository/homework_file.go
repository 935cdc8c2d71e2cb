package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/tidwall/gjson"
)

const isoDate = "2006-01-02"

// HomeworkFileStore keeps homework in a JSON document of weeks:
//
//	{"weeks": [{"start": "2025-05-05", "end": "2025-05-11", "entries": [...]}]}
//
// Grades may be written as numbers or strings.
type HomeworkFileStore struct {
	mu   sync.Mutex
	path string
}

type homeworkWeek struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Entries []homeworkEntry `json:"entries"`
}

type homeworkEntry struct {
	ID          string `json:"id,omitempty"`
	SchoolID    string `json:"schoolId,omitempty"`
	Grade       string `json:"grade"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	CreatedBy   string `json:"createdBy,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func NewHomeworkFileStore(path string) *HomeworkFileStore {
	return &HomeworkFileStore{path: path}
}

// ListForWeek returns the entries of the week whose start..end range contains day.
func (s *HomeworkFileStore) ListForWeek(ctx context.Context, day time.Time) ([]*domain.HomeworkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weeks, err := s.read()
	if err != nil {
		return nil, err
	}
	today := day.UTC().Format(isoDate)
	for _, w := range weeks {
		if today < w.Start || today > w.End {
			continue
		}
		start, err := time.Parse(isoDate, w.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid week start %q: %w", w.Start, err)
		}
		entries := make([]*domain.HomeworkEntry, 0, len(w.Entries))
		for _, e := range w.Entries {
			entries = append(entries, e.toDomain(start))
		}
		return entries, nil
	}
	return []*domain.HomeworkEntry{}, nil
}

// Add appends an entry to its week, creating the week when needed, and
// rewrites the file.
func (s *HomeworkFileStore) Add(ctx context.Context, entry *domain.HomeworkEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	weeks, err := s.read()
	if err != nil {
		return err
	}
	start := domain.WeekOf(entry.WeekStart)
	startISO := start.Format(isoDate)

	idx := -1
	for i, w := range weeks {
		if w.Start == startISO {
			idx = i
			break
		}
	}
	if idx < 0 {
		weeks = append(weeks, homeworkWeek{Start: startISO, End: start.AddDate(0, 0, 6).Format(isoDate)})
		idx = len(weeks) - 1
	}
	weeks[idx].Entries = append(weeks[idx].Entries, fromDomain(entry))

	return s.write(weeks)
}

func (s *HomeworkFileStore) read() ([]homeworkWeek, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read homework file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("homework file %s is not valid JSON", s.path)
	}

	var weeks []homeworkWeek
	for _, w := range gjson.GetBytes(data, "weeks").Array() {
		week := homeworkWeek{Start: w.Get("start").String(), End: w.Get("end").String()}
		for _, e := range w.Get("entries").Array() {
			week.Entries = append(week.Entries, homeworkEntry{
				ID:          e.Get("id").String(),
				SchoolID:    e.Get("schoolId").String(),
				Grade:       e.Get("grade").String(),
				Subject:     e.Get("subject").String(),
				Description: e.Get("description").String(),
				CreatedBy:   e.Get("createdBy").String(),
				CreatedAt:   e.Get("createdAt").String(),
			})
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

func (s *HomeworkFileStore) write(weeks []homeworkWeek) error {
	data, err := json.MarshalIndent(struct {
		Weeks []homeworkWeek `json:"weeks"`
	}{Weeks: weeks}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create homework dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write homework file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (e homeworkEntry) toDomain(weekStart time.Time) *domain.HomeworkEntry {
	hw := &domain.HomeworkEntry{
		ID:          e.ID,
		SchoolID:    e.SchoolID,
		Grade:       e.Grade,
		WeekStart:   weekStart,
		Subject:     e.Subject,
		Description: e.Description,
		CreatedBy:   e.CreatedBy,
	}
	if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
		hw.CreatedAt = t
	}
	return hw
}

func fromDomain(hw *domain.HomeworkEntry) homeworkEntry {
	e := homeworkEntry{
		ID:          hw.ID,
		SchoolID:    hw.SchoolID,
		Grade:       hw.Grade,
		Subject:     hw.Subject,
		Description: hw.Description,
		CreatedBy:   hw.CreatedBy,
	}
	if !hw.CreatedAt.IsZero() {
		e.CreatedAt = hw.CreatedAt.UTC().Format(time.RFC3339)
	}
	return e
}
