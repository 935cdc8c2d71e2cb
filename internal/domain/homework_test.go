package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHomeworkEntry_Validate(t *testing.T) {
	tests := []struct {
		name  string
		entry HomeworkEntry
		err   error
	}{
		{"Valid", HomeworkEntry{Grade: "4", Subject: "Mathematics", Description: "Page 12"}, nil},
		{"MissingSubject", HomeworkEntry{Grade: "4", Description: "Page 12"}, ErrMissingRequiredField},
		{"MissingGrade", HomeworkEntry{Subject: "Maths", Description: "Page 12"}, ErrMissingRequiredField},
		{"TooLong", HomeworkEntry{Grade: "4", Subject: "Maths", Description: strings.Repeat("a", 201)}, ErrDescriptionTooLong},
		{"ExactlyMax", HomeworkEntry{Grade: "4", Subject: "Maths", Description: strings.Repeat("é", 200)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestHomeworkEntry_MatchesLearner(t *testing.T) {
	entry := HomeworkEntry{SchoolID: "Bryneven", Grade: "4"}

	assert.True(t, entry.MatchesLearner(Learner{SchoolID: "bryneven", Grade: "4"}))
	assert.False(t, entry.MatchesLearner(Learner{SchoolID: "other", Grade: "4"}))
	assert.False(t, entry.MatchesLearner(Learner{SchoolID: "bryneven", Grade: "5"}))
	assert.True(t, entry.MatchesLearner(Learner{Grade: "4"}))

	anySchool := HomeworkEntry{Grade: "4"}
	assert.True(t, anySchool.MatchesLearner(Learner{SchoolID: "other", Grade: "4"}))
}

func TestWeekOf(t *testing.T) {
	// 2025-05-08 is a Thursday.
	thursday := time.Date(2025, 5, 8, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), WeekOf(thursday))

	sunday := time.Date(2025, 5, 11, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), WeekOf(sunday))

	monday := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekOf(monday))
}

func TestQuestion_ValidateAndText(t *testing.T) {
	q := Question{
		Question: "What is 5 + 3?",
		Options:  []string{"A) 6", "B) 7", "C) 8", "D) 9"},
		Answer:   "c",
	}

	assert.NoError(t, q.Validate())
	assert.Equal(t, "8", q.CorrectText())

	bad := Question{Question: "x", Options: []string{"A) 1"}, Answer: "A"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidQuestion)

	badLetter := Question{Question: "x", Options: []string{"1", "2", "3", "4"}, Answer: "E"}
	assert.ErrorIs(t, badLetter.Validate(), ErrInvalidQuestion)
}

func TestStripOptionPrefix(t *testing.T) {
	assert.Equal(t, "Joyful", StripOptionPrefix("C) Joyful"))
	assert.Equal(t, "Joyful", StripOptionPrefix("Joyful"))
	assert.Equal(t, "X) odd", StripOptionPrefix("X) odd"))
	assert.Equal(t, 3, LetterIndex(" d "))
	assert.Equal(t, -1, LetterIndex("Z"))
}
