package domain

import "strings"

// AnswerLetters are the option labels of a multiple-choice question.
var AnswerLetters = []string{"A", "B", "C", "D"}

// Question is a multiple-choice quiz question with four options.
// Options may carry an "A) " style prefix; Answer is the correct letter.
type Question struct {
	ID       string   `yaml:"id" json:"id"`
	Question string   `yaml:"question" json:"question"`
	Options  []string `yaml:"options" json:"options"`
	Answer   string   `yaml:"answer" json:"answer"`
	Feedback string   `yaml:"feedback" json:"feedback"`
}

// Validate checks the question has four options and a valid answer letter.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) != len(AnswerLetters) {
		return ErrInvalidQuestion
	}
	if LetterIndex(q.Answer) < 0 {
		return ErrInvalidQuestion
	}
	return nil
}

// CorrectText returns the text of the correct option without its letter prefix.
func (q *Question) CorrectText() string {
	idx := LetterIndex(q.Answer)
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return StripOptionPrefix(q.Options[idx])
}

// LetterIndex maps A-D (any case) to 0-3, or -1 when the letter is invalid.
func LetterIndex(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for i, l := range AnswerLetters {
		if l == letter {
			return i
		}
	}
	return -1
}

// StripOptionPrefix removes a leading "A) " style label from an option.
func StripOptionPrefix(option string) string {
	option = strings.TrimSpace(option)
	if len(option) >= 2 && option[1] == ')' && LetterIndex(option[:1]) >= 0 {
		return strings.TrimSpace(option[2:])
	}
	return option
}

// Subject is a quiz subject offered to learners.
type Subject struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// DefaultSubjects lists the subjects offered in the quiz picker.
func DefaultSubjects() []Subject {
	return []Subject{
		{ID: "maths", Name: "Maths"},
		{ID: "english", Name: "English"},
		{ID: "afrikaans", Name: "Afrikaans"},
		{ID: "social_sciences", Name: "Social Sciences"},
		{ID: "history", Name: "History"},
	}
}

// Evaluation is a model's judgement of a learner's quiz answer.
type Evaluation struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
	ScoreImpact   int    `json:"scoreImpact"`
}
