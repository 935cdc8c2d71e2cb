package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"regexp"
	"strings"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/llm"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed banks/*.yaml
var embeddedBanks embed.FS

// QuizCompleteFormat is the closing message of a quiz.
const QuizCompleteFormat = "Quiz complete! Your final score: %d / %d. Well done for completing the quiz! Keep practicing and you'll keep improving!"

var defaultTips = []string{
	"Take your time to consider each option before making your choice.",
	"Pause and think through every answer before you decide.",
	"Look at all the choices closely and pick the one that fits best.",
	"Think carefully about what each option means before you answer.",
	"Review each answer choice and choose the one you believe is correct.",
}

var unhelpfulReflection = regexp.MustCompile(`(?i)here is some feedback|help you understand`)

type bankFile struct {
	Subject   string            `yaml:"subject"`
	Questions []domain.Question `yaml:"questions"`
}

// QuestionBank holds multiple-choice questions per subject.
type QuestionBank struct {
	subjects map[string][]domain.Question
}

// NewQuestionBank loads the built-in English and Maths questions.
func NewQuestionBank() (*QuestionBank, error) {
	bank := &QuestionBank{subjects: make(map[string][]domain.Question)}
	entries, err := embeddedBanks.ReadDir("banks")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded banks: %w", err)
	}
	for _, e := range entries {
		data, err := embeddedBanks.ReadFile("banks/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		if err := bank.load(data); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
	}
	return bank, nil
}

// LoadFile adds or replaces subjects from a YAML file holding one bank
// document per subject, separated by "---".
func (b *QuestionBank) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read question bank: %w", err)
	}
	return b.load(data)
}

func (b *QuestionBank) load(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var f bankFile
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to parse question bank: %w", err)
		}
		key := subjectKey(f.Subject)
		if key == "" {
			return domain.NewDomainError(domain.ErrCodeValidation, "question bank is missing a subject")
		}
		for i := range f.Questions {
			if f.Questions[i].ID == "" {
				f.Questions[i].ID = fmt.Sprintf("%s_%d", key, i+1)
			}
			if err := f.Questions[i].Validate(); err != nil {
				return fmt.Errorf("question %s: %w", f.Questions[i].ID, err)
			}
		}
		b.subjects[key] = f.Questions
	}
}

// Questions returns the questions for a subject id or display name.
func (b *QuestionBank) Questions(subject string) ([]domain.Question, error) {
	qs := b.subjects[subjectKey(subject)]
	if len(qs) == 0 {
		return nil, domain.ErrSubjectNotFound
	}
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out, nil
}

func subjectKey(subject string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(subject)), " ", "_")
}

// QuizQuestion is the learner-facing view of the current question.
type QuizQuestion struct {
	ID       string   `json:"id"`
	Number   int      `json:"number"`
	Total    int      `json:"total"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Tip      string   `json:"tip,omitempty"`
	Score    int      `json:"score"`
}

// QuizAnswer is the result of answering the current question.
type QuizAnswer struct {
	Correct           bool   `json:"correct"`
	Selected          string `json:"selected"`
	SelectedText      string `json:"selectedText"`
	Feedback          string `json:"feedback"`
	Reflection        string `json:"reflection,omitempty"`
	CorrectAnswer     string `json:"correctAnswer"`
	CorrectAnswerText string `json:"correctAnswerText"`
	Score             int    `json:"score"`
	Answered          int    `json:"answered"`
}

// QuizProgress is returned by Next: either the next question or the final summary.
type QuizProgress struct {
	Question *QuizQuestion `json:"question,omitempty"`
	Complete bool          `json:"complete"`
	Summary  string        `json:"summary,omitempty"`
}

// Quiz is one learner's pass through a list of questions. Options are
// shuffled per question and the answer letter remapped.
type Quiz struct {
	Subject   string
	questions []domain.Question
	index     int
	score     int
	answered  bool
	complete  bool
	options   []string
	answer    string
	rng       *rand.Rand
}

// NewQuiz starts a quiz at its first question.
func NewQuiz(subject string, questions []domain.Question, rng *rand.Rand) *Quiz {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	q := &Quiz{Subject: subject, questions: questions, rng: rng}
	q.shuffle()
	return q
}

func (q *Quiz) shuffle() {
	cur := q.questions[q.index]
	type pair struct {
		text string
		orig int
	}
	pairs := make([]pair, len(cur.Options))
	for i, opt := range cur.Options {
		pairs[i] = pair{text: domain.StripOptionPrefix(opt), orig: i}
	}
	q.rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })

	correct := domain.LetterIndex(cur.Answer)
	q.options = make([]string, len(pairs))
	for i, p := range pairs {
		q.options[i] = p.text
		if p.orig == correct {
			q.answer = domain.AnswerLetters[i]
		}
	}
	q.answered = false
}

// Current returns the current question, or nil once the quiz is complete.
func (q *Quiz) Current() *QuizQuestion {
	if q.complete {
		return nil
	}
	cur := q.questions[q.index]
	return &QuizQuestion{
		ID:       cur.ID,
		Number:   q.index + 1,
		Total:    len(q.questions),
		Question: cur.Question,
		Options:  append([]string(nil), q.options...),
		Score:    q.score,
	}
}

// CurrentQuestion returns the underlying question being asked.
func (q *Quiz) CurrentQuestion() domain.Question {
	return q.questions[q.index]
}

// Answer scores a letter once per question. The selected text must also
// match the correct option's text.
func (q *Quiz) Answer(letter string) (*QuizAnswer, error) {
	if q.complete {
		return nil, domain.ErrQuizComplete
	}
	if q.answered {
		return nil, domain.ErrQuestionAnswered
	}
	idx := domain.LetterIndex(letter)
	if idx < 0 || idx >= len(q.options) {
		return nil, domain.ErrInvalidAnswerLetter
	}

	cur := q.questions[q.index]
	correctText := cur.CorrectText()
	correct := domain.AnswerLetters[idx] == q.answer && q.options[idx] == correctText

	q.answered = true
	feedback := "❌ Incorrect. " + cur.Feedback
	if correct {
		q.score++
		feedback = "✅ 😃 Correct! " + cur.Feedback
	}
	return &QuizAnswer{
		Correct:           correct,
		Selected:          domain.AnswerLetters[idx],
		SelectedText:      q.options[idx],
		Feedback:          feedback,
		CorrectAnswer:     q.answer,
		CorrectAnswerText: correctText,
		Score:             q.score,
		Answered:          q.index + 1,
	}, nil
}

// Next moves past an answered question. After the last question it
// completes the quiz with a score summary.
func (q *Quiz) Next() (*QuizProgress, error) {
	if q.complete {
		return nil, domain.ErrQuizComplete
	}
	if !q.answered {
		return nil, domain.ErrQuestionPending
	}
	if q.index+1 < len(q.questions) {
		q.index++
		q.shuffle()
		return &QuizProgress{Question: q.Current()}, nil
	}
	q.complete = true
	return &QuizProgress{Complete: true, Summary: fmt.Sprintf(QuizCompleteFormat, q.score, len(q.questions))}, nil
}

// Score returns the number of correct answers so far.
func (q *Quiz) Score() int { return q.score }

// QuizService builds quizzes and asks the reasoning model for tips and
// reflections. Both models are optional.
type QuizService struct {
	bank      *QuestionBank
	reasoning llm.Completer
	generator llm.Completer
	rng       *rand.Rand
	logger    *zap.Logger
}

// NewQuizService creates a new QuizService instance
func NewQuizService(bank *QuestionBank, reasoning, generator llm.Completer, logger *zap.Logger) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		bank:      bank,
		reasoning: reasoning,
		generator: generator,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    logger,
	}
}

// Subjects lists the subjects offered to learners.
func (s *QuizService) Subjects() []domain.Subject {
	return domain.DefaultSubjects()
}

// Start begins a quiz for a subject from the question bank.
func (s *QuizService) Start(ctx context.Context, subject string) (*Quiz, *QuizQuestion, error) {
	questions, err := s.bank.Questions(subject)
	if err != nil {
		return nil, nil, err
	}
	return s.begin(ctx, subject, questions)
}

// StartGenerated begins a quiz with model-generated questions.
func (s *QuizService) StartGenerated(ctx context.Context, subject, difficulty string, n int) (*Quiz, *QuizQuestion, error) {
	questions, err := GenerateQuiz(ctx, s.generator, subject, difficulty, n)
	if err != nil {
		return nil, nil, err
	}
	return s.begin(ctx, subject, questions)
}

func (s *QuizService) begin(ctx context.Context, subject string, questions []domain.Question) (*Quiz, *QuizQuestion, error) {
	quiz := NewQuiz(subject, questions, rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64())))
	current := quiz.Current()
	current.Tip = s.Tip(ctx, quiz.CurrentQuestion())
	return quiz, current, nil
}

// Tip asks the reasoning model for a hint that keeps the answer hidden,
// falling back to a stock tip.
func (s *QuizService) Tip(ctx context.Context, q domain.Question) string {
	fallback := defaultTips[s.rng.IntN(len(defaultTips))]
	if s.reasoning == nil {
		return fallback
	}
	reply, err := s.reasoning.Complete(ctx, llm.CompletionRequest{Prompt: llm.QuizTipPrompt(q.Question, q.Options)})
	if err != nil {
		s.logger.Debug("quiz tip unavailable", zap.Error(err))
		return fallback
	}
	if strings.TrimSpace(reply) == "" {
		return fallback
	}
	return strings.TrimSpace(reply)
}

// Reflect asks the reasoning model to explain an answered question.
func (s *QuizService) Reflect(ctx context.Context, q domain.Question, result *QuizAnswer) string {
	fallback := fmt.Sprintf("Focus on what the question is really about: %q. "+
		"If you got it wrong, try to spot the key idea you missed. "+
		"If you got it right, can you explain why that answer fits the question?", q.Question)
	if s.reasoning == nil {
		return fallback
	}

	prompt := llm.QuizReflectionPrompt(llm.QuizContext{
		Question:          q.Question,
		Options:           q.Options,
		UserAnswer:        result.Selected,
		UserAnswerText:    result.SelectedText,
		CorrectAnswer:     q.Answer,
		CorrectAnswerText: result.CorrectAnswerText,
		Feedback:          result.Feedback,
	})
	reply, err := s.reasoning.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		s.logger.Debug("quiz reflection unavailable", zap.Error(err))
		return fallback
	}
	reply = strings.TrimSpace(reply)
	if reply == "" || unhelpfulReflection.MatchString(reply) {
		return fallback
	}
	return reply
}
