package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/llm"
	"github.com/tidwall/gjson"
)

// EvaluationFallback is the explanation used when the model reply cannot be parsed.
const EvaluationFallback = "Sorry, could not evaluate."

var (
	jsonObject = regexp.MustCompile(`(?s)\{.*\}`)
	jsonArray  = regexp.MustCompile(`(?s)\[.*\]`)
)

// Evaluator asks the general model to judge quiz answers.
type Evaluator struct {
	model llm.Completer
}

func NewEvaluator(model llm.Completer) *Evaluator {
	return &Evaluator{model: model}
}

// Evaluate judges a learner's answer. An unparseable model reply yields an
// incorrect evaluation rather than an error.
func (e *Evaluator) Evaluate(ctx context.Context, question string, options []string, userAnswer string) (*domain.Evaluation, error) {
	if strings.TrimSpace(question) == "" || len(options) == 0 || strings.TrimSpace(userAnswer) == "" {
		return nil, domain.ErrMissingRequiredField
	}
	if e.model == nil {
		return nil, domain.ErrModelNotAvailable
	}

	prompt := "You are a helpful quiz assistant for children.\n\n" +
		"Question: " + question + "\n" +
		"Options: " + strings.Join(options, ", ") + "\n" +
		"User's answer: " + userAnswer + "\n" +
		`Is this correct? If not, what is the correct answer and why? Respond in JSON: {"correct": true/false, "correctAnswer": "A/B/C/D", "explanation": "..."}`

	reply, err := e.model.Complete(ctx, llm.CompletionRequest{Prompt: prompt, MaxTokens: 256, Temperature: 0.7})
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return ParseEvaluation(reply), nil
}

// ParseEvaluation reads the first JSON object in a model reply.
func ParseEvaluation(reply string) *domain.Evaluation {
	eval := &domain.Evaluation{Explanation: EvaluationFallback}
	raw := jsonObject.FindString(reply)
	if raw == "" || !gjson.Valid(raw) {
		return eval
	}
	result := gjson.Parse(raw)
	eval.Correct = result.Get("correct").Bool()
	eval.CorrectAnswer = result.Get("correctAnswer").String()
	if explanation := result.Get("explanation").String(); explanation != "" {
		eval.Explanation = explanation
	}
	if eval.Correct {
		eval.ScoreImpact = 1
	}
	return eval
}

// GenerateQuiz asks the model for n multiple-choice questions and keeps the
// ones that parse into valid questions.
func GenerateQuiz(ctx context.Context, model llm.Completer, subject, difficulty string, n int) ([]domain.Question, error) {
	if model == nil {
		return nil, domain.ErrModelNotAvailable
	}
	if n <= 0 {
		n = 5
	}
	if difficulty == "" {
		difficulty = "easy"
	}

	prompt := fmt.Sprintf("Generate %d multiple-choice questions for %s (%s) for a primary school learner. "+
		"Format as JSON: [{question, options:[A,B,C,D], answer, explanation}]", n, subjectKey(subject), difficulty)
	reply, err := model.Complete(ctx, llm.CompletionRequest{Prompt: prompt, MaxTokens: 600, Temperature: 0.3})
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, domain.ErrQuizGeneration.Message, err)
	}
	return ParseGeneratedQuestions(subject, reply)
}

// ParseGeneratedQuestions extracts the first JSON array from a model reply.
func ParseGeneratedQuestions(subject, reply string) ([]domain.Question, error) {
	raw := jsonArray.FindString(reply)
	if raw == "" || !gjson.Valid(raw) {
		return nil, domain.ErrQuizGeneration
	}

	var questions []domain.Question
	for i, item := range gjson.Parse(raw).Array() {
		q := domain.Question{
			ID:       fmt.Sprintf("%s_generated_%d", subjectKey(subject), i+1),
			Question: item.Get("question").String(),
			Answer:   strings.ToUpper(strings.TrimSpace(item.Get("answer").String())),
			Feedback: item.Get("explanation").String(),
		}
		for _, opt := range item.Get("options").Array() {
			q.Options = append(q.Options, opt.String())
		}
		if len(q.Answer) > 1 {
			q.Answer = q.Answer[:1]
		}
		if q.Validate() != nil {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuizQuestions
	}
	return questions, nil
}
