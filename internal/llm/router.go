package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// TurnRecorder stores a completed model turn for curation.
type TurnRecorder interface {
	Record(ctx context.Context, record domain.TurnRecord) error
}

// RouteRequest is a chat request tagged with the page section it came from.
// Context is either a topic summary string or a quiz question object.
type RouteRequest struct {
	Prompt  string          `json:"prompt"`
	Section string          `json:"section,omitempty"`
	Context json.RawMessage `json:"context,omitempty"`
	User    string          `json:"user,omitempty"`
}

// RouteResult carries the reply and the model that produced it.
type RouteResult struct {
	Reply string `json:"reply"`
	Model string `json:"model"`
}

// Router sends reasoning sections to the reasoning model and everything else
// to the general model.
type Router struct {
	reasoning Completer
	general   Completer
	recorder  TurnRecorder
	logger    *zap.Logger
}

// NewRouter creates a router. recorder may be nil.
func NewRouter(reasoning, general Completer, recorder TurnRecorder, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{reasoning: reasoning, general: general, recorder: recorder, logger: logger}
}

// IsReasoningSection reports whether a section is answered by the reasoning model.
func IsReasoningSection(section string) bool {
	return section == domain.SectionKnowledge || section == domain.SectionInvestigations
}

// Route answers a request. A failing reasoning model yields ErrModelNotAvailable.
func (r *Router) Route(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, domain.ErrMissingPrompt
	}

	if IsReasoningSection(req.Section) {
		return r.routeReasoning(ctx, req)
	}

	if r.general == nil {
		return nil, domain.ErrModelNotAvailable
	}
	reply, err := r.general.Complete(ctx, CompletionRequest{
		Prompt:      req.Prompt,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("general model: %w", err)
	}
	return &RouteResult{Reply: orFallback(reply), Model: r.general.Name()}, nil
}

func (r *Router) routeReasoning(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	if r.reasoning == nil {
		return nil, domain.ErrModelNotAvailable
	}

	prompt := ReasoningPrompt(req.Section, req.Prompt, req.Context)
	start := time.Now()
	reply, err := r.reasoning.Complete(ctx, CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	elapsed := time.Since(start)
	if err != nil {
		r.logger.Warn("reasoning model failed",
			zap.String("model", r.reasoning.Name()),
			zap.String("section", req.Section),
			zap.Error(err),
		)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, domain.ErrModelNotAvailable.Message, err)
	}

	if r.recorder != nil {
		var facts []string
		if len(req.Context) > 0 {
			facts = []string{string(req.Context)}
		}
		record := domain.TurnRecord{
			User:           req.User,
			RetrievedFacts: facts,
			RawReply:       reply,
			FinalReply:     reply,
			Model:          r.reasoning.Name(),
			ElapsedMS:      elapsed.Milliseconds(),
		}
		if err := r.recorder.Record(ctx, record); err != nil {
			r.logger.Warn("failed to record turn", zap.Error(err))
		}
	}

	return &RouteResult{Reply: orFallback(reply), Model: r.reasoning.Name()}, nil
}

func orFallback(reply string) string {
	if strings.TrimSpace(reply) == "" {
		return FallbackReply
	}
	return reply
}

// ReasoningPrompt builds the reasoning-model prompt. A quiz question context
// takes precedence; otherwise Knowledge wraps a summary string and
// Investigations asks for explained reasoning.
func ReasoningPrompt(section, prompt string, rawContext json.RawMessage) string {
	if quiz := parseQuizContext(rawContext); quiz != nil {
		if quiz.UserAnswer == "" {
			return QuizTipPrompt(quiz.Question, quiz.Options)
		}
		return QuizReflectionPrompt(*quiz)
	}

	switch section {
	case domain.SectionKnowledge:
		if summary := contextString(rawContext); summary != "" {
			return "Using the following topic summary, answer the learner's question:\n" + summary + "\n\nQuestion: " + prompt
		}
	case domain.SectionInvestigations:
		return "Reflect deeply and explain your reasoning.\nQuestion: " + prompt
	}
	return prompt
}

// QuizContext describes a multiple-choice question a learner is working on.
type QuizContext struct {
	Question          string
	Options           []string
	UserAnswer        string
	UserAnswerText    string
	CorrectAnswer     string
	CorrectAnswerText string
	Feedback          string
}

// QuizTipPrompt asks for a hint that does not reveal the answer.
func QuizTipPrompt(question string, options []string) string {
	return "A primary school learner is about to answer a multiple-choice question. " +
		"Give a creative, friendly tip or guiding message to help them think about the question, " +
		"without giving away the answer.\n\nQuestion: " + question + "\nOptions: " + strings.Join(options, ", ")
}

// QuizReflectionPrompt asks for an explanation of an answered question.
func QuizReflectionPrompt(q QuizContext) string {
	var b strings.Builder
	b.WriteString("A primary school learner answered a multiple-choice question. ")
	b.WriteString("Reflect on the question and the learner's answer. ")
	b.WriteString("Give a short, clear explanation that helps the learner understand why their answer is correct or not, ")
	b.WriteString("and what the key idea is for this question. Do not just repeat the answer.\n\n")
	fmt.Fprintf(&b, "Question: %s\nOptions: %s\n", q.Question, strings.Join(q.Options, ", "))
	fmt.Fprintf(&b, "Learner's answer: %s (%s)\n", q.UserAnswer, q.UserAnswerText)
	fmt.Fprintf(&b, "Correct answer: %s (%s)\n", q.CorrectAnswer, q.CorrectAnswerText)
	fmt.Fprintf(&b, "Previous feedback: %s", q.Feedback)
	return b.String()
}

func parseQuizContext(raw json.RawMessage) *QuizContext {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	ctx := gjson.ParseBytes(raw)
	if !ctx.IsObject() {
		return nil
	}
	question := ctx.Get("question").String()
	options := ctx.Get("options")
	if question == "" || !options.IsArray() {
		return nil
	}

	q := &QuizContext{
		Question:          question,
		UserAnswer:        ctx.Get("userAnswer").String(),
		UserAnswerText:    ctx.Get("userAnswerText").String(),
		CorrectAnswer:     ctx.Get("correctAnswer").String(),
		CorrectAnswerText: ctx.Get("correctAnswerText").String(),
		Feedback:          ctx.Get("feedback").String(),
	}
	for _, opt := range options.Array() {
		q.Options = append(q.Options, opt.String())
	}
	return q
}

func contextString(raw json.RawMessage) string {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return ""
	}
	result := gjson.ParseBytes(raw)
	if result.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(result.String())
}
