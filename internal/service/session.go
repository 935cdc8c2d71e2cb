package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/knowledge"
	"github.com/cloo-solutions/classmate/internal/llm"
	"github.com/cloo-solutions/classmate/internal/telemetry"
	"go.uber.org/zap"
)

// Chat replies that do not come from a model.
const (
	PasteArmedReply     = "Sure! Go ahead and paste the content you'd like me to look at."
	PasteCapturedReply  = "Thanks! I've read what you shared. Now, let's chat about it!"
	PasteNoQuestions    = "I've got a few questions, but I need a little more info."
	PasteQuestionsError = "Sorry, I couldn't come up with questions right now."
	DiscussionEndReply  = "Okay! Let's switch topics. What would you like to do now?"
	DiscussionFallback  = "Let's keep talking about what you pasted!"
	AnswerFallback      = "I'm not sure how to answer that yet, but let's learn together!"
	ModelErrorReply     = "I'm having trouble thinking right now. Can you try again in a bit?"
)

const (
	// FactsPerAnswer is how many ranked facts feed the default answer prompt.
	FactsPerAnswer = 3
	// PasteMinWords is the word count above which an armed message counts as a paste.
	PasteMinWords = 50

	discussionTokens      = 300
	discussionTemperature = 0.4
	answerTemperature     = 0.3
)

var (
	pasteTrigger  = regexp.MustCompile(`(?i)\bpaste|paragraph|work\b`)
	topicSwitch   = regexp.MustCompile(`(?i)\b(something else|stop talking|switch topics|change topic)\b`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// CorpusReader exposes the current knowledge chunks.
type CorpusReader interface {
	Chunks() []domain.KnowledgeChunk
}

// HomeworkLister lists this week's homework for a learner.
type HomeworkLister interface {
	ListForLearner(ctx context.Context, learner domain.Learner) ([]*domain.HomeworkEntry, error)
}

// SessionDeps are the collaborators shared by every session. Only Corpus
// and Model are needed for answering; the rest are optional.
type SessionDeps struct {
	Corpus        CorpusReader
	Ranker        *knowledge.Ranker
	Model         llm.Completer
	Homework      HomeworkLister
	Conversations ConversationStore
	Turns         llm.TurnRecorder
	Quizzes       *QuizService
	// Conversational switches the default answer to the prompt that carries
	// the last two turns as context.
	Conversational bool
	Logger         *zap.Logger
}

// Session is one learner's chat state. All methods are safe for concurrent use.
type Session struct {
	ID      string
	Learner domain.Learner

	mu             sync.Mutex
	deps           *SessionDeps
	responseLength int
	history        []domain.Message
	buffer         []domain.Message
	pasteArmed     bool
	discussion     string
	drill          *TimesTableDrill
	quiz           *Quiz
	lastActive     time.Time
	now            Clock
}

// SessionInfo is a snapshot of a session's state.
type SessionInfo struct {
	ID             string         `json:"id"`
	Learner        domain.Learner `json:"learner"`
	Messages       int            `json:"messages"`
	ResponseLength int            `json:"response_length"`
	Summary        string         `json:"summary,omitempty"`
	PasteMode      bool           `json:"paste_mode"`
	Discussing     bool           `json:"discussing"`
	TimesTable     int            `json:"times_table,omitempty"`
	QuizSubject    string         `json:"quiz_subject,omitempty"`
	LastActive     time.Time      `json:"last_active"`
}

// NewSession creates a session with the default response length.
func NewSession(id string, learner domain.Learner, deps *SessionDeps) *Session {
	if deps.Ranker == nil {
		deps.Ranker = knowledge.NewRanker(nil)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Session{
		ID:             id,
		Learner:        learner,
		deps:           deps,
		responseLength: DefaultResponseLength,
		now:            systemClock,
	}
	s.lastActive = s.now()
	return s
}

// SetResponseLength sets the reply length cap, applying the default and minimum.
func (s *Session) SetResponseLength(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responseLength = ClampResponseLength(n)
}

// LastActive reports when the session last handled a request.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Info returns a snapshot of the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := SessionInfo{
		ID:             s.ID,
		Learner:        s.Learner,
		Messages:       len(s.history),
		ResponseLength: s.responseLength,
		Summary:        HistorySummary(s.history),
		PasteMode:      s.pasteArmed,
		Discussing:     s.discussion != "",
		LastActive:     s.lastActive,
	}
	if s.drill != nil {
		info.TimesTable = s.drill.Table
	}
	if s.quiz != nil {
		info.QuizSubject = s.quiz.Subject
	}
	return info
}

// History returns a copy of the chat history.
func (s *Session) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.history...)
}

// HandleMessage answers one learner message. Branches are tried in order:
// homework, paste mode, discussion, times-table drill, then a fact-grounded
// model answer. Model failures become friendly replies, not errors.
func (s *Session) HandleMessage(ctx context.Context, text string) (*domain.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &domain.Reply{Kind: domain.ReplyNone}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "session.handle_message", telemetry.SpanAttributes{SessionID: s.ID, Operation: "chat"})
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
	s.remember(ctx, domain.RoleUser, text)

	var reply *domain.Reply
	switch {
	case IsHomeworkQuery(text):
		reply = s.homework(ctx)
	case !s.pasteArmed && pasteTrigger.MatchString(text):
		s.pasteArmed = true
		reply = &domain.Reply{Text: PasteArmedReply, Kind: domain.ReplyPaste}
	case s.pasteArmed && len(whitespaceRun.Split(text, -1)) > PasteMinWords:
		reply = s.capturePaste(ctx, text)
	case s.discussion != "":
		reply = s.discuss(ctx, text)
	default:
		if r := s.timesTable(text); r != nil {
			reply = r
		} else {
			reply = s.answer(ctx, text)
		}
	}

	span.SetTag("reply_kind", string(reply.Kind))
	s.remember(ctx, domain.RoleAssistant, reply.Text)
	return reply, nil
}

func (s *Session) homework(ctx context.Context) *domain.Reply {
	var entries []*domain.HomeworkEntry
	if s.deps.Homework != nil {
		list, err := s.deps.Homework.ListForLearner(ctx, s.Learner)
		if err != nil {
			s.deps.Logger.Warn("homework lookup failed", zap.String("session_id", s.ID), zap.Error(err))
		}
		entries = list
	}
	return &domain.Reply{Text: SummarizeHomework(entries), Kind: domain.ReplyHomework}
}

func (s *Session) capturePaste(ctx context.Context, text string) *domain.Reply {
	s.pasteArmed = false
	s.discussion = text

	questions, err := s.complete(ctx, BuildPastePrompt(text), discussionTokens, discussionTemperature, nil)
	switch {
	case err != nil:
		questions = PasteQuestionsError
	case strings.TrimSpace(questions) == "":
		questions = PasteNoQuestions
	}
	return &domain.Reply{Text: PasteCapturedReply + "\n\n" + strings.TrimSpace(questions), Kind: domain.ReplyPaste}
}

func (s *Session) discuss(ctx context.Context, text string) *domain.Reply {
	if topicSwitch.MatchString(text) {
		s.discussion = ""
		return &domain.Reply{Text: DiscussionEndReply, Kind: domain.ReplyDiscussion}
	}

	raw, err := s.complete(ctx, BuildDiscussionPrompt(s.discussion, text), discussionTokens, discussionTemperature, nil)
	if err != nil {
		return &domain.Reply{Text: ModelErrorReply, Kind: domain.ReplyError}
	}
	reply := EnsureFullSentence(raw, s.responseLength)
	if reply == "" {
		reply = DiscussionFallback
	}
	return &domain.Reply{Text: reply, Kind: domain.ReplyDiscussion}
}

func (s *Session) timesTable(text string) *domain.Reply {
	if s.drill != nil {
		if IsDrillStop(text) {
			s.drill = nil
			return &domain.Reply{Text: DrillStoppedReply, Kind: domain.ReplyTimesTable}
		}
		reply, done := s.drill.Answer(text)
		if done {
			s.drill = nil
		}
		return &domain.Reply{Text: reply, Kind: domain.ReplyTimesTable}
	}

	table, ok := ParseTimesTableRequest(text)
	if !ok {
		return nil
	}
	s.drill = NewTimesTableDrill(table)
	return &domain.Reply{Text: s.drill.Opening(), Kind: domain.ReplyTimesTable}
}

func (s *Session) answer(ctx context.Context, text string) *domain.Reply {
	var chunks []domain.KnowledgeChunk
	if s.deps.Corpus != nil {
		chunks = s.deps.Corpus.Chunks()
	}
	facts := s.deps.Ranker.RankNormalized(text, chunks, FactsPerAnswer)
	factTexts := make([]string, len(facts))
	for i, f := range facts {
		factTexts[i] = StripTags(f.Text)
	}

	if summary := HistorySummary(s.history); summary != "" {
		if c := DetectContradiction(summary, factTexts); c != nil {
			s.deps.Logger.Debug("retrieved fact may contradict the conversation",
				zap.String("session_id", s.ID),
				zap.String("topic", c.Topic),
				zap.String("fact", c.Fact),
			)
		}
	}

	var prompt string
	if s.deps.Conversational {
		prompt = BuildGenerationPrompt(text, s.turns(), factTexts)
	} else {
		prompt = BuildFactPrompt(text, factTexts)
	}

	raw, err := s.complete(ctx, prompt, MaxOutputTokens(s.responseLength), answerTemperature, factTexts)
	if err != nil {
		return &domain.Reply{Text: ModelErrorReply, Kind: domain.ReplyError, Facts: facts}
	}
	reply := EnsureFullSentence(raw, s.responseLength)
	if reply == "" {
		return &domain.Reply{Text: AnswerFallback, Kind: domain.ReplyFallback, Facts: facts}
	}
	return &domain.Reply{Text: reply, Kind: domain.ReplyAnswer, Facts: facts}
}

// complete calls the model and records the turn. The final reply stored in
// the turn log is the raw reply after length trimming.
func (s *Session) complete(ctx context.Context, prompt string, maxTokens int, temperature float32, facts []string) (string, error) {
	if s.deps.Model == nil {
		return "", domain.ErrModelNotAvailable
	}
	start := time.Now()
	raw, err := s.deps.Model.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	elapsed := time.Since(start)
	if err != nil {
		s.deps.Logger.Warn("model call failed",
			zap.String("session_id", s.ID),
			zap.String("model", s.deps.Model.Name()),
			zap.Error(err),
		)
		return "", err
	}

	if s.deps.Turns != nil {
		record := domain.TurnRecord{
			User:           s.Learner.Name,
			RetrievedFacts: facts,
			RawReply:       raw,
			FinalReply:     EnsureFullSentence(raw, s.responseLength),
			Model:          s.deps.Model.Name(),
			ElapsedMS:      elapsed.Milliseconds(),
		}
		if err := s.deps.Turns.Record(ctx, record); err != nil {
			s.deps.Logger.Warn("failed to record turn", zap.String("session_id", s.ID), zap.Error(err))
		}
	}
	return raw, nil
}

// turns pairs each user message with the assistant reply that followed it,
// ignoring the message currently being answered.
func (s *Session) turns() []domain.Turn {
	var turns []domain.Turn
	for i := 0; i+1 < len(s.history); i++ {
		if s.history[i].Role == domain.RoleUser && s.history[i+1].Role == domain.RoleAssistant {
			turns = append(turns, domain.Turn{User: s.history[i].Content, Assistant: s.history[i+1].Content})
			i++
		}
	}
	return turns
}

// remember appends a message and persists a summary every SummaryInterval
// buffered messages.
func (s *Session) remember(ctx context.Context, role domain.Role, content string) {
	if content == "" {
		return
	}
	msg := domain.Message{Role: role, Content: content}
	s.history = append(s.history, msg)
	s.buffer = append(s.buffer, msg)
	if len(s.buffer) < SummaryInterval {
		return
	}

	summary := SummarizeMessages(s.buffer)
	s.buffer = nil
	if s.deps.Conversations == nil || s.Learner.Name == "" {
		return
	}
	err := s.deps.Conversations.SaveSummary(ctx, &domain.ConversationSummary{
		User:      s.Learner.Name,
		Summary:   summary,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.deps.Logger.Warn("failed to save conversation summary", zap.String("session_id", s.ID), zap.Error(err))
	}
}

// StartQuiz begins a multiple-choice quiz. With difficulty set, questions
// are generated by the model instead of read from the bank.
func (s *Session) StartQuiz(ctx context.Context, subject, difficulty string, count int) (*QuizQuestion, error) {
	if s.deps.Quizzes == nil {
		return nil, domain.ErrSubjectNotFound
	}
	var (
		quiz    *Quiz
		current *QuizQuestion
		err     error
	)
	if difficulty != "" {
		quiz, current, err = s.deps.Quizzes.StartGenerated(ctx, subject, difficulty, count)
	} else {
		quiz, current, err = s.deps.Quizzes.Start(ctx, subject)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
	s.quiz = quiz
	return current, nil
}

// AnswerQuiz answers the current quiz question and adds a reflection.
func (s *Session) AnswerQuiz(ctx context.Context, letter string) (*QuizAnswer, error) {
	s.mu.Lock()
	quiz := s.quiz
	if quiz == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveQuiz
	}
	s.lastActive = s.now()
	question := quiz.CurrentQuestion()
	result, err := quiz.Answer(letter)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result.Reflection = s.deps.Quizzes.Reflect(ctx, question, result)
	return result, nil
}

// NextQuiz advances the quiz. The quiz is cleared once complete.
func (s *Session) NextQuiz(ctx context.Context) (*QuizProgress, error) {
	s.mu.Lock()
	quiz := s.quiz
	if quiz == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveQuiz
	}
	s.lastActive = s.now()
	progress, err := quiz.Next()
	var next domain.Question
	switch {
	case err != nil:
	case progress.Complete:
		s.quiz = nil
	default:
		next = quiz.CurrentQuestion()
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if progress.Question != nil {
		progress.Question.Tip = s.deps.Quizzes.Tip(ctx, next)
	}
	return progress, nil
}
