package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSessionTestRouter(t *testing.T, model *MockCompleter) (http.Handler, *service.SessionManager) {
	t.Helper()
	bank, err := service.NewQuestionBank()
	require.NoError(t, err)
	deps := &service.SessionDeps{
		Corpus:  schoolChunks,
		Model:   model,
		Quizzes: service.NewQuizService(bank, nil, nil, nil),
	}
	mgr := service.NewSessionManager(deps, time.Hour, nil)
	h := NewSessionHandler(mgr)

	r := chi.NewRouter()
	r.Post("/sessions", h.Create)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Get("/history", h.History)
		r.Post("/settings", h.Settings)
		r.Post("/messages", h.Message)
		r.Post("/quiz", h.StartQuiz)
		r.Post("/quiz/answer", h.AnswerQuiz)
		r.Post("/quiz/next", h.NextQuiz)
	})
	return r, mgr
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
	return w
}

func createSession(t *testing.T, r http.Handler) service.SessionInfo {
	t.Helper()
	w := do(r, http.MethodPost, "/sessions", `{"user":"Thandi","school_id":"bryneven","grade":"2"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var info service.SessionInfo
	decodeData(t, w, &info)
	require.NotEmpty(t, info.ID)
	return info
}

func TestSessionHandler_CreateAndGet(t *testing.T) {
	r, mgr := newSessionTestRouter(t, new(MockCompleter))

	info := createSession(t, r)
	assert.Equal(t, "Thandi", info.Learner.Name)
	assert.Equal(t, "bryneven", info.Learner.SchoolID)
	assert.Equal(t, service.DefaultResponseLength, info.ResponseLength)
	assert.Equal(t, 1, mgr.Len())

	w := do(r, http.MethodGet, "/sessions/"+info.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSessionHandler_CreateRequiresUser(t *testing.T) {
	r, _ := newSessionTestRouter(t, new(MockCompleter))

	w := do(r, http.MethodPost, "/sessions", `{"grade":"2"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user is required", decodeError(t, w))
}

func TestSessionHandler_UnknownSession(t *testing.T) {
	r, _ := newSessionTestRouter(t, new(MockCompleter))

	w := do(r, http.MethodPost, "/sessions/nope/messages", `{"text":"hi"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session not found", decodeError(t, w))
}

func TestSessionHandler_Message(t *testing.T) {
	model := new(MockCompleter)
	model.On("Complete", mock.Anything, mock.Anything).Return("Our principal is Mrs Naidoo.", nil)
	r, _ := newSessionTestRouter(t, model)
	info := createSession(t, r)

	w := do(r, http.MethodPost, "/sessions/"+info.ID+"/messages", `{"text":"Who is the principal?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var reply domain.Reply
	decodeData(t, w, &reply)
	assert.Equal(t, domain.ReplyAnswer, reply.Kind)
	assert.Equal(t, "Our principal is Mrs Naidoo.", reply.Text)

	w = do(r, http.MethodGet, "/sessions/"+info.ID+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history []domain.Message
	decodeData(t, w, &history)
	assert.Len(t, history, 2)
	model.AssertExpectations(t)
}

func TestSessionHandler_Settings(t *testing.T) {
	r, _ := newSessionTestRouter(t, new(MockCompleter))
	info := createSession(t, r)

	w := do(r, http.MethodPost, "/sessions/"+info.ID+"/settings", `{"response_length":800}`)

	require.Equal(t, http.StatusOK, w.Code)
	var updated service.SessionInfo
	decodeData(t, w, &updated)
	assert.Equal(t, 800, updated.ResponseLength)
}

func TestSessionHandler_Delete(t *testing.T) {
	r, mgr := newSessionTestRouter(t, new(MockCompleter))
	info := createSession(t, r)

	w := do(r, http.MethodDelete, "/sessions/"+info.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, mgr.Len())

	w = do(r, http.MethodDelete, "/sessions/"+info.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHandler_QuizFlow(t *testing.T) {
	r, _ := newSessionTestRouter(t, new(MockCompleter))
	info := createSession(t, r)
	base := "/sessions/" + info.ID

	w := do(r, http.MethodPost, base+"/quiz/answer", `{"letter":"A"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrNoActiveQuiz.Message, decodeError(t, w))

	w = do(r, http.MethodPost, base+"/quiz", `{"subject":"Maths"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var question service.QuizQuestion
	decodeData(t, w, &question)
	assert.Equal(t, 1, question.Number)
	require.Len(t, question.Options, 4)
	assert.NotEmpty(t, question.Tip)

	w = do(r, http.MethodPost, base+"/quiz/answer", `{"letter":"A"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var answer service.QuizAnswer
	decodeData(t, w, &answer)
	assert.Equal(t, 1, answer.Answered)
	assert.NotEmpty(t, answer.Reflection)

	w = do(r, http.MethodPost, base+"/quiz/answer", `{"letter":"B"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, base+"/quiz/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	var progress service.QuizProgress
	decodeData(t, w, &progress)
	if !progress.Complete {
		require.NotNil(t, progress.Question)
		assert.Equal(t, 2, progress.Question.Number)
	}
}

func TestSessionHandler_QuizUnknownSubject(t *testing.T) {
	r, _ := newSessionTestRouter(t, new(MockCompleter))
	info := createSession(t, r)

	w := do(r, http.MethodPost, "/sessions/"+info.ID+"/quiz", `{"subject":"Latin"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/sessions/"+info.ID+"/quiz", `{"subject":" "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(decodeError(t, w), "subject"))
}
