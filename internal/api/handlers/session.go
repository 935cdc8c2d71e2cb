package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/service"
	"github.com/go-chi/chi/v5"
)

type SessionRegistry interface {
	Create(learner domain.Learner, responseLength int) *service.Session
	Get(id string) (*service.Session, error)
	Delete(id string) error
}

// SessionHandler exposes chat sessions and their quizzes.
type SessionHandler struct {
	sessions SessionRegistry
}

func NewSessionHandler(sessions SessionRegistry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type CreateSessionRequest struct {
	User           string `json:"user"`
	SchoolID       string `json:"school_id"`
	Grade          string `json:"grade"`
	ResponseLength int    `json:"response_length"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type SettingsRequest struct {
	ResponseLength int `json:"response_length"`
}

type StartQuizRequest struct {
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type AnswerQuizRequest struct {
	Letter string `json:"letter"`
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user := strings.TrimSpace(req.User)
	if user == "" {
		api.Error(w, http.StatusBadRequest, "user is required")
		return
	}

	sess := h.sessions.Create(domain.Learner{
		Name:     user,
		SchoolID: strings.TrimSpace(req.SchoolID),
		Grade:    strings.TrimSpace(req.Grade),
	}, req.ResponseLength)
	api.Success(w, http.StatusCreated, sess.Info())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	api.Success(w, http.StatusOK, sess.Info())
}

func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	api.Success(w, http.StatusOK, sess.History())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Settings(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess.SetResponseLength(req.ResponseLength)
	api.Success(w, http.StatusOK, sess.Info())
}

func (h *SessionHandler) Message(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := sess.HandleMessage(r.Context(), req.Text)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, reply)
}

func (h *SessionHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req StartQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		api.Error(w, http.StatusBadRequest, "subject is required")
		return
	}

	question, err := sess.StartQuiz(r.Context(), req.Subject, req.Difficulty, req.Count)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusCreated, question)
}

func (h *SessionHandler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req AnswerQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := sess.AnswerQuiz(r.Context(), req.Letter)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, result)
}

func (h *SessionHandler) NextQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	progress, err := sess.NextQuiz(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, progress)
}
