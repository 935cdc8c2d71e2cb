package handlers

import (
	"net/http"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
)

type SubjectLister interface {
	Subjects() []domain.Subject
}

type QuizHandler struct {
	quizzes SubjectLister
}

func NewQuizHandler(quizzes SubjectLister) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

func (h *QuizHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.quizzes.Subjects())
}
