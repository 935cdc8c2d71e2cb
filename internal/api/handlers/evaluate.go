package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
)

type AnswerEvaluator interface {
	Evaluate(ctx context.Context, question string, options []string, userAnswer string) (*domain.Evaluation, error)
}

type EvaluateHandler struct {
	evaluator AnswerEvaluator
}

func NewEvaluateHandler(evaluator AnswerEvaluator) *EvaluateHandler {
	return &EvaluateHandler{evaluator: evaluator}
}

type EvaluateRequest struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	UserAnswer string   `json:"userAnswer"`
}

func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	eval, err := h.evaluator.Evaluate(r.Context(), req.Question, req.Options, req.UserAnswer)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, eval)
}
