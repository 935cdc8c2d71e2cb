package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
)

type HintSource interface {
	Hint(questionID string, level int) string
}

type HintHandler struct {
	hints HintSource
}

func NewHintHandler(hints HintSource) *HintHandler {
	return &HintHandler{hints: hints}
}

type HintResponse struct {
	QuestionID string `json:"questionId"`
	Level      int    `json:"hintLevel"`
	Hint       string `json:"hint"`
}

// Get returns the hint for ?questionId= at ?hintLevel= (default 0).
func (h *HintHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionID := strings.TrimSpace(r.URL.Query().Get("questionId"))
	if questionID == "" {
		api.HandleError(w, r, domain.ErrMissingQuestionID)
		return
	}
	level, err := strconv.Atoi(r.URL.Query().Get("hintLevel"))
	if err != nil || level < 0 {
		level = 0
	}

	api.Success(w, http.StatusOK, HintResponse{
		QuestionID: questionID,
		Level:      level,
		Hint:       h.hints.Hint(questionID, level),
	})
}
