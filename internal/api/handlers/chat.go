package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/llm"
	"go.uber.org/zap"
)

type ChatRouter interface {
	Route(ctx context.Context, req llm.RouteRequest) (*llm.RouteResult, error)
}

// ChatHandler proxies single prompts to the section's model.
type ChatHandler struct {
	router ChatRouter
	logger *zap.Logger
}

func NewChatHandler(router ChatRouter, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{router: router, logger: logger}
}

type ChatResponse struct {
	Reply string `json:"reply"`
	Model string `json:"model,omitempty"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req llm.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.router.Route(r.Context(), req)
	if err != nil {
		h.logger.Warn("chat failed", zap.String("section", req.Section), zap.Error(err))
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, ChatResponse{Reply: result.Reply, Model: result.Model})
}
