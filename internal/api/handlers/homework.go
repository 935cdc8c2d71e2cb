package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
)

type HomeworkService interface {
	Add(ctx context.Context, entry *domain.HomeworkEntry) (*domain.HomeworkEntry, error)
	ListForLearner(ctx context.Context, learner domain.Learner) ([]*domain.HomeworkEntry, error)
}

type HomeworkHandler struct {
	svc HomeworkService
}

func NewHomeworkHandler(svc HomeworkService) *HomeworkHandler {
	return &HomeworkHandler{svc: svc}
}

type CreateHomeworkRequest struct {
	SchoolID    string `json:"school_id"`
	Grade       string `json:"grade"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
	// WeekStart is an optional YYYY-MM-DD date inside the target week.
	WeekStart string `json:"week_start"`
}

// List returns this week's homework for ?school_id= and ?grade=.
func (h *HomeworkHandler) List(w http.ResponseWriter, r *http.Request) {
	learner := domain.Learner{
		SchoolID: strings.TrimSpace(r.URL.Query().Get("school_id")),
		Grade:    strings.TrimSpace(r.URL.Query().Get("grade")),
	}
	entries, err := h.svc.ListForLearner(r.Context(), learner)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*domain.HomeworkEntry{}
	}
	api.Success(w, http.StatusOK, entries)
}

func (h *HomeworkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateHomeworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry := &domain.HomeworkEntry{
		SchoolID:    strings.TrimSpace(req.SchoolID),
		Grade:       strings.TrimSpace(req.Grade),
		Subject:     req.Subject,
		Description: req.Description,
		CreatedBy:   strings.TrimSpace(req.CreatedBy),
	}
	if req.WeekStart != "" {
		day, err := time.Parse(time.DateOnly, req.WeekStart)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
			return
		}
		entry.WeekStart = day
	}

	created, err := h.svc.Add(r.Context(), entry)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusCreated, created)
}
