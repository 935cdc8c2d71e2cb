package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cloo-solutions/classmate/internal/api"
	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/pagination"
)

type FlaggedTurnLister interface {
	ListFlagged(ctx context.Context, since time.Time, after *pagination.Cursor, limit int) ([]domain.TurnRecord, error)
}

// TurnsHandler pages through flagged turns for curation.
type TurnsHandler struct {
	turns FlaggedTurnLister
}

func NewTurnsHandler(turns FlaggedTurnLister) *TurnsHandler {
	return &TurnsHandler{turns: turns}
}

// Flagged lists flagged turns oldest first. ?since= is an RFC 3339 time
// (default one week ago), ?cursor= continues a previous page.
func (h *TurnsHandler) Flagged(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	since := time.Now().UTC().AddDate(0, 0, -7)
	if raw := q.Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "since must be an RFC 3339 time")
			return
		}
		since = parsed
	}
	cursor, err := pagination.DecodeCursor(q.Get("cursor"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := pagination.ParseLimit(q.Get("limit"))

	rows, err := h.turns.ListFlagged(r.Context(), since, cursor, limit)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, pagination.NewPage(rows, limit,
		func(t domain.TurnRecord) string { return t.ID },
		func(t domain.TurnRecord) time.Time { return t.Timestamp },
	))
}
