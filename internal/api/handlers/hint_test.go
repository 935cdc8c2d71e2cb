package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/classmate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHints = service.NewHints(map[string][]string{
	"maths_1": {"Count on from 5.", "5, 6, 7, 8..."},
})

func TestHintHandler_Get(t *testing.T) {
	h := NewHintHandler(testHints)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"first hint by default", "?questionId=maths_1", "Count on from 5."},
		{"second level", "?questionId=maths_1&hintLevel=1", "5, 6, 7, 8..."},
		{"level clamps to last hint", "?questionId=maths_1&hintLevel=9", "5, 6, 7, 8..."},
		{"unparseable level", "?questionId=maths_1&hintLevel=two", "Count on from 5."},
		{"unknown question", "?questionId=history_4", service.HintUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Get(w, httptest.NewRequest(http.MethodGet, "/hint"+tt.query, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var resp HintResponse
			decodeData(t, w, &resp)
			assert.Equal(t, tt.want, resp.Hint)
		})
	}
}

func TestHintHandler_MissingQuestionID(t *testing.T) {
	h := NewHintHandler(testHints)
	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest(http.MethodGet, "/hint?hintLevel=1", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing questionId", decodeError(t, w))
}
