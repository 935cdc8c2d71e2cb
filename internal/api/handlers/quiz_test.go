package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizHandler_Subjects(t *testing.T) {
	bank, err := service.NewQuestionBank()
	require.NoError(t, err)
	h := NewQuizHandler(service.NewQuizService(bank, nil, nil, nil))

	w := httptest.NewRecorder()
	h.Subjects(w, httptest.NewRequest(http.MethodGet, "/quiz/subjects", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var subjects []domain.Subject
	decodeData(t, w, &subjects)
	assert.Equal(t, domain.DefaultSubjects(), subjects)
}
