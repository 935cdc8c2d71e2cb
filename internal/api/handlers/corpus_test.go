package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCorpusHandler_Stats(t *testing.T) {
	builtAt := time.Date(2026, 2, 1, 7, 0, 0, 0, time.UTC)
	corpus := &domain.Corpus{
		Chunks:  schoolChunks,
		Sources: []domain.SourceStats{{Name: "data/knowledge.json", Facts: 3, Chunks: 3}},
		BuiltAt: builtAt,
	}
	mgr := new(MockCorpusManager)
	mgr.On("Current").Return(corpus)

	h := NewCorpusHandler(mgr, nil)
	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, "/corpus/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp CorpusStatsResponse
	decodeData(t, w, &resp)
	assert.Equal(t, 3, resp.Chunks)
	assert.Equal(t, 1, resp.Topics["leadership"])
	require.Len(t, resp.Sources, 1)
	require.NotNil(t, resp.BuiltAt)
	assert.True(t, builtAt.Equal(*resp.BuiltAt))
}

func TestCorpusHandler_StatsBeforeFirstBuild(t *testing.T) {
	mgr := new(MockCorpusManager)
	mgr.On("Current").Return(nil)

	h := NewCorpusHandler(mgr, nil)
	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, "/corpus/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp CorpusStatsResponse
	decodeData(t, w, &resp)
	assert.Zero(t, resp.Chunks)
	assert.Nil(t, resp.BuiltAt)
}

func TestCorpusHandler_Reload(t *testing.T) {
	mgr := new(MockCorpusManager)
	mgr.On("Reload", mock.Anything).Return(&domain.Corpus{
		Chunks:  schoolChunks[:1],
		Sources: []domain.SourceStats{{Name: "s3://classmate-knowledge/knowledge.json", Error: "knowledge source fetch failed"}},
	})

	h := NewCorpusHandler(mgr, nil)
	w := httptest.NewRecorder()
	h.Reload(w, httptest.NewRequest(http.MethodPost, "/corpus/reload", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp CorpusStatsResponse
	decodeData(t, w, &resp)
	assert.Equal(t, 1, resp.Chunks)
	assert.NotEmpty(t, resp.Sources[0].Error)
	mgr.AssertExpectations(t)
}
