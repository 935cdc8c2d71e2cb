package service

import (
	"context"
	"testing"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_Lifecycle(t *testing.T) {
	m := NewSessionManager(&SessionDeps{Corpus: schoolCorpus}, 0, nil)
	m.uuidGen = &fixedUUID{ids: []string{"s-1", "s-2"}}

	s := m.Create(thandi, 0)
	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, DefaultResponseLength, s.Info().ResponseLength)

	short := m.Create(domain.Learner{Name: "Sipho"}, 20)
	assert.Equal(t, MinResponseLength, short.Info().ResponseLength)
	assert.Equal(t, 2, m.Len())

	got, err := m.Get("s-1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Delete("s-1"))
	_, err = m.Get("s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete("s-1"), domain.ErrSessionNotFound)
	assert.Equal(t, 1, m.Len())
}

func TestSessionManager_Expire(t *testing.T) {
	start := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	m := NewSessionManager(&SessionDeps{Corpus: schoolCorpus}, time.Hour, nil)
	m.uuidGen = &fixedUUID{ids: []string{"old", "fresh"}}

	m.now = fixedClock(start)
	m.Create(thandi, 0)
	m.now = fixedClock(start.Add(50 * time.Minute))
	m.Create(thandi, 0)

	m.now = fixedClock(start.Add(90 * time.Minute))
	require.NoError(t, m.ProcessJobs(context.Background()))

	assert.Equal(t, 1, m.Len())
	_, err := m.Get("fresh")
	assert.NoError(t, err)
}
