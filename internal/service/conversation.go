package service

import (
	"context"
	"sync"

	"github.com/cloo-solutions/classmate/internal/domain"
)

// ConversationStore keeps periodic conversation summaries per learner.
type ConversationStore interface {
	SaveSummary(ctx context.Context, summary *domain.ConversationSummary) error
	// ListSummaries returns a learner's summaries, newest first.
	ListSummaries(ctx context.Context, user string, limit int) ([]*domain.ConversationSummary, error)
}

// MemoryConversationStore is the ConversationStore used without a database.
type MemoryConversationStore struct {
	mu        sync.RWMutex
	summaries map[string][]*domain.ConversationSummary
	uuidGen   UUIDGenerator
}

func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		summaries: make(map[string][]*domain.ConversationSummary),
		uuidGen:   &DefaultUUIDGenerator{},
	}
}

func (s *MemoryConversationStore) SaveSummary(ctx context.Context, summary *domain.ConversationSummary) error {
	if summary.User == "" {
		return domain.ErrMissingRequiredField
	}
	if summary.ID == "" {
		summary.ID = s.uuidGen.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *summary
	s.summaries[summary.User] = append(s.summaries[summary.User], &stored)
	return nil
}

func (s *MemoryConversationStore) ListSummaries(ctx context.Context, user string, limit int) ([]*domain.ConversationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.summaries[user]
	out := make([]*domain.ConversationSummary, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		c := *all[i]
		out = append(out, &c)
	}
	return out, nil
}
