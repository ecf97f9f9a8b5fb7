package repository

import (
	"context"
	"sync"

	"github.com/scholarproof/verification-service/internal/models"
)

// WorkflowStateStore replaces the original single "current workflow"
// singleton with an explicit, injectable store keyed by (user, document).
type WorkflowStateStore interface {
	Get(ctx context.Context, userID, documentID string) (*models.WorkflowState, error)
	Set(ctx context.Context, userID string, state *models.WorkflowState) error
	Clear(ctx context.Context, userID, documentID string) error
	ListByUser(ctx context.Context, userID string) ([]*models.WorkflowState, error)
}

// MemoryWorkflowStore is the default backend, also used in tests.
type MemoryWorkflowStore struct {
	mu     sync.RWMutex
	states map[string]models.WorkflowState
}

func NewMemoryWorkflowStore() *MemoryWorkflowStore {
	return &MemoryWorkflowStore{
		states: make(map[string]models.WorkflowState),
	}
}

func storeKey(userID, documentID string) string {
	return userID + "/" + documentID
}

func (s *MemoryWorkflowStore) Get(ctx context.Context, userID, documentID string) (*models.WorkflowState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[storeKey(userID, documentID)]
	if !ok {
		return nil, ErrStateNotFound
	}

	copied := state
	return &copied, nil
}

func (s *MemoryWorkflowStore) Set(ctx context.Context, userID string, state *models.WorkflowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[storeKey(userID, state.DocumentID)] = *state
	return nil
}

func (s *MemoryWorkflowStore) Clear(ctx context.Context, userID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, storeKey(userID, documentID))
	return nil
}

func (s *MemoryWorkflowStore) ListByUser(ctx context.Context, userID string) ([]*models.WorkflowState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := userID + "/"
	states := make([]*models.WorkflowState, 0)
	for key, state := range s.states {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			copied := state
			states = append(states, &copied)
		}
	}
	return states, nil
}
