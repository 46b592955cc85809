package platform

import (
	"context"
	"sync"

	"voicedash/internal/domain"
)

// PermissionStore implements the host permission surface. Deployments
// pre-grant or hard-deny permissions through configuration; everything else
// starts undetermined and is granted on request.
type PermissionStore struct {
	mu     sync.Mutex
	states map[domain.Permission]domain.PermissionState
	denied map[domain.Permission]bool
}

func NewPermissionStore(granted, denied []domain.Permission) *PermissionStore {
	store := &PermissionStore{
		states: make(map[domain.Permission]domain.PermissionState),
		denied: make(map[domain.Permission]bool),
	}
	for _, p := range granted {
		store.states[p] = domain.PermissionGranted
	}
	for _, p := range denied {
		store.states[p] = domain.PermissionDenied
		store.denied[p] = true
	}
	return store
}

func (s *PermissionStore) Check(permission domain.Permission) domain.PermissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[permission]; ok {
		return state
	}
	return domain.PermissionNotDetermined
}

func (s *PermissionStore) Request(_ context.Context, permissions []domain.Permission) map[domain.Permission]domain.PermissionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make(map[domain.Permission]domain.PermissionState, len(permissions))
	for _, p := range permissions {
		if s.denied[p] {
			results[p] = domain.PermissionDenied
			continue
		}
		s.states[p] = domain.PermissionGranted
		results[p] = domain.PermissionGranted
	}
	return results
}
