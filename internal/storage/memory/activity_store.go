package memory

import (
	"context"
	"sort"
	"sync"

	"nft-market-client/internal/domain"
	"nft-market-client/internal/storage"
)

// ActivityStore is an in-memory implementation of storage.ActivityStore.
type ActivityStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ActivityRecord // keyed by invocation_id
}

// NewActivityStore creates a new in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		data: make(map[string]*domain.ActivityRecord),
	}
}

// Compile-time interface check.
var _ storage.ActivityStore = (*ActivityStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if invocation_id exists.
func (s *ActivityStore) Insert(_ context.Context, r *domain.ActivityRecord) error {
	if r == nil || r.InvocationID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.InvocationID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	recordCopy := *r
	s.data[r.InvocationID] = &recordCopy
	return nil
}

// GetByInvocationID retrieves one record. Returns ErrNotFound if not exists.
func (s *ActivityStore) GetByInvocationID(_ context.Context, invocationID string) (*domain.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[invocationID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *r
	return &recordCopy, nil
}

// GetRecent retrieves up to limit records ordered by created_at DESC.
func (s *ActivityStore) GetRecent(_ context.Context, limit int) ([]*domain.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ActivityRecord, 0, len(s.data))
	for _, r := range s.data {
		recordCopy := *r
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].InvocationID > result[j].InvocationID
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}
