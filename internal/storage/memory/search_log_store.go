package memory

import (
	"context"
	"sort"
	"sync"

	"nft-market-client/internal/storage"
)

// SearchLogStore is an in-memory implementation of storage.SearchLogStore.
type SearchLogStore struct {
	mu   sync.RWMutex
	data []*storage.SearchRecord
}

// NewSearchLogStore creates a new in-memory search log store.
func NewSearchLogStore() *SearchLogStore {
	return &SearchLogStore{}
}

// Compile-time interface check.
var _ storage.SearchLogStore = (*SearchLogStore)(nil)

// Insert adds one search record.
func (s *SearchLogStore) Insert(_ context.Context, r *storage.SearchRecord) error {
	if r == nil || r.Operation == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *r
	s.data = append(s.data, &recordCopy)
	return nil
}

// GetByOperation retrieves records for one operation, ordered by timestamp ASC.
func (s *SearchLogStore) GetByOperation(_ context.Context, operation string) ([]*storage.SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.SearchRecord
	for _, r := range s.data {
		if r.Operation == operation {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result, nil
}
