package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-market-client/internal/storage"
)

func searchRecord(op string, ts int64) *storage.SearchRecord {
	return &storage.SearchRecord{
		Operation:   op,
		QueryHash:   "abc123",
		DurationMs:  12,
		ResultCount: 5,
		Timestamp:   ts,
	}
}

func TestSearchLogStore_InsertAndGet(t *testing.T) {
	s := NewSearchLogStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, searchRecord("fetch_listings", 300)))
	require.NoError(t, s.Insert(ctx, searchRecord("fetch_listings", 100)))
	require.NoError(t, s.Insert(ctx, searchRecord("count_listings", 200)))

	got, err := s.GetByOperation(ctx, "fetch_listings")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(100), got[0].Timestamp, "records ordered by timestamp ASC")
	assert.Equal(t, int64(300), got[1].Timestamp)
}

func TestSearchLogStore_InvalidInput(t *testing.T) {
	s := NewSearchLogStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, s.Insert(ctx, &storage.SearchRecord{}), storage.ErrInvalidInput)
}

func TestSearchLogStore_EmptyOperation(t *testing.T) {
	s := NewSearchLogStore()
	got, err := s.GetByOperation(context.Background(), "never_ran")
	require.NoError(t, err)
	assert.Empty(t, got)
}
