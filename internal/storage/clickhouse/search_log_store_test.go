package clickhouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-market-client/internal/storage"
	chstore "nft-market-client/internal/storage/clickhouse"
)

func searchRecord(op string, ts int64) *storage.SearchRecord {
	return &storage.SearchRecord{
		Operation:   op,
		QueryHash:   "0011223344556677",
		DurationMs:  42,
		ResultCount: 7,
		Timestamp:   ts,
	}
}

func TestSearchLogStore_RoundTrip(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := chstore.NewSearchLogStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, searchRecord("fetch_listings", 300)))
	require.NoError(t, store.Insert(ctx, searchRecord("fetch_listings", 100)))
	require.NoError(t, store.Insert(ctx, searchRecord("count_listings", 200)))

	got, err := store.GetByOperation(ctx, "fetch_listings")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(100), got[0].Timestamp, "ordered by timestamp ASC")
	assert.Equal(t, int64(300), got[1].Timestamp)
	assert.Equal(t, "0011223344556677", got[0].QueryHash)
	assert.Equal(t, int64(42), got[0].DurationMs)
	assert.Equal(t, 7, got[0].ResultCount)
}

func TestSearchLogStore_EmptyOperation(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := chstore.NewSearchLogStore(conn)
	got, err := store.GetByOperation(context.Background(), "never_ran")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchLogStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := chstore.NewSearchLogStore(conn)
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &storage.SearchRecord{}), storage.ErrInvalidInput)
}
