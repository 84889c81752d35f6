package clickhouse

import (
	"context"
	"fmt"

	"nft-market-client/internal/storage"
)

// SearchLogStore implements storage.SearchLogStore using ClickHouse.
// Search telemetry is high-volume and append-only, a natural MergeTree fit.
type SearchLogStore struct {
	conn *Conn
}

// NewSearchLogStore creates a new SearchLogStore.
func NewSearchLogStore(conn *Conn) *SearchLogStore {
	return &SearchLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SearchLogStore = (*SearchLogStore)(nil)

// Insert adds one search record.
func (s *SearchLogStore) Insert(ctx context.Context, r *storage.SearchRecord) error {
	if r == nil || r.Operation == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO search_log (
			operation, query_hash, duration_ms, result_count, timestamp_ms
		) VALUES (?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		r.Operation,
		r.QueryHash,
		r.DurationMs,
		int64(r.ResultCount),
		r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert search record: %w", err)
	}
	return nil
}

// GetByOperation retrieves records for one operation, ordered by timestamp ASC.
func (s *SearchLogStore) GetByOperation(ctx context.Context, operation string) ([]*storage.SearchRecord, error) {
	query := `
		SELECT operation, query_hash, duration_ms, result_count, timestamp_ms
		FROM search_log
		WHERE operation = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, operation)
	if err != nil {
		return nil, fmt.Errorf("get search records: %w", err)
	}
	defer rows.Close()

	var result []*storage.SearchRecord
	for rows.Next() {
		var r storage.SearchRecord
		var resultCount int64
		if err := rows.Scan(&r.Operation, &r.QueryHash, &r.DurationMs, &resultCount, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan search record: %w", err)
		}
		r.ResultCount = int(resultCount)
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search records: %w", err)
	}
	return result, nil
}
