package storage

import (
	"context"

	"nft-market-client/internal/domain"
)

// ActivityStore persists settled workflow outcomes for the activity view.
type ActivityStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if invocation_id exists.
	Insert(ctx context.Context, r *domain.ActivityRecord) error

	// GetByInvocationID retrieves one record. Returns ErrNotFound if not exists.
	GetByInvocationID(ctx context.Context, invocationID string) (*domain.ActivityRecord, error)

	// GetRecent retrieves up to limit records ordered by created_at DESC.
	GetRecent(ctx context.Context, limit int) ([]*domain.ActivityRecord, error)
}

// SearchRecord is one executed listing search, kept for telemetry.
type SearchRecord struct {
	Operation   string
	QueryHash   string
	DurationMs  int64
	ResultCount int
	Timestamp   int64
}

// SearchLogStore records executed searches. Implementations are best-effort
// sinks; readers must tolerate missing rows.
type SearchLogStore interface {
	// Insert adds one search record.
	Insert(ctx context.Context, r *SearchRecord) error

	// GetByOperation retrieves records for one operation, ordered by timestamp ASC.
	GetByOperation(ctx context.Context, operation string) ([]*SearchRecord, error)
}
