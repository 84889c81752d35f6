package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"nft-market-client/internal/domain"
	"nft-market-client/internal/storage"
)

// ActivityStore implements storage.ActivityStore using PostgreSQL.
type ActivityStore struct {
	pool *Pool
}

// NewActivityStore creates a new ActivityStore.
func NewActivityStore(pool *Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ActivityStore = (*ActivityStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if invocation_id exists.
func (s *ActivityStore) Insert(ctx context.Context, r *domain.ActivityRecord) error {
	if r == nil || r.InvocationID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO activity_records (
			invocation_id, workflow, outcome, contract_address, token_id,
			price, expires_at, tx_hash, reason, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		r.InvocationID,
		r.Workflow,
		r.Outcome,
		r.ContractAddress,
		r.TokenID,
		r.Price,
		r.ExpiresAt,
		r.TxHash,
		r.Reason,
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert activity record: %w", err)
	}
	return nil
}

// GetByInvocationID retrieves one record. Returns ErrNotFound if not exists.
func (s *ActivityStore) GetByInvocationID(ctx context.Context, invocationID string) (*domain.ActivityRecord, error) {
	query := `
		SELECT invocation_id, workflow, outcome, contract_address, token_id,
		       price, expires_at, tx_hash, reason, created_at
		FROM activity_records
		WHERE invocation_id = $1
	`

	row := s.pool.QueryRow(ctx, query, invocationID)
	r, err := scanActivityRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get activity record by id: %w", err)
	}
	return r, nil
}

// GetRecent retrieves up to limit records ordered by created_at DESC.
func (s *ActivityStore) GetRecent(ctx context.Context, limit int) ([]*domain.ActivityRecord, error) {
	query := `
		SELECT invocation_id, workflow, outcome, contract_address, token_id,
		       price, expires_at, tx_hash, reason, created_at
		FROM activity_records
		ORDER BY created_at DESC, invocation_id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent activity records: %w", err)
	}
	defer rows.Close()

	var result []*domain.ActivityRecord
	for rows.Next() {
		r, err := scanActivityRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity record: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity records: %w", err)
	}
	return result, nil
}

// scanActivityRecord scans one row into a domain record.
func scanActivityRecord(row pgx.Row) (*domain.ActivityRecord, error) {
	var r domain.ActivityRecord
	err := row.Scan(
		&r.InvocationID,
		&r.Workflow,
		&r.Outcome,
		&r.ContractAddress,
		&r.TokenID,
		&r.Price,
		&r.ExpiresAt,
		&r.TxHash,
		&r.Reason,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
