package market

import (
	"context"
	"log"
	"time"

	"nft-market-client/internal/domain"
	"nft-market-client/internal/storage"
)

// StoreDispatcher persists create/execute outcomes to the activity store
// backing the activity view. Fetch outcomes are read-only and only logged.
// Persistence is best-effort: a store failure must not fail the workflow,
// whose outcome is already settled by the time Dispatch runs.
type StoreDispatcher struct {
	store  storage.ActivityStore
	logger *log.Logger
	now    func() time.Time
}

// NewStoreDispatcher creates a StoreDispatcher over the given store.
func NewStoreDispatcher(store storage.ActivityStore, logger *log.Logger) *StoreDispatcher {
	if logger == nil {
		logger = log.New(log.Writer(), "[activity] ", log.LstdFlags)
	}
	return &StoreDispatcher{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Compile-time interface check.
var _ Dispatcher = (*StoreDispatcher)(nil)

// Dispatch records the outcome.
func (d *StoreDispatcher) Dispatch(ctx context.Context, ev Event) {
	rec := d.toRecord(ev)
	if rec == nil {
		return
	}
	if err := d.store.Insert(ctx, rec); err != nil {
		d.logger.Printf("record %s %s outcome: %v", rec.Workflow, rec.Outcome, err)
	}
}

// toRecord maps an event to its activity record. Returns nil for events that
// are not persisted.
func (d *StoreDispatcher) toRecord(ev Event) *domain.ActivityRecord {
	now := d.now().UnixMilli()

	switch e := ev.(type) {
	case CreateSuccess:
		return &domain.ActivityRecord{
			InvocationID:    e.InvocationID,
			Workflow:        domain.WorkflowCreate,
			Outcome:         domain.OutcomeSuccess,
			ContractAddress: e.NFT.ContractAddress,
			TokenID:         e.NFT.TokenID,
			Price:           e.Price,
			ExpiresAt:       e.ExpiresAt,
			TxHash:          e.TxHash,
			CreatedAt:       now,
		}
	case CreateFailure:
		rec := &domain.ActivityRecord{
			InvocationID: e.InvocationID,
			Workflow:     domain.WorkflowCreate,
			Outcome:      domain.OutcomeFailure,
			Price:        e.Price,
			ExpiresAt:    e.ExpiresAt,
			Reason:       e.Reason,
			CreatedAt:    now,
		}
		if e.NFT != nil {
			rec.ContractAddress = e.NFT.ContractAddress
			rec.TokenID = e.NFT.TokenID
		}
		return rec
	case ExecuteSuccess:
		return &domain.ActivityRecord{
			InvocationID:    e.InvocationID,
			Workflow:        domain.WorkflowExecute,
			Outcome:         domain.OutcomeSuccess,
			ContractAddress: e.NFT.ContractAddress,
			TokenID:         e.NFT.TokenID,
			Price:           e.Order.Price.String(),
			ExpiresAt:       e.Order.ExpiresAt,
			TxHash:          e.TxHash,
			CreatedAt:       now,
		}
	case ExecuteFailure:
		rec := &domain.ActivityRecord{
			InvocationID: e.InvocationID,
			Workflow:     domain.WorkflowExecute,
			Outcome:      domain.OutcomeFailure,
			Reason:       e.Reason,
			CreatedAt:    now,
		}
		if e.NFT != nil {
			rec.ContractAddress = e.NFT.ContractAddress
			rec.TokenID = e.NFT.TokenID
		}
		if e.Order != nil && e.Order.Price != nil {
			rec.Price = e.Order.Price.String()
			rec.ExpiresAt = e.Order.ExpiresAt
		}
		return rec
	case FetchSuccess:
		d.logger.Printf("fetch succeeded: %d orders", len(e.Orders))
		return nil
	case FetchFailure:
		d.logger.Printf("fetch failed: %s", e.Reason)
		return nil
	}
	return nil
}
