package market

import (
	"context"
	"math/big"

	"nft-market-client/internal/domain"
	"nft-market-client/internal/query"
)

// FetchOptions are the fetch workflow's options. Zero-valued fields fall back
// to DefaultFetchOptions; caller-supplied fields always win (shallow merge).
type FetchOptions struct {
	First          int
	Skip           int
	OrderBy        string
	OrderDirection string
}

// DefaultFetchOptions is the documented defaults object for the fetch
// workflow.
var DefaultFetchOptions = FetchOptions{
	First:          24,
	Skip:           0,
	OrderBy:        "createdAt",
	OrderDirection: "desc",
}

// withDefaults merges o over DefaultFetchOptions.
func (o FetchOptions) withDefaults() FetchOptions {
	merged := DefaultFetchOptions
	if o.First != 0 {
		merged.First = o.First
	}
	if o.Skip != 0 {
		merged.Skip = o.Skip
	}
	if o.OrderBy != "" {
		merged.OrderBy = o.OrderBy
	}
	if o.OrderDirection != "" {
		merged.OrderDirection = o.OrderDirection
	}
	return merged
}

// params converts the options into repository search parameters.
func (o FetchOptions) params() query.Params {
	return query.Params{
		First:          o.First,
		Skip:           o.Skip,
		OrderBy:        o.OrderBy,
		OrderDirection: o.OrderDirection,
	}
}

// CreateOrderIntent asks to list an NFT for sale.
type CreateOrderIntent struct {
	NFT *domain.NFT

	// Price in whole currency units, decimal string (converted to wei at
	// ether scale before submission).
	Price string

	// ExpiresAt is a millisecond unix timestamp.
	ExpiresAt int64
}

// ExecuteOrderIntent asks to buy an existing sale listing.
type ExecuteOrderIntent struct {
	Order *domain.Order
	NFT   *domain.NFT

	// Fingerprint is an optional content hash of the NFT's current state.
	// When set, the safe execution path binds the transaction to it so a
	// state change since the price was quoted rejects the trade.
	Fingerprint string
}

// Event is one dispatched workflow outcome. Every workflow invocation
// terminates in exactly one Event, success or failure.
type Event interface {
	// Workflow names the originating workflow.
	Workflow() string
	// Succeeded reports whether this is a success outcome.
	Succeeded() bool
}

// FetchSuccess carries the effective options plus both result sets.
type FetchSuccess struct {
	InvocationID string
	Options      FetchOptions
	Orders       []*domain.Order
	NFTs         []*domain.NFT
}

// FetchFailure carries the effective options plus the failure reason.
type FetchFailure struct {
	InvocationID string
	Options      FetchOptions
	Reason       string
}

// CreateSuccess carries the original intent parameters and the tx handle.
type CreateSuccess struct {
	InvocationID string
	NFT          *domain.NFT
	Price        string
	ExpiresAt    int64
	TxHash       string
}

// CreateFailure carries the original intent parameters and the reason.
type CreateFailure struct {
	InvocationID string
	NFT          *domain.NFT
	Price        string
	ExpiresAt    int64
	Reason       string
}

// ExecuteSuccess carries the order, the NFT and the tx handle.
type ExecuteSuccess struct {
	InvocationID string
	Order        *domain.Order
	NFT          *domain.NFT
	TxHash       string
}

// ExecuteFailure carries the order, the NFT and the reason.
type ExecuteFailure struct {
	InvocationID string
	Order        *domain.Order
	NFT          *domain.NFT
	Reason       string
}

func (FetchSuccess) Workflow() string   { return domain.WorkflowFetch }
func (FetchFailure) Workflow() string   { return domain.WorkflowFetch }
func (CreateSuccess) Workflow() string  { return domain.WorkflowCreate }
func (CreateFailure) Workflow() string  { return domain.WorkflowCreate }
func (ExecuteSuccess) Workflow() string { return domain.WorkflowExecute }
func (ExecuteFailure) Workflow() string { return domain.WorkflowExecute }

func (FetchSuccess) Succeeded() bool   { return true }
func (FetchFailure) Succeeded() bool   { return false }
func (CreateSuccess) Succeeded() bool  { return true }
func (CreateFailure) Succeeded() bool  { return false }
func (ExecuteSuccess) Succeeded() bool { return true }
func (ExecuteFailure) Succeeded() bool { return false }

// Dispatcher consumes workflow outcomes. Dispatch is called exactly once per
// invocation, strictly before any navigation side effect.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// Navigator performs the single post-success navigation side effect.
type Navigator interface {
	GoToActivity(ctx context.Context)
}

// Wallet is the connected-address accessor. An empty address with nil error
// means no wallet is connected. The read is an external snapshot, not a lock.
type Wallet interface {
	ConnectedAddress(ctx context.Context) (string, error)
}

// Exchange submits marketplace contract writes authorized by the from
// address, returning the transaction handle immediately on submission.
// Mining and confirmation are never awaited here.
type Exchange interface {
	CreateOrder(ctx context.Context, from, nftAddress, tokenID string, price *big.Int, expiresAt int64) (string, error)
	ExecuteOrder(ctx context.Context, from, nftAddress, tokenID string, price *big.Int) (string, error)
	SafeExecuteOrder(ctx context.Context, from, nftAddress, tokenID string, price *big.Int, fingerprint string) (string, error)
}

// Fetcher is the repository surface the fetch workflow needs.
// *listing.Repository satisfies it.
type Fetcher interface {
	FetchOrders(ctx context.Context, p query.Params) ([]*domain.Order, []*domain.NFT, error)
}
