// Package stub provides in-memory market collaborators for tests and dry
// runs. All stubs count their calls so interaction tests can assert that a
// collaborator was, or was not, invoked.
package stub

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"nft-market-client/internal/domain"
	"nft-market-client/internal/market"
	"nft-market-client/internal/query"
)

// Wallet implements market.Wallet with a fixed address.
type Wallet struct {
	Address string
	Err     error
	Calls   int
}

// ConnectedAddress returns the configured address.
func (w *Wallet) ConnectedAddress(_ context.Context) (string, error) {
	w.Calls++
	if w.Err != nil {
		return "", w.Err
	}
	return w.Address, nil
}

// Exchange implements market.Exchange, recording every submission.
type Exchange struct {
	TxHash string
	Err    error

	CreateCalls      int
	ExecuteCalls     int
	SafeExecuteCalls int

	LastFrom        string
	LastNFTAddress  string
	LastTokenID     string
	LastPrice       *big.Int
	LastExpiresAt   int64
	LastFingerprint string
}

// CreateOrder records the call and returns the configured handle.
func (e *Exchange) CreateOrder(_ context.Context, from, nftAddress, tokenID string, price *big.Int, expiresAt int64) (string, error) {
	e.CreateCalls++
	e.LastFrom, e.LastNFTAddress, e.LastTokenID = from, nftAddress, tokenID
	e.LastPrice, e.LastExpiresAt = price, expiresAt
	if e.Err != nil {
		return "", e.Err
	}
	return e.txHash(), nil
}

// ExecuteOrder records the call and returns the configured handle.
func (e *Exchange) ExecuteOrder(_ context.Context, from, nftAddress, tokenID string, price *big.Int) (string, error) {
	e.ExecuteCalls++
	e.LastFrom, e.LastNFTAddress, e.LastTokenID = from, nftAddress, tokenID
	e.LastPrice = price
	if e.Err != nil {
		return "", e.Err
	}
	return e.txHash(), nil
}

// SafeExecuteOrder records the call and returns the configured handle.
func (e *Exchange) SafeExecuteOrder(_ context.Context, from, nftAddress, tokenID string, price *big.Int, fingerprint string) (string, error) {
	e.SafeExecuteCalls++
	e.LastFrom, e.LastNFTAddress, e.LastTokenID = from, nftAddress, tokenID
	e.LastPrice, e.LastFingerprint = price, fingerprint
	if e.Err != nil {
		return "", e.Err
	}
	return e.txHash(), nil
}

func (e *Exchange) txHash() string {
	if e.TxHash != "" {
		return e.TxHash
	}
	return fmt.Sprintf("0xstub%04d", e.CreateCalls+e.ExecuteCalls+e.SafeExecuteCalls)
}

// Navigator implements market.Navigator, counting navigations.
type Navigator struct {
	Calls int
}

// GoToActivity counts the navigation.
func (n *Navigator) GoToActivity(_ context.Context) {
	n.Calls++
}

// Recorder implements market.Dispatcher, capturing dispatched events in
// order.
type Recorder struct {
	mu     sync.Mutex
	Events []market.Event

	// NavCallsAtDispatch snapshots the paired navigator's call count at
	// each dispatch, to assert dispatch-before-navigate ordering.
	Navigator          *Navigator
	NavCallsAtDispatch []int
}

// Dispatch appends the event.
func (r *Recorder) Dispatch(_ context.Context, ev market.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
	if r.Navigator != nil {
		r.NavCallsAtDispatch = append(r.NavCallsAtDispatch, r.Navigator.Calls)
	}
}

// Fetcher implements market.Fetcher with canned results.
type Fetcher struct {
	Orders []*domain.Order
	NFTs   []*domain.NFT
	Err    error

	Calls      int
	LastParams query.Params
}

// FetchOrders returns the canned pair.
func (f *Fetcher) FetchOrders(_ context.Context, p query.Params) ([]*domain.Order, []*domain.NFT, error) {
	f.Calls++
	f.LastParams = p
	if f.Err != nil {
		return nil, nil, f.Err
	}
	return f.Orders, f.NFTs, nil
}
