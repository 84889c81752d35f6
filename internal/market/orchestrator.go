// Package market orchestrates the order lifecycle workflows: fetch orders,
// create order, execute order.
//
// Each workflow is stateless between invocations and always settles in
// exactly one dispatched outcome. Failures never escape the workflow
// boundary; every error becomes a failure event carrying the original intent
// parameters and a displayable reason. There is no retry, no de-duplication
// of concurrent intents and no cancellation once a contract write is issued:
// the chain arbitrates conflicting writes.
package market

import (
	"context"
	"log"

	"github.com/google/uuid"

	"nft-market-client/internal/domain"
	"nft-market-client/internal/observability"
)

// Failure reasons detected before any external call.
const (
	reasonNoWallet      = "invalid address: wallet must be connected"
	reasonOrderMismatch = "the order does not match the NFT"
)

// Orchestrator runs the order lifecycle workflows.
type Orchestrator struct {
	fetcher    Fetcher
	wallet     Wallet
	exchange   Exchange
	navigator  Navigator
	dispatcher Dispatcher

	metrics *observability.Metrics
	logger  *log.Logger
	verbose bool

	newID func() string
}

// Options for creating Orchestrator.
type Options struct {
	// Required collaborators
	Fetcher    Fetcher
	Wallet     Wallet
	Exchange   Exchange
	Navigator  Navigator
	Dispatcher Dispatcher

	// Optional
	Metrics *observability.Metrics
	Logger  *log.Logger
	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[market] ", log.LstdFlags)
	}
	return &Orchestrator{
		fetcher:    opts.Fetcher,
		wallet:     opts.Wallet,
		exchange:   opts.Exchange,
		navigator:  opts.Navigator,
		dispatcher: opts.Dispatcher,
		metrics:    opts.Metrics,
		logger:     logger,
		verbose:    opts.Verbose,
		newID:      uuid.NewString,
	}
}

// FetchOrders runs the fetch workflow: merge options over defaults, query
// the repository for the (orders, nfts) pair, dispatch the outcome. The
// dispatched options are always the effective (merged) ones.
func (o *Orchestrator) FetchOrders(ctx context.Context, opts FetchOptions) Event {
	id := o.newID()
	effective := opts.withDefaults()

	orders, nfts, err := o.fetcher.FetchOrders(ctx, effective.params())
	if err != nil {
		return o.settle(ctx, FetchFailure{
			InvocationID: id,
			Options:      effective,
			Reason:       err.Error(),
		})
	}

	o.log("fetch: %d orders, %d nfts", len(orders), len(nfts))
	return o.settle(ctx, FetchSuccess{
		InvocationID: id,
		Options:      effective,
		Orders:       orders,
		NFTs:         nfts,
	})
}

// CreateOrder runs the create workflow: wallet precondition, price
// conversion, one contract write, outcome dispatch, post-success navigation.
func (o *Orchestrator) CreateOrder(ctx context.Context, intent CreateOrderIntent) Event {
	id := o.newID()

	fail := func(reason string) Event {
		return o.settle(ctx, CreateFailure{
			InvocationID: id,
			NFT:          intent.NFT,
			Price:        intent.Price,
			ExpiresAt:    intent.ExpiresAt,
			Reason:       reason,
		})
	}

	if intent.NFT == nil {
		return fail("missing NFT")
	}

	address, err := o.connectedAddress(ctx)
	if err != nil {
		return fail(err.Error())
	}

	wei, err := ToWei(intent.Price)
	if err != nil {
		return fail(err.Error())
	}

	txHash, err := o.exchange.CreateOrder(ctx, address, intent.NFT.ContractAddress, intent.NFT.TokenID, wei, intent.ExpiresAt)
	if err != nil {
		return fail(err.Error())
	}
	if o.metrics != nil {
		o.metrics.TransactionsSubmitted.Inc()
	}

	ev := o.settle(ctx, CreateSuccess{
		InvocationID: id,
		NFT:          intent.NFT,
		Price:        intent.Price,
		ExpiresAt:    intent.ExpiresAt,
		TxHash:       txHash,
	})
	o.navigator.GoToActivity(ctx)
	return ev
}

// ExecuteOrder runs the execute workflow: identity and wallet preconditions,
// then the safe (fingerprinted) or plain execution write. A caller-supplied
// fingerprint is never dropped in favor of the cheaper path.
func (o *Orchestrator) ExecuteOrder(ctx context.Context, intent ExecuteOrderIntent) Event {
	id := o.newID()

	fail := func(reason string) Event {
		return o.settle(ctx, ExecuteFailure{
			InvocationID: id,
			Order:        intent.Order,
			NFT:          intent.NFT,
			Reason:       reason,
		})
	}

	if intent.Order == nil || intent.NFT == nil || intent.Order.NFTID != intent.NFT.ID {
		return fail(reasonOrderMismatch)
	}

	address, err := o.connectedAddress(ctx)
	if err != nil {
		return fail(err.Error())
	}

	var txHash string
	if intent.Fingerprint != "" {
		txHash, err = o.exchange.SafeExecuteOrder(ctx, address, intent.NFT.ContractAddress, intent.NFT.TokenID, intent.Order.Price, intent.Fingerprint)
	} else {
		txHash, err = o.exchange.ExecuteOrder(ctx, address, intent.NFT.ContractAddress, intent.NFT.TokenID, intent.Order.Price)
	}
	if err != nil {
		return fail(err.Error())
	}
	if o.metrics != nil {
		o.metrics.TransactionsSubmitted.Inc()
	}

	ev := o.settle(ctx, ExecuteSuccess{
		InvocationID: id,
		Order:        intent.Order,
		NFT:          intent.NFT,
		TxHash:       txHash,
	})
	o.navigator.GoToActivity(ctx)
	return ev
}

// connectedAddress reads the wallet snapshot, folding "no wallet" into an
// error so workflows have a single precondition check.
func (o *Orchestrator) connectedAddress(ctx context.Context) (string, error) {
	address, err := o.wallet.ConnectedAddress(ctx)
	if err != nil {
		return "", err
	}
	if address == "" {
		return "", errNoWallet{}
	}
	return address, nil
}

type errNoWallet struct{}

func (errNoWallet) Error() string { return reasonNoWallet }

// settle dispatches the terminal outcome and returns it.
func (o *Orchestrator) settle(ctx context.Context, ev Event) Event {
	if o.metrics != nil {
		outcome := domain.OutcomeFailure
		if ev.Succeeded() {
			outcome = domain.OutcomeSuccess
		}
		o.metrics.WorkflowOutcomes.WithLabelValues(ev.Workflow(), outcome).Inc()
	}
	o.dispatcher.Dispatch(ctx, ev)
	return ev
}

func (o *Orchestrator) log(format string, args ...any) {
	if o.verbose {
		o.logger.Printf(format, args...)
	}
}
