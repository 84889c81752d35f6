// Package listing is the read-side repository over the marketplace indexing
// service. It translates compiled queries into typed records and nothing
// more: no retries, no caching, transport failures surface to the caller.
package listing

import (
	"context"
	"log"
	"time"

	"nft-market-client/internal/domain"
	"nft-market-client/internal/graph"
	"nft-market-client/internal/observability"
	"nft-market-client/internal/query"
	"nft-market-client/internal/storage"
)

// Operation names used for telemetry.
const (
	opFetchCollections = "fetch_collections"
	opFetchListings    = "fetch_listings"
	opCountListings    = "count_listings"
	opFetchOne         = "fetch_one"
	opFetchOrders      = "fetch_orders"
)

// Repository executes listing reads against the indexing service.
type Repository struct {
	executor  graph.Executor
	compiler  *query.Compiler
	searchLog storage.SearchLogStore
	metrics   *observability.Metrics
	logger    *log.Logger
}

// Option configures Repository.
type Option func(*Repository)

// WithSearchLog records executed searches to the given store. Recording is
// best-effort: failures are logged and never returned to readers.
func WithSearchLog(store storage.SearchLogStore) Option {
	return func(r *Repository) {
		r.searchLog = store
	}
}

// WithMetrics enables per-operation Prometheus metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Repository) {
		r.metrics = m
	}
}

// WithLogger sets the logger used for telemetry warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Repository) {
		r.logger = l
	}
}

// NewRepository creates a Repository over the given transport and compiler.
func NewRepository(executor graph.Executor, compiler *query.Compiler, opts ...Option) *Repository {
	r := &Repository{
		executor: executor,
		compiler: compiler,
		logger:   log.New(log.Writer(), "[listing] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchCollections retrieves every collection known to the indexer.
func (r *Repository) FetchCollections(ctx context.Context) ([]*domain.Collection, error) {
	q := query.CollectionsQuery()

	data, elapsed, err := r.execute(ctx, opFetchCollections, q)
	if err != nil {
		return nil, err
	}

	var records []collectionRecord
	if err := decodeField(data, "collections", &records); err != nil {
		return nil, err
	}

	collections := make([]*domain.Collection, len(records))
	for i := range records {
		collections[i] = records[i].toDomain()
	}

	r.record(ctx, opFetchCollections, q, elapsed, len(collections))
	return collections, nil
}

// FetchListings retrieves NFT listings matching the search request.
func (r *Repository) FetchListings(ctx context.Context, p query.Params, f query.Filters) ([]*domain.NFT, error) {
	q := r.compiler.Compile(p, f, false)

	data, elapsed, err := r.execute(ctx, opFetchListings, q)
	if err != nil {
		return nil, err
	}

	var records []nftRecord
	if err := decodeField(data, "nfts", &records); err != nil {
		return nil, err
	}

	nfts := make([]*domain.NFT, len(records))
	for i := range records {
		nfts[i] = records[i].toDomain()
	}

	r.record(ctx, opFetchListings, q, elapsed, len(nfts))
	return nfts, nil
}

// CountListings counts listings matching the search request using the
// identifier-only projection.
func (r *Repository) CountListings(ctx context.Context, p query.Params, f query.Filters) (int, error) {
	q := r.compiler.Compile(p, f, true)

	data, elapsed, err := r.execute(ctx, opCountListings, q)
	if err != nil {
		return 0, err
	}

	var records []idRecord
	if err := decodeField(data, "nfts", &records); err != nil {
		return 0, err
	}

	r.record(ctx, opCountListings, q, elapsed, len(records))
	return len(records), nil
}

// FetchOne retrieves a single NFT by contract address and token id.
// Returns storage.ErrNotFound when the indexer has no such record.
func (r *Repository) FetchOne(ctx context.Context, contractAddress, tokenID string) (*domain.NFT, error) {
	q := query.NFTByTokenQuery(contractAddress, tokenID)

	data, elapsed, err := r.execute(ctx, opFetchOne, q)
	if err != nil {
		return nil, err
	}

	var records []nftRecord
	if err := decodeField(data, "nfts", &records); err != nil {
		return nil, err
	}

	r.record(ctx, opFetchOne, q, elapsed, len(records))
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records[0].toDomain(), nil
}

// FetchOrders retrieves open orders and their backing NFTs as a paired
// result, as consumed by the fetch workflow.
func (r *Repository) FetchOrders(ctx context.Context, p query.Params) ([]*domain.Order, []*domain.NFT, error) {
	q := r.compiler.CompileOrders(p)

	data, elapsed, err := r.execute(ctx, opFetchOrders, q)
	if err != nil {
		return nil, nil, err
	}

	var records []orderRecord
	if err := decodeField(data, "orders", &records); err != nil {
		return nil, nil, err
	}

	orders := make([]*domain.Order, 0, len(records))
	nfts := make([]*domain.NFT, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return nil, nil, err
		}
		orders = append(orders, order)
		if records[i].NFT != nil {
			nfts = append(nfts, records[i].NFT.toDomain())
		}
	}

	r.record(ctx, opFetchOrders, q, elapsed, len(orders))
	return orders, nfts, nil
}

// execute runs one compiled query. Single attempt; the transport error is
// returned unchanged so callers see exactly what the service reported.
func (r *Repository) execute(ctx context.Context, operation string, q query.CompiledQuery) (graph.Data, time.Duration, error) {
	start := time.Now()
	data, err := r.executor.Execute(ctx, graph.Request{Query: q.Query, Variables: q.Variables})
	elapsed := time.Since(start)

	if r.metrics != nil {
		r.metrics.QueriesExecuted.WithLabelValues(operation).Inc()
		r.metrics.QueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
		if err != nil {
			r.metrics.QueryErrors.WithLabelValues(operation).Inc()
		}
	}

	return data, elapsed, err
}

// record persists one search telemetry row, best-effort.
func (r *Repository) record(ctx context.Context, operation string, q query.CompiledQuery, elapsed time.Duration, count int) {
	if r.searchLog == nil {
		return
	}
	rec := &storage.SearchRecord{
		Operation:   operation,
		QueryHash:   q.Hash(),
		DurationMs:  elapsed.Milliseconds(),
		ResultCount: count,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := r.searchLog.Insert(ctx, rec); err != nil {
		r.logger.Printf("search log insert failed: %v", err)
	}
}
