// Package main provides the browse CLI: search, count and inspect NFT
// listings through the marketplace indexing service, and optionally watch
// the live order event feed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"nft-market-client/internal/contracts"
	"nft-market-client/internal/domain"
	"nft-market-client/internal/graph"
	"nft-market-client/internal/listing"
	"nft-market-client/internal/observability"
	"nft-market-client/internal/query"
	"nft-market-client/internal/storage"
	chstore "nft-market-client/internal/storage/clickhouse"
	"nft-market-client/internal/storage/memory"
	"nft-market-client/internal/storage/migrations"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	graphEndpoint := flag.String("graph-endpoint", os.Getenv("GRAPH_ENDPOINT"), "Marketplace indexer GraphQL endpoint")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("GRAPH_WS_ENDPOINT"), "Marketplace indexer websocket endpoint (for --op watch)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse DSN for search telemetry (optional)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (optional)")

	op := flag.String("op", "search", "Operation: collections, search, count, get, orders, watch")

	search := flag.String("search", "", "Free text search")
	first := flag.Int("first", 24, "Page size")
	skip := flag.Int("skip", 0, "Page offset")
	orderBy := flag.String("order-by", "createdAt", "Sort field")
	orderDirection := flag.String("order-direction", "desc", "Sort direction: asc, desc")
	onSale := flag.Bool("on-sale", false, "Only listings with an open, unexpired order")
	owner := flag.String("owner", "", "Filter by owner address")
	category := flag.String("category", "", "Wearable category (hat, mask, ...)")
	head := flag.Bool("head", false, "Only head wearables")
	accessory := flag.Bool("accessory", false, "Only accessory wearables")
	rarities := flag.String("rarities", "", "Comma-separated wearable rarities")
	genders := flag.String("genders", "", "Comma-separated wearable genders (male, female)")
	collections := flag.String("collections", "", "Comma-separated collection contract names")

	contract := flag.String("contract", "", "Contract address (for --op get)")
	token := flag.String("token", "", "Token id (for --op get)")

	flag.Parse()

	logger := log.New(os.Stdout, "[browse] ", log.LstdFlags)

	if *graphEndpoint == "" {
		logger.Fatal("--graph-endpoint is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("")
		go serveMetrics(logger, *metricsAddr)
	}

	searchLog, cleanup, err := createSearchLog(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("Failed to create search log: %v", err)
	}
	defer cleanup()

	opts := []listing.Option{listing.WithSearchLog(searchLog)}
	if metrics != nil {
		opts = append(opts, listing.WithMetrics(metrics))
	}
	repo := listing.NewRepository(
		graph.NewClient(*graphEndpoint),
		query.NewCompiler(contracts.Mainnet()),
		opts...,
	)

	params := query.Params{
		First:          *first,
		Skip:           *skip,
		OrderBy:        *orderBy,
		OrderDirection: *orderDirection,
		OnlyOnSale:     *onSale,
		Search:         *search,
		Address:        *owner,
	}
	filters := query.Filters{
		WearableCategory:    *category,
		IsWearableHead:      *head,
		IsWearableAccessory: *accessory,
		WearableRarities:    parseRarities(*rarities),
		WearableGenders:     parseGenders(*genders),
		Contracts:           parseContracts(*collections),
	}

	switch *op {
	case "collections":
		result, err := repo.FetchCollections(ctx)
		exitOn(logger, err)
		printJSON(result)
	case "search":
		result, err := repo.FetchListings(ctx, params, filters)
		exitOn(logger, err)
		printJSON(result)
	case "count":
		count, err := repo.CountListings(ctx, params, filters)
		exitOn(logger, err)
		fmt.Println(count)
	case "get":
		if *contract == "" || *token == "" {
			logger.Fatal("--contract and --token are required for --op get")
		}
		nft, err := repo.FetchOne(ctx, *contract, *token)
		if errors.Is(err, storage.ErrNotFound) {
			logger.Fatalf("No NFT %s/%s", *contract, *token)
		}
		exitOn(logger, err)
		printJSON(nft)
	case "orders":
		orders, nfts, err := repo.FetchOrders(ctx, params)
		exitOn(logger, err)
		printJSON(map[string]any{"orders": orders, "nfts": nfts})
	case "watch":
		if *wsEndpoint == "" {
			logger.Fatal("--ws-endpoint is required for --op watch")
		}
		exitOn(logger, watchOrders(ctx, logger, *wsEndpoint, metrics))
	default:
		logger.Fatalf("Unknown operation %q", *op)
	}
}

// watchOrders streams order events until the context is cancelled.
func watchOrders(ctx context.Context, logger *log.Logger, endpoint string, metrics *observability.Metrics) error {
	cfg := graph.DefaultFeedConfig()
	cfg.Metrics = metrics
	feed, err := graph.NewOrdersFeed(ctx, endpoint, &cfg)
	if err != nil {
		return err
	}
	defer feed.Close()

	logger.Printf("Watching order events on %s (Ctrl-C to stop)", endpoint)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-feed.Events():
			if !ok {
				return nil
			}
			if metrics != nil {
				metrics.OrderEventsReceived.Inc()
			}
			logger.Printf("%s order=%s nft=%s price=%s status=%s",
				ev.Type, ev.OrderID, ev.NFTID, ev.Price, ev.Status)
		}
	}
}

// createSearchLog picks the telemetry sink: ClickHouse when a DSN is given,
// in-memory otherwise.
func createSearchLog(ctx context.Context, dsn string) (storage.SearchLogStore, func(), error) {
	if dsn == "" {
		return memory.NewSearchLogStore(), func() {}, nil
	}
	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return chstore.NewSearchLogStore(conn), func() { conn.Close() }, nil
}

func serveMetrics(logger *log.Logger, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())

	logger.Printf("Serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("Metrics server error: %v", err)
	}
}

func parseRarities(s string) []domain.WearableRarity {
	var result []domain.WearableRarity
	for _, item := range splitList(s) {
		result = append(result, domain.WearableRarity(strings.ToLower(item)))
	}
	return result
}

func parseGenders(s string) []domain.WearableGender {
	var result []domain.WearableGender
	for _, item := range splitList(s) {
		result = append(result, domain.WearableGender(strings.ToLower(item)))
	}
	return result
}

// parseContracts keeps case: registry names are CamelCase.
func parseContracts(s string) []contracts.ContractName {
	var result []contracts.ContractName
	for _, item := range splitList(s) {
		result = append(result, contracts.ContractName(item))
	}
	return result
}

func splitList(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func exitOn(logger *log.Logger, err error) {
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
