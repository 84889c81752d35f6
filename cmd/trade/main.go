// Package main provides the trade CLI: list an NFT for sale, buy an open
// listing, or show recent workflow activity. Contract writes go through an
// Ethereum JSON-RPC provider; --dry-run swaps in stub collaborators.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nft-market-client/internal/contracts"
	"nft-market-client/internal/domain"
	"nft-market-client/internal/eth"
	"nft-market-client/internal/graph"
	"nft-market-client/internal/listing"
	"nft-market-client/internal/market"
	"nft-market-client/internal/market/stub"
	"nft-market-client/internal/query"
	"nft-market-client/internal/storage"
	"nft-market-client/internal/storage/memory"
	"nft-market-client/internal/storage/migrations"
	pgstore "nft-market-client/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	graphEndpoint := flag.String("graph-endpoint", os.Getenv("GRAPH_ENDPOINT"), "Marketplace indexer GraphQL endpoint")
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("ETH_RPC_ENDPOINT"), "Ethereum JSON-RPC endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL DSN for the activity store (optional)")
	dryRun := flag.Bool("dry-run", false, "Use stub wallet and exchange instead of the provider")
	verbose := flag.Bool("verbose", false, "Verbose workflow logging")

	op := flag.String("op", "", "Operation: create, execute, activity")

	contract := flag.String("contract", "", "NFT contract address")
	token := flag.String("token", "", "NFT token id")
	price := flag.String("price", "", "Price in whole currency units (for --op create)")
	expiresIn := flag.Duration("expires-in", 30*24*time.Hour, "Listing lifetime (for --op create)")
	fingerprint := flag.String("fingerprint", "", "Composable NFT fingerprint, 0x-hex (for --op execute)")
	limit := flag.Int("limit", 20, "Max records to show (for --op activity)")

	flag.Parse()

	logger := log.New(os.Stdout, "[trade] ", log.LstdFlags)

	if *op == "" {
		logger.Fatal("--op is required (create, execute, activity)")
	}
	if *graphEndpoint == "" {
		logger.Fatal("--graph-endpoint is required")
	}
	if !*dryRun && *rpcEndpoint == "" && *op != "activity" {
		logger.Fatal("--rpc-endpoint is required (or use --dry-run)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, cleanup, err := createActivityStore(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Failed to create activity store: %v", err)
	}
	defer cleanup()

	if *op == "activity" {
		records, err := store.GetRecent(ctx, *limit)
		if err != nil {
			logger.Fatalf("Error: %v", err)
		}
		printJSON(records)
		return
	}

	if *contract == "" || *token == "" {
		logger.Fatal("--contract and --token are required")
	}

	registry := contracts.Mainnet()
	repo := listing.NewRepository(
		graph.NewClient(*graphEndpoint),
		query.NewCompiler(registry),
	)

	wallet, exchange := createCollaborators(*dryRun, *rpcEndpoint, registry)

	orch := market.New(market.Options{
		Fetcher:    repo,
		Wallet:     wallet,
		Exchange:   exchange,
		Navigator:  &logNavigator{logger: logger},
		Dispatcher: market.NewStoreDispatcher(store, nil),
		Logger:     logger,
		Verbose:    *verbose,
	})

	nft, err := repo.FetchOne(ctx, *contract, *token)
	if err != nil {
		logger.Fatalf("Fetch NFT %s/%s: %v", *contract, *token, err)
	}

	var ev market.Event
	switch *op {
	case "create":
		if *price == "" {
			logger.Fatal("--price is required for --op create")
		}
		ev = orch.CreateOrder(ctx, market.CreateOrderIntent{
			NFT:       nft,
			Price:     *price,
			ExpiresAt: time.Now().Add(*expiresIn).UnixMilli(),
		})
	case "execute":
		order, err := findOpenOrder(ctx, repo, nft.ID)
		if err != nil {
			logger.Fatalf("Find open order for %s: %v", nft.ID, err)
		}
		ev = orch.ExecuteOrder(ctx, market.ExecuteOrderIntent{
			Order:       order,
			NFT:         nft,
			Fingerprint: *fingerprint,
		})
	default:
		logger.Fatalf("Unknown operation %q", *op)
	}

	printJSON(ev)
	if !ev.Succeeded() {
		os.Exit(1)
	}
}

// createCollaborators returns the wallet and exchange, stubbed under
// --dry-run.
func createCollaborators(dryRun bool, rpcEndpoint string, registry *contracts.Registry) (market.Wallet, market.Exchange) {
	if dryRun {
		return &stub.Wallet{Address: "0x000000000000000000000000000000000000dead"},
			&stub.Exchange{}
	}
	provider := eth.NewProvider(rpcEndpoint)
	return provider, eth.NewMarketplace(provider, registry.MarketplaceAddress())
}

// createActivityStore picks the dispatcher's backing store: PostgreSQL when a
// DSN is given, in-memory otherwise.
func createActivityStore(ctx context.Context, dsn string) (storage.ActivityStore, func(), error) {
	if dsn == "" {
		return memory.NewActivityStore(), func() {}, nil
	}
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pgstore.NewActivityStore(pool), func() { pool.Close() }, nil
}

// findOpenOrder pages through open orders looking for one backing the NFT.
func findOpenOrder(ctx context.Context, repo *listing.Repository, nftID string) (*domain.Order, error) {
	const pageSize = 100

	for skip := 0; ; skip += pageSize {
		orders, _, err := repo.FetchOrders(ctx, query.Params{
			First:          pageSize,
			Skip:           skip,
			OrderBy:        "createdAt",
			OrderDirection: "desc",
		})
		if err != nil {
			return nil, err
		}
		for _, order := range orders {
			if order.NFTID == nftID {
				return order, nil
			}
		}
		if len(orders) < pageSize {
			return nil, fmt.Errorf("no open order for NFT %s", nftID)
		}
	}
}

// logNavigator stands in for the webapp's activity-page navigation.
type logNavigator struct {
	logger *log.Logger
}

func (n *logNavigator) GoToActivity(context.Context) {
	n.logger.Println("Done. See --op activity for the outcome record.")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
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
