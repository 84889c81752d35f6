package query

import (
	"nft-market-client/internal/contracts"
	"nft-market-client/internal/domain"
)

// Params are the generic search parameters shared by every listing search.
// All fields are optional; zero values emit no predicate.
type Params struct {
	First          int
	Skip           int
	OrderBy        string
	OrderDirection string

	// OnlyOnSale restricts results to open, unexpired sale listings.
	OnlyOnSale bool

	// Search is free text, matched as substring containment after
	// trimming and lower-casing. Not a token or fuzzy search.
	Search string

	// Address filters by owner address.
	Address string
}

// Filters are the wearable-specific search filters.
type Filters struct {
	WearableCategory    string
	IsWearableHead      bool
	IsWearableAccessory bool
	WearableRarities    []domain.WearableRarity
	WearableGenders     []domain.WearableGender
	Contracts           []contracts.ContractName
}

// CompiledQuery is a disposable compilation result: a query template plus the
// variables it references. Every variable referenced by Query is present in
// Variables and vice versa.
type CompiledQuery struct {
	Query     string
	Variables map[string]any
}
