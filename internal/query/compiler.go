// Package query compiles typed search requests into parameterized GraphQL
// queries for the marketplace indexing service.
//
// Compilation is pure: the only non-determinism is the freshness timestamp
// used by sale-status filters, evaluated exactly once per compile so retries
// against the same compile see the same cutoff.
package query

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"nft-market-client/internal/contracts"
	"nft-market-client/internal/domain"
)

// Resolver resolves contract names to on-chain addresses.
// *contracts.Registry satisfies it.
type Resolver interface {
	Address(name contracts.ContractName) (string, bool)
}

// Compiler builds queries against a fixed contract registry.
type Compiler struct {
	resolver Resolver
}

// NewCompiler creates a Compiler using the given registry.
func NewCompiler(resolver Resolver) *Compiler {
	return &Compiler{resolver: resolver}
}

// Compile builds the NFT search query for the request, stamping sale-status
// freshness against the current wall clock.
func (c *Compiler) Compile(p Params, f Filters, isCount bool) CompiledQuery {
	return c.CompileAt(p, f, isCount, time.Now())
}

// CompileAt is Compile with an explicit clock.
//
// Predicate emission order is fixed: owner, sale status, free text, wearable
// category, head, accessory, rarity list, gender shapes, contract allow-list.
// The order carries no query semantics (clauses AND together) but keeps the
// compiled text byte-stable for a given request and clock.
func (c *Compiler) CompileAt(p Params, f Filters, isCount bool, now time.Time) CompiledQuery {
	where := &Where{}
	decls := baseDecls()
	vars := map[string]any{
		"first":          p.First,
		"skip":           p.Skip,
		"orderBy":        p.OrderBy,
		"orderDirection": p.OrderDirection,
	}

	if p.Address != "" {
		where.Add("owner", OpEquals, Var("address"))
		decls = append(decls, varDecl{"address", "String"})
		vars["address"] = p.Address
	}

	if p.OnlyOnSale {
		where.Add("searchOrderStatus", OpEquals, Enum("open"))
		where.Add("searchOrderExpiresAt", OpGreaterThan, Var("expiresAt"))
		decls = append(decls, varDecl{"expiresAt", "String"})
		vars["expiresAt"] = strconv.FormatInt(now.UnixMilli(), 10)
	}

	if search := strings.ToLower(strings.TrimSpace(p.Search)); search != "" {
		where.Add("searchText", OpContains, Str(search))
	}

	if f.WearableCategory != "" {
		where.Add("searchWearableCategory", OpEquals, Var("wearableCategory"))
		decls = append(decls, varDecl{"wearableCategory", "String"})
		vars["wearableCategory"] = f.WearableCategory
	}

	if f.IsWearableHead {
		where.Add("searchIsWearableHead", OpEquals, Var("isWearableHead"))
		decls = append(decls, varDecl{"isWearableHead", "Boolean"})
		vars["isWearableHead"] = true
	}

	if f.IsWearableAccessory {
		where.Add("searchIsWearableAccessory", OpEquals, Var("isWearableAccessory"))
		decls = append(decls, varDecl{"isWearableAccessory", "Boolean"})
		vars["isWearableAccessory"] = true
	}

	if len(f.WearableRarities) > 0 {
		rarities := make([]string, len(f.WearableRarities))
		for i, r := range f.WearableRarities {
			rarities[i] = string(r)
		}
		where.Add("searchWearableRarity", OpInSet, StrList(rarities...))
	}

	addGenderClause(where, f.WearableGenders)

	if len(f.Contracts) > 0 {
		var addresses []string
		for _, name := range f.Contracts {
			if addr, ok := c.resolver.Address(name); ok {
				addresses = append(addresses, addr)
			}
		}
		if len(addresses) > 0 {
			where.Add("contractAddress", OpInSet, StrList(addresses...))
		}
	}

	projection := "...nftFragment"
	fragments := nftFragment
	if isCount {
		projection = "id"
		fragments = ""
	}

	return CompiledQuery{
		Query:     renderQuery("NFTs", "nfts", decls, where, true, projection, fragments),
		Variables: vars,
	}
}

// addGenderClause collapses the two-element gender set into three query
// shapes. The indexer treats "contains both shapes" differently from "equals
// one shape", so the three branches are not interchangeable with a generic
// in-set filter.
func addGenderClause(where *Where, genders []domain.WearableGender) {
	var hasMale, hasFemale bool
	for _, g := range genders {
		switch g {
		case domain.GenderMale:
			hasMale = true
		case domain.GenderFemale:
			hasFemale = true
		}
	}

	switch {
	case hasMale && !hasFemale:
		where.Add("searchWearableBodyShapes", OpEquals, EnumList(domain.BodyShapeMale))
	case hasFemale && !hasMale:
		where.Add("searchWearableBodyShapes", OpEquals, EnumList(domain.BodyShapeFemale))
	case hasMale && hasFemale:
		where.Add("searchWearableBodyShapes", OpContains, EnumList(domain.BodyShapeMale, domain.BodyShapeFemale))
	}
}

// CompileOrders builds the open-orders query used by the fetch workflow,
// stamping expiration freshness against the current wall clock.
func (c *Compiler) CompileOrders(p Params) CompiledQuery {
	return c.CompileOrdersAt(p, time.Now())
}

// CompileOrdersAt is CompileOrders with an explicit clock.
func (c *Compiler) CompileOrdersAt(p Params, now time.Time) CompiledQuery {
	where := &Where{}
	where.Add("status", OpEquals, Enum("open"))
	where.Add("expiresAt", OpGreaterThan, Var("expiresAt"))

	decls := append(baseDecls(), varDecl{"expiresAt", "String"})
	vars := map[string]any{
		"first":          p.First,
		"skip":           p.Skip,
		"orderBy":        p.OrderBy,
		"orderDirection": p.OrderDirection,
		"expiresAt":      strconv.FormatInt(now.UnixMilli(), 10),
	}

	fragments := orderFragment + "\n" + nftFragment
	return CompiledQuery{
		Query:     renderQuery("Orders", "orders", decls, where, true, "...orderFragment", fragments),
		Variables: vars,
	}
}

// CollectionsQuery is the fixed query listing every collection.
func CollectionsQuery() CompiledQuery {
	return CompiledQuery{
		Query: `query Collections {
  collections {
    ...collectionFragment
  }
}

` + collectionFragment,
		Variables: map[string]any{},
	}
}

// NFTByTokenQuery is the fixed single-record lookup by contract and token id.
func NFTByTokenQuery(contractAddress, tokenID string) CompiledQuery {
	where := &Where{}
	where.Add("contractAddress", OpEquals, Var("contractAddress"))
	where.Add("tokenId", OpEquals, Var("tokenId"))

	decls := []varDecl{
		{"contractAddress", "String"},
		{"tokenId", "String"},
	}

	var b strings.Builder
	b.WriteString("query NFTByTokenId(\n")
	for _, d := range decls {
		b.WriteString("  $" + d.name + ": " + d.typ + "\n")
	}
	b.WriteString(") {\n")
	b.WriteString("  nfts(\n")
	where.render(&b, "    ")
	b.WriteString("    first: 1\n")
	b.WriteString("  ) {\n")
	b.WriteString("    ...nftFragment\n")
	b.WriteString("  }\n")
	b.WriteString("}\n\n")
	b.WriteString(nftFragment)

	return CompiledQuery{
		Query: b.String(),
		Variables: map[string]any{
			"contractAddress": contractAddress,
			"tokenId":         tokenID,
		},
	}
}

// varDecl is one variable declaration of the query signature.
type varDecl struct {
	name string
	typ  string
}

func baseDecls() []varDecl {
	return []varDecl{
		{"first", "Int"},
		{"skip", "Int"},
		{"orderBy", "String"},
		{"orderDirection", "String"},
	}
}

// renderQuery assembles the final query text. Layout is fixed so identical
// inputs always produce identical bytes.
func renderQuery(opName, field string, decls []varDecl, where *Where, paginated bool, projection, fragments string) string {
	var b strings.Builder

	b.WriteString("query " + opName + "(\n")
	for _, d := range decls {
		b.WriteString("  $" + d.name + ": " + d.typ + "\n")
	}
	b.WriteString(") {\n")
	b.WriteString("  " + field + "(\n")
	if !where.Empty() {
		where.render(&b, "    ")
	}
	if paginated {
		b.WriteString("    first: $first\n")
		b.WriteString("    skip: $skip\n")
		b.WriteString("    orderBy: $orderBy\n")
		b.WriteString("    orderDirection: $orderDirection\n")
	}
	b.WriteString("  ) {\n")
	b.WriteString("    " + projection + "\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	if fragments != "" {
		b.WriteString("\n")
		b.WriteString(fragments)
	}
	return b.String()
}

// Record fragments shared by the listing queries.
const nftFragment = `fragment nftFragment on NFT {
  id
  tokenId
  contractAddress
  category
  name
  image
  network
  owner {
    address
  }
}
`

const orderFragment = `fragment orderFragment on Order {
  id
  nftId
  nftAddress
  tokenId
  price
  expiresAt
  status
  network
  nft {
    ...nftFragment
  }
}
`

const collectionFragment = `fragment collectionFragment on Collection {
  id
  name
  symbol
  createdAt
}
`

// Hash returns a short stable key for a compiled query, suitable for
// memoization and telemetry. Variables are folded in sorted key order so the
// key does not depend on map iteration.
func (q CompiledQuery) Hash() string {
	keys := make([]string, 0, len(q.Variables))
	for k := range q.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	h.Write([]byte(q.Query))
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%v;", k, q.Variables[k])
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
