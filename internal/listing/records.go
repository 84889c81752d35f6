package listing

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"nft-market-client/internal/domain"
)

// Wire records mirroring the query fragments.

type nftRecord struct {
	ID              string `json:"id"`
	TokenID         string `json:"tokenId"`
	ContractAddress string `json:"contractAddress"`
	Category        string `json:"category"`
	Name            string `json:"name"`
	Image           string `json:"image"`
	Network         string `json:"network"`
	Owner           struct {
		Address string `json:"address"`
	} `json:"owner"`
}

func (r *nftRecord) toDomain() *domain.NFT {
	return &domain.NFT{
		ID:              r.ID,
		ContractAddress: r.ContractAddress,
		TokenID:         r.TokenID,
		Category:        domain.NFTCategory(r.Category),
		Name:            r.Name,
		Image:           r.Image,
		Owner:           r.Owner.Address,
		Network:         r.Network,
	}
}

type orderRecord struct {
	ID         string     `json:"id"`
	NFTID      string     `json:"nftId"`
	NFTAddress string     `json:"nftAddress"`
	TokenID    string     `json:"tokenId"`
	Price      string     `json:"price"`
	ExpiresAt  string     `json:"expiresAt"`
	Status     string     `json:"status"`
	Network    string     `json:"network"`
	NFT        *nftRecord `json:"nft"`
}

func (r *orderRecord) toDomain() (*domain.Order, error) {
	price := new(big.Int)
	if r.Price != "" {
		if _, ok := price.SetString(r.Price, 10); !ok {
			return nil, fmt.Errorf("order %s: invalid price %q", r.ID, r.Price)
		}
	}

	var expiresAt int64
	if r.ExpiresAt != "" {
		v, err := strconv.ParseInt(r.ExpiresAt, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("order %s: invalid expiresAt %q", r.ID, r.ExpiresAt)
		}
		expiresAt = v
	}

	return &domain.Order{
		ID:              r.ID,
		NFTID:           r.NFTID,
		ContractAddress: r.NFTAddress,
		TokenID:         r.TokenID,
		Price:           price,
		ExpiresAt:       expiresAt,
		Status:          domain.OrderStatus(r.Status),
		Network:         r.Network,
	}, nil
}

type collectionRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	CreatedAt string `json:"createdAt"`
}

func (r *collectionRecord) toDomain() *domain.Collection {
	createdAt, _ := strconv.ParseInt(r.CreatedAt, 10, 64)
	return &domain.Collection{
		ID:        r.ID,
		Name:      r.Name,
		Symbol:    r.Symbol,
		CreatedAt: createdAt,
	}
}

// idRecord is the count projection shape.
type idRecord struct {
	ID string `json:"id"`
}

// decodeField unmarshals one top-level response field into dst.
func decodeField(data map[string]json.RawMessage, field string, dst any) error {
	raw, ok := data[field]
	if !ok {
		return fmt.Errorf("response missing field %q", field)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode field %q: %w", field, err)
	}
	return nil
}
