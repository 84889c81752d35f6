package domain

import "math/big"

// OrderStatus is the lifecycle state of a sale listing.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusSold      OrderStatus = "sold"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a sale listing for one NFT.
// Created off-chain by a seller (create-order workflow) and consumed by a
// buyer (execute-order workflow) or by natural expiration, which this layer
// only observes, never mutates.
type Order struct {
	ID              string
	NFTID           string
	ContractAddress string
	TokenID         string

	// Price in the smallest currency unit (wei).
	Price *big.Int

	// ExpiresAt is a millisecond unix timestamp.
	ExpiresAt int64

	Status  OrderStatus
	Network string
}
