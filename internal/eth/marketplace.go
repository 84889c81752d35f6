package eth

import (
	"context"
	"fmt"
	"math/big"
)

// Canonical signatures of the marketplace contract writes.
const (
	sigCreateOrder      = "createOrder(address,uint256,uint256,uint256)"
	sigExecuteOrder     = "executeOrder(address,uint256,uint256)"
	sigSafeExecuteOrder = "safeExecuteOrder(address,uint256,uint256,bytes)"
)

// Marketplace submits order writes to the marketplace contract through a
// Provider. Satisfies market.Exchange.
type Marketplace struct {
	provider *Provider
	address  string
}

// NewMarketplace creates a binding for the contract at the given address.
func NewMarketplace(provider *Provider, contractAddress string) *Marketplace {
	return &Marketplace{provider: provider, address: contractAddress}
}

// CreateOrder submits createOrder and returns the transaction hash.
func (m *Marketplace) CreateOrder(ctx context.Context, from, nftAddress, tokenID string, price *big.Int, expiresAt int64) (string, error) {
	assetID, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}

	data, err := encodeCall(sigCreateOrder,
		addressArg(nftAddress),
		uint256Arg(assetID),
		uint256Arg(price),
		uint256Arg(big.NewInt(expiresAt)),
	)
	if err != nil {
		return "", fmt.Errorf("encode createOrder: %w", err)
	}

	return m.provider.SendTransaction(ctx, from, m.address, data)
}

// ExecuteOrder submits executeOrder and returns the transaction hash.
func (m *Marketplace) ExecuteOrder(ctx context.Context, from, nftAddress, tokenID string, price *big.Int) (string, error) {
	assetID, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}

	data, err := encodeCall(sigExecuteOrder,
		addressArg(nftAddress),
		uint256Arg(assetID),
		uint256Arg(price),
	)
	if err != nil {
		return "", fmt.Errorf("encode executeOrder: %w", err)
	}

	return m.provider.SendTransaction(ctx, from, m.address, data)
}

// SafeExecuteOrder submits safeExecuteOrder with the fingerprint bound to
// the transaction, so the contract rejects the trade if the NFT's state
// changed since the price was quoted.
func (m *Marketplace) SafeExecuteOrder(ctx context.Context, from, nftAddress, tokenID string, price *big.Int, fingerprint string) (string, error) {
	assetID, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	fp, err := parseFingerprint(fingerprint)
	if err != nil {
		return "", err
	}

	data, err := encodeCall(sigSafeExecuteOrder,
		addressArg(nftAddress),
		uint256Arg(assetID),
		uint256Arg(price),
		bytesArg(fp),
	)
	if err != nil {
		return "", fmt.Errorf("encode safeExecuteOrder: %w", err)
	}

	return m.provider.SendTransaction(ctx, from, m.address, data)
}

// arg is one ABI argument: static args fill a head word, dynamic args fill a
// head offset word plus a tail.
type arg struct {
	dynamic bool
	encode  func() ([]byte, error)
}

func addressArg(address string) arg {
	return arg{encode: func() ([]byte, error) { return encodeAddress(address) }}
}

func uint256Arg(v *big.Int) arg {
	return arg{encode: func() ([]byte, error) { return encodeUint256(v) }}
}

func bytesArg(data []byte) arg {
	return arg{dynamic: true, encode: func() ([]byte, error) { return encodeBytes(data) }}
}

// encodeCall assembles selector + head words + dynamic tails.
func encodeCall(signature string, args ...arg) ([]byte, error) {
	head := make([]byte, 0, len(args)*wordSize)
	var tail []byte
	tailOffset := len(args) * wordSize

	for _, a := range args {
		encoded, err := a.encode()
		if err != nil {
			return nil, err
		}
		if a.dynamic {
			offset, err := encodeUint256(big.NewInt(int64(tailOffset + len(tail))))
			if err != nil {
				return nil, err
			}
			head = append(head, offset...)
			tail = append(tail, encoded...)
		} else {
			head = append(head, encoded...)
		}
	}

	out := selector(signature)
	out = append(out, head...)
	out = append(out, tail...)
	return out, nil
}
