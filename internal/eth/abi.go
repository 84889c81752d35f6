package eth

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

const wordSize = 32

// selector returns the 4-byte function selector for a canonical signature.
func selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// encodeAddress left-pads a 20-byte hex address to one word.
func encodeAddress(address string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(address), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", address, err)
	}
	if len(raw) != 20 {
		return nil, fmt.Errorf("invalid address %q: %d bytes", address, len(raw))
	}
	word := make([]byte, wordSize)
	copy(word[wordSize-len(raw):], raw)
	return word, nil
}

// encodeUint256 encodes a non-negative integer into one word.
func encodeUint256(v *big.Int) ([]byte, error) {
	if v == nil || v.Sign() < 0 {
		return nil, fmt.Errorf("uint256 value must be non-negative")
	}
	if v.BitLen() > 256 {
		return nil, fmt.Errorf("uint256 overflow: %d bits", v.BitLen())
	}
	word := make([]byte, wordSize)
	v.FillBytes(word)
	return word, nil
}

// encodeBytes encodes a dynamic bytes value as (length word, padded data).
// The caller places the offset word in the static head.
func encodeBytes(data []byte) ([]byte, error) {
	length, err := encodeUint256(big.NewInt(int64(len(data))))
	if err != nil {
		return nil, err
	}

	padded := len(data)
	if rem := padded % wordSize; rem != 0 {
		padded += wordSize - rem
	}
	out := make([]byte, 0, wordSize+padded)
	out = append(out, length...)
	out = append(out, data...)
	out = append(out, make([]byte, padded-len(data))...)
	return out, nil
}

// parseTokenID accepts a token id as decimal or 0x-hex.
func parseTokenID(tokenID string) (*big.Int, error) {
	s := strings.TrimSpace(tokenID)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid token id %q", tokenID)
	}
	return v, nil
}

// parseFingerprint accepts a 0x-hex fingerprint.
func parseFingerprint(fingerprint string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(fingerprint), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid fingerprint %q: %w", fingerprint, err)
	}
	return raw, nil
}
