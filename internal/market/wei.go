package market

import (
	"fmt"
	"math/big"
	"strings"
)

// etherDecimals is the fixed-point scale of the currency token.
const etherDecimals = 18

// ToWei converts a human-denominated decimal price ("12.5") into the
// contract's smallest-unit representation. Negative prices and fractions
// finer than 18 decimals are rejected.
func ToWei(price string) (*big.Int, error) {
	s := strings.TrimSpace(price)
	if s == "" {
		return nil, fmt.Errorf("empty price")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative price %q", price)
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("malformed price %q", price)
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, fmt.Errorf("malformed price %q", price)
	}
	if len(fracPart) > etherDecimals {
		return nil, fmt.Errorf("price %q exceeds %d decimals", price, etherDecimals)
	}

	// Scale: intPart * 10^18 + fracPart padded to 18 digits
	padded := fracPart + strings.Repeat("0", etherDecimals-len(fracPart))

	wei, ok := new(big.Int).SetString(intPart+padded, 10)
	if !ok {
		return nil, fmt.Errorf("malformed price %q", price)
	}
	return wei, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
