package bindings

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseUnits converts a decimal string ("1.5") into base units for a token
// with the given decimals.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	whole, frac, _ := strings.Cut(amount, ".")
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %s has more than %d decimals", amount, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))
	if whole == "" {
		whole = "0"
	}

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", amount)
	}
	return v, nil
}

// FormatUnits renders base units as a decimal string, trimming trailing zeros.
func FormatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	neg := v.Sign() < 0
	s := new(big.Int).Abs(v).String()
	if decimals > 0 {
		if len(s) <= int(decimals) {
			s = strings.Repeat("0", int(decimals)-len(s)+1) + s
		}
		point := len(s) - int(decimals)
		whole, frac := s[:point], strings.TrimRight(s[point:], "0")
		s = whole
		if frac != "" {
			s += "." + frac
		}
	}
	if neg {
		s = "-" + s
	}
	return s
}
