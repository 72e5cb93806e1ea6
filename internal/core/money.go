// Package core holds the engine's domain value types.
//
// This file contains amount parsing for ledger cells. Ledger amounts are
// signed: expenses arrive negative, income positive. The engine never does
// arithmetic on them, it only needs them well-formed at the boundary.
package core

import (
	"strconv"
	"strings"
)

// ParseSignedCents converts a decimal string to signed cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, an
// optional leading sign, and performs half-up rounding on the third decimal
// place (half-down for negative values, i.e. rounding away from zero).
//
// Examples:
//
//	ParseSignedCents("12.34")  -> 1234, true
//	ParseSignedCents("-12,34") -> -1234, true
//	ParseSignedCents("0.005")  -> 1, true
func ParseSignedCents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 || parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return 0, false
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, false
	}
	// Take first two fractional digits; then half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, true
}
