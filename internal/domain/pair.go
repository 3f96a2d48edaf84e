// Package domain defines core data structures used throughout volgate.
package domain

import (
	"fmt"
	"strings"
)

// Pair trading pair.
type Pair struct {
	// From base currency symbol.
	From string `json:"from"`
	// To quote currency symbol.
	To string `json:"to"`
}

// String returns the string representation.
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Symbol returns the concatenated symbol representation.
func (p Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.From, p.To)
}

// IsZero reports whether the pair is unset.
func (p Pair) IsZero() bool {
	return p.From == "" && p.To == ""
}

// PairFromString parses a pair in "BTC_USDT" form.
func PairFromString(s string) (Pair, error) {
	elements := strings.Split(s, "_")
	if len(elements) != 2 || elements[0] == "" || elements[1] == "" {
		return Pair{}, fmt.Errorf("invalid pair: %s", s)
	}
	return Pair{From: elements[0], To: elements[1]}, nil
}
