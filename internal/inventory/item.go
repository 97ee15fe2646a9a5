package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultThreshold is the reorder threshold applied when a product row does
// not carry one.
const DefaultThreshold = 10

// Status describes the stock level of an item relative to its reorder threshold.
type Status string

const (
	StatusOutOfStock Status = "OUT_OF_STOCK"
	StatusLow        Status = "LOW"
	StatusOK         Status = "OK"
)

// Item is a single inventory entry keyed by its canonical normalized name.
type Item struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Threshold int     `json:"threshold"`
}

// Status classifies the item's stock level. The three cases are exhaustive
// and mutually exclusive for any non-negative quantity.
func (i Item) Status() Status {
	switch {
	case i.Quantity == 0:
		return StatusOutOfStock
	case i.Quantity < i.Threshold:
		return StatusLow
	default:
		return StatusOK
	}
}

// Shortfall returns how many units are missing to reach the reorder
// threshold. Zero when the item is at or above it.
func (i Item) Shortfall() int {
	if i.Quantity >= i.Threshold {
		return 0
	}
	return i.Threshold - i.Quantity
}

// Value returns the capital held in stock for this item.
func (i Item) Value() float64 {
	return float64(i.Quantity) * i.Price
}

// Change records a persisted quantity transition.
type Change struct {
	Name string
	From int
	To   int
}

// ErrNotFound reports that no item exists under the requested canonical name.
var ErrNotFound = errors.New("inventory: item not found")

// NegativeQuantityError rejects a mutation that would drive stock below zero.
// The inventory is left unmodified when it is returned.
type NegativeQuantityError struct {
	Name    string
	Current int
	Delta   int
}

func (e *NegativeQuantityError) Error() string {
	return fmt.Sprintf("inventory: stock of %q cannot go negative (current %d, change %+d)", e.Name, e.Current, e.Delta)
}

// Normalize produces the canonical form used as the inventory key: lowercase,
// trimmed, inner whitespace collapsed to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Tokenize splits normalized text on whitespace and the separators ", . / -",
// keeping only tokens longer than minLen runes.
func Tokenize(s string, minLen int) []string {
	fields := strings.FieldsFunc(Normalize(s), func(r rune) bool {
		switch r {
		case ' ', ',', '.', '/', '-':
			return true
		}
		return false
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > minLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
