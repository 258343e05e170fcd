package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Status is the availability state of a product. Exactly two values are
// persisted; anything else only ever appears as a rendering fallback.
type Status string

const (
	StatusAvailable    Status = "Available"
	StatusNotAvailable Status = "Not Available"
)

// ParseStatus validates a raw status string against the persisted set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusNotAvailable:
		return Status(s), nil
	}
	return "", errors.Errorf("unknown product status %q", s)
}

// Toggle returns the opposite availability state.
func (s Status) Toggle() Status {
	if s == StatusAvailable {
		return StatusNotAvailable
	}
	return StatusAvailable
}

// Currency is the pricing currency tag for a product.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencySYP Currency = "SYP"
)

// ParseCurrency validates a raw currency string against the supported set.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyUSD, CurrencySYP:
		return Currency(s), nil
	}
	return "", errors.Errorf("unknown currency %q", s)
}

// Product represents a catalog item tracked by the inventory dashboard.
// The ID is client-generated at creation time; Image is either a remote
// URL or an inlined data URI and is opaque to this layer.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency Currency        `json:"currency"`
	Image    string          `json:"image"`
	Status   Status          `json:"status"`
}

// Repository defines read operations for the product catalog. Every write
// to the catalog goes through the external actor endpoints, never through
// the store directly.
type Repository interface {
	// List returns the full catalog ordered by id descending.
	List(ctx context.Context) ([]Product, error)
}
