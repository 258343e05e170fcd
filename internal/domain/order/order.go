package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status is the fulfilment state of an order. Transitions are
// unrestricted: any status may move to any other.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every valid order status in display order.
var Statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ParseStatus validates a raw status string against the known set.
func ParseStatus(s string) (Status, error) {
	for _, known := range Statuses {
		if Status(s) == known {
			return known, nil
		}
	}
	return "", errors.Errorf("unknown order status %q", s)
}

// Item is a denormalized line item: a value copy of the product name and
// price at order time, never a reference into the catalog. Renaming or
// deleting a product does not affect historical orders.
type Item struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Order represents a customer order. Orders are created entirely
// out-of-band; only Status is mutable from this system.
type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	CreatedAt    time.Time       `json:"created_at"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Items        []Item          `json:"items"`
	Status       Status          `json:"status"`
}

// Repository defines store operations for orders. UpdateStatus is the one
// targeted write this system performs against the remote store directly.
type Repository interface {
	// List returns all orders ordered by created_at descending.
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus sets the status of the order matching id.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
