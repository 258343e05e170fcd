// Package store holds the last-fetched snapshot of the remote collections.
// It is the single local source the rest of the application reads from;
// every change is either a whole-snapshot replacement after a confirmed
// reload or a targeted order status patch after a confirmed remote write.
package store

import (
	"sync"

	"github.com/xenking/storedash/internal/domain/order"
	"github.com/xenking/storedash/internal/domain/product"
)

// Store keeps the current Product and Order snapshots plus the identifier
// of the order selected for detail view, if any. All methods are safe
// for concurrent use; reads return copies so callers can never mutate the
// snapshot in place.
type Store struct {
	mu         sync.RWMutex
	products   []product.Product
	orders     []order.Order
	selectedID string
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Replace swaps in a complete snapshot of both collections atomically.
// Partial results from a failed fetch must never reach this method. The
// selection follows the snapshot: it is cleared when the selected order
// is gone, and when nothing remains selected the first order is selected.
func (s *Store) Replace(products []product.Product, orders []order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.orders = orders
	if s.selectedID != "" {
		if _, ok := s.orderByIDLocked(s.selectedID); !ok {
			s.selectedID = ""
		}
	}
	if s.selectedID == "" && len(orders) > 0 {
		s.selectedID = orders[0].ID
	}
}

// ReplaceProducts swaps in a fresh product snapshot, leaving orders and
// the selection untouched. Used for reconciliation after a confirmed
// product mutation, where the actor is the source of truth.
func (s *Store) ReplaceProducts(products []product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

// Products returns a copy of the current product snapshot.
func (s *Store) Products() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]product.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Orders returns a copy of the current order snapshot.
func (s *Store) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]order.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// ProductByID returns the snapshot's copy of a product, if present.
func (s *Store) ProductByID(id int64) (product.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return product.Product{}, false
}

// OrderByID returns the snapshot's copy of an order, if present.
func (s *Store) OrderByID(id string) (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderByIDLocked(id)
}

func (s *Store) orderByIDLocked(id string) (order.Order, bool) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return order.Order{}, false
}

// PatchOrderStatus updates exactly one order's status in place, leaving
// every other field and the product snapshot untouched. It reports false
// when no order with that id exists in the current snapshot.
func (s *Store) PatchOrderStatus(id string, status order.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return true
		}
	}
	return false
}

// Select marks an order as the current detail-view selection. Selecting
// an id absent from the snapshot reports false and leaves the previous
// selection in place.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orderByIDLocked(id); !ok {
		return false
	}
	s.selectedID = id
	return true
}

// Selected returns the currently-selected order, if the selection still
// exists in the snapshot.
func (s *Store) Selected() (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return order.Order{}, false
	}
	return s.orderByIDLocked(s.selectedID)
}
