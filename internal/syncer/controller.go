// Package syncer is the top-level orchestration over the entity store:
// initial load, refresh after reconciliation, and surfacing of store-level
// read errors.
package syncer

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storedash/internal/domain/order"
	"github.com/xenking/storedash/internal/domain/product"
	"github.com/xenking/storedash/internal/store"
)

// Controller loads the remote collections into the store. A failed load
// leaves the previous snapshot untouched and records a sticky read error
// that stays visible until the next successful load. There is no
// automatic retry; refresh is always caller-triggered.
type Controller struct {
	products product.Repository
	orders   order.Repository
	store    *store.Store
	lg       *zap.Logger

	mu      sync.Mutex
	lastErr error
}

// NewController constructs a Controller over the given repositories.
func NewController(products product.Repository, orders order.Repository, st *store.Store, lg *zap.Logger) *Controller {
	return &Controller{
		products: products,
		orders:   orders,
		store:    st,
		lg:       lg,
	}
}

// Refresh reads both collections and replaces the snapshot atomically.
// If either read fails nothing is applied.
func (c *Controller) Refresh(ctx context.Context) error {
	var (
		products []product.Product
		orders   []order.Order
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.products.List(ctx)
		return errors.Wrap(err, "load products")
	})
	g.Go(func() error {
		var err error
		orders, err = c.orders.List(ctx)
		return errors.Wrap(err, "load orders")
	})

	if err := g.Wait(); err != nil {
		c.setErr(err)
		c.lg.Error("snapshot refresh failed", zap.Error(err))
		return err
	}

	c.store.Replace(products, orders)
	c.setErr(nil)
	c.lg.Info("snapshot refreshed",
		zap.Int("products", len(products)),
		zap.Int("orders", len(orders)),
	)
	return nil
}

// ReloadProducts re-reads only the product collection. Used to reconcile
// after a confirmed product mutation.
func (c *Controller) ReloadProducts(ctx context.Context) error {
	products, err := c.products.List(ctx)
	if err != nil {
		err = errors.Wrap(err, "reload products")
		c.setErr(err)
		c.lg.Error("product reload failed", zap.Error(err))
		return err
	}

	c.store.ReplaceProducts(products)
	c.setErr(nil)
	c.lg.Debug("product snapshot reloaded", zap.Int("products", len(products)))
	return nil
}

// Err returns the sticky store read error from the most recent load
// attempt, or nil after a successful one.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
