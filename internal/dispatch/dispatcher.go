// Package dispatch orchestrates mutating commands against the external
// actor endpoints and the remote store. Each command runs a small state
// machine: acquire the entity lock, raise the global busy signal, make
// exactly one external call, reconcile local state on success, and always
// release both locks before returning.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storedash/internal/domain/order"
	"github.com/xenking/storedash/internal/domain/product"
	"github.com/xenking/storedash/internal/store"
)

// ActorClient is the outbound port to the mutation webhooks. Each call
// sends the full product record and reports success or failure; the
// actor's own side effects on the store are opaque to us.
type ActorClient interface {
	CreateProduct(ctx context.Context, p product.Product) error
	UpdateProduct(ctx context.Context, p product.Product) error
	DeleteProduct(ctx context.Context, p product.Product) error
}

// OrderStatusWriter is the targeted single-field store write used for
// order status changes. Unlike product mutations it does not go through
// an actor.
type OrderStatusWriter interface {
	UpdateStatus(ctx context.Context, id string, status order.Status) error
}

// ProductReloader re-reads the product collection from the store after a
// confirmed product mutation. The actor is the source of truth for the
// new record, so patching locally would risk drift.
type ProductReloader interface {
	ReloadProducts(ctx context.Context) error
}

// CreateProductRequest is the caller-supplied input for a new product.
// The id is assigned here, not by the caller.
type CreateProductRequest struct {
	Name     string
	Price    decimal.Decimal
	Currency product.Currency
	Image    string
	Status   product.Status
}

// Dispatcher issues mutating commands one at a time per entity.
type Dispatcher struct {
	actors   ActorClient
	orders   OrderStatusWriter
	store    *store.Store
	reloader ProductReloader
	locks    *EntityLocks
	busy     *Busy
	lg       *zap.Logger
	metrics  commandMetrics
}

// NewDispatcher constructs a Dispatcher with the required collaborators.
func NewDispatcher(
	actors ActorClient,
	orders OrderStatusWriter,
	st *store.Store,
	reloader ProductReloader,
	locks *EntityLocks,
	busy *Busy,
	lg *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		actors:   actors,
		orders:   orders,
		store:    st,
		reloader: reloader,
		locks:    locks,
		busy:     busy,
		lg:       lg,
		metrics:  newCommandMetrics(),
	}
}

// CreateProduct validates the request, assigns a fresh id, and dispatches
// the create command. On success the product snapshot is reloaded.
func (d *Dispatcher) CreateProduct(ctx context.Context, req CreateProductRequest) (int64, error) {
	if strings.TrimSpace(req.Name) == "" {
		return 0, &ValidationError{Field: "name", Reason: "required"}
	}
	if req.Image == "" {
		return 0, &ValidationError{Field: "image", Reason: "required before product creation"}
	}
	if req.Price.IsNegative() {
		return 0, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if req.Currency == "" {
		req.Currency = product.CurrencyUSD
	} else if _, err := product.ParseCurrency(string(req.Currency)); err != nil {
		return 0, &ValidationError{Field: "currency", Reason: err.Error()}
	}
	if req.Status == "" {
		req.Status = product.StatusAvailable
	} else if _, err := product.ParseStatus(string(req.Status)); err != nil {
		return 0, &ValidationError{Field: "status", Reason: err.Error()}
	}

	id, err := newProductID(func(id int64) bool {
		_, exists := d.store.ProductByID(id)
		return exists
	})
	if err != nil {
		return 0, err
	}

	p := product.Product{
		ID:       id,
		Name:     req.Name,
		Price:    req.Price,
		Currency: req.Currency,
		Image:    req.Image,
		Status:   req.Status,
	}

	err = d.run(ctx, "create_product", ProductKey(id), "Deploying product", func(ctx context.Context) error {
		if err := d.actors.CreateProduct(ctx, p); err != nil {
			return err
		}
		return d.reloader.ReloadProducts(ctx)
	})
	if err != nil {
		return 0, err
	}

	d.lg.Info("product created", zap.Int64("id", id), zap.String("name", p.Name))
	return id, nil
}

// UpdateProductStatus dispatches a status change for the product with the
// given id. The full record with the new status is sent to the actor; the
// snapshot is reloaded on success.
func (d *Dispatcher) UpdateProductStatus(ctx context.Context, id int64, status product.Status) error {
	if _, err := product.ParseStatus(string(status)); err != nil {
		return &ValidationError{Field: "status", Reason: err.Error()}
	}
	p, ok := d.store.ProductByID(id)
	if !ok {
		return product.ErrNotFound
	}
	p.Status = status

	err := d.run(ctx, "update_product_status", ProductKey(id), "Shifting status", func(ctx context.Context) error {
		if err := d.actors.UpdateProduct(ctx, p); err != nil {
			return err
		}
		return d.reloader.ReloadProducts(ctx)
	})
	if err != nil {
		return err
	}

	d.lg.Info("product status updated", zap.Int64("id", id), zap.String("status", string(status)))
	return nil
}

// ToggleProductStatus flips the product between Available and Not
// Available based on its current snapshot state.
func (d *Dispatcher) ToggleProductStatus(ctx context.Context, id int64) (product.Status, error) {
	p, ok := d.store.ProductByID(id)
	if !ok {
		return "", product.ErrNotFound
	}
	next := p.Status.Toggle()
	if err := d.UpdateProductStatus(ctx, id, next); err != nil {
		return "", err
	}
	return next, nil
}

// DeleteProduct dispatches the delete command for the product with the
// given id, then reloads the snapshot.
func (d *Dispatcher) DeleteProduct(ctx context.Context, id int64) error {
	p, ok := d.store.ProductByID(id)
	if !ok {
		return product.ErrNotFound
	}

	err := d.run(ctx, "delete_product", ProductKey(id), "Decommissioning product", func(ctx context.Context) error {
		if err := d.actors.DeleteProduct(ctx, p); err != nil {
			return err
		}
		return d.reloader.ReloadProducts(ctx)
	})
	if err != nil {
		return err
	}

	d.lg.Info("product deleted", zap.Int64("id", id))
	return nil
}

// UpdateOrderStatus performs the targeted store write for an order status
// change and reconciles by patching the local snapshot in place. No
// reload happens for this one field.
func (d *Dispatcher) UpdateOrderStatus(ctx context.Context, id string, status order.Status) error {
	if _, err := order.ParseStatus(string(status)); err != nil {
		return &ValidationError{Field: "status", Reason: err.Error()}
	}
	if _, ok := d.store.OrderByID(id); !ok {
		return order.ErrNotFound
	}

	msg := fmt.Sprintf("Updating status to %s", status)
	err := d.run(ctx, "update_order_status", OrderKey(id), msg, func(ctx context.Context) error {
		if err := d.orders.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		d.store.PatchOrderStatus(id, status)
		return nil
	})
	if err != nil {
		return err
	}

	d.lg.Info("order status updated", zap.String("id", id), zap.String("status", string(status)))
	return nil
}

// run executes one command under the entity lock and the busy signal.
// Both are released on every exit path; a failed command leaves no
// partial local state behind.
func (d *Dispatcher) run(ctx context.Context, command, key, message string, op func(ctx context.Context) error) error {
	if !d.locks.TryAcquire(key) {
		d.metrics.recordContention(ctx, command)
		d.lg.Debug("command refused, entity busy", zap.String("key", key))
		return ErrLockContention
	}
	defer d.locks.Release(key)

	d.busy.Set(message)
	defer d.busy.Clear()

	ctx, span := startSpan(ctx, command)
	defer span.End()

	err := op(ctx)
	d.metrics.record(ctx, command, err)
	if err != nil {
		d.lg.Warn("command failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
