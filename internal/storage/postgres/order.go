package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storedash/internal/domain/order"
)

const (
	listOrdersSQL = `SELECT id, customer_name, created_at, total_price, items, status
		FROM orders ORDER BY created_at DESC`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items live in a JSONB column as denormalized value copies.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus sets the status of one order by id equality match. It
// returns order.ErrNotFound when no row matched.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating order %q status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o     order.Order
		total decimal.Decimal
		items []byte
	)
	err := row.Scan(&o.ID, &o.CustomerName, &o.CreatedAt, &total, &items, &o.Status)
	if err != nil {
		return order.Order{}, err
	}
	o.TotalPrice = total

	// A real order always has items; an absent column is a data problem
	// we surface as a read error instead of crashing downstream.
	if len(items) == 0 {
		return order.Order{}, fmt.Errorf("order %q has no items payload", o.ID)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("decoding items for order %q: %w", o.ID, err)
	}
	return o, nil
}
