package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storedash/internal/domain/product"
)

const listProductsSQL = `SELECT id, name, price, currency, image, status
	FROM products ORDER BY id DESC`

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
// It is read-only: catalog writes happen through the actor endpoints.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns the full catalog, newest id first.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p        product.Product
		price    decimal.Decimal
		currency string
		status   string
	)
	err := row.Scan(&p.ID, &p.Name, &price, &currency, &p.Image, &status)
	p.Price = price
	p.Currency = product.Currency(currency)
	p.Status = product.Status(status)
	return p, err
}
