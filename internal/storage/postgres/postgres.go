// Package postgres implements the store read contract and the one
// targeted order write against PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storedash/db"
)

// NewPool creates a pgxpool.Pool configured with shopspring/decimal
// support for NUMERIC columns.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, db.Schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// CollectionCounts holds row counts per collection, used by the
// diagnostics endpoint.
type CollectionCounts struct {
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}

// CountRows reads the current row count of both collections.
func CountRows(ctx context.Context, pool *pgxpool.Pool) (CollectionCounts, error) {
	var counts CollectionCounts
	err := pool.QueryRow(ctx,
		`SELECT (SELECT count(*) FROM products), (SELECT count(*) FROM orders)`,
	).Scan(&counts.Products, &counts.Orders)
	if err != nil {
		return CollectionCounts{}, fmt.Errorf("counting rows: %w", err)
	}
	return counts, nil
}
