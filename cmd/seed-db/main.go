package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storedash/internal/storage/postgres"
)

type productJSON struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Image    string          `json:"image"`
	Status   string          `json:"status"`
}

type orderJSON struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       string          `json:"status"`
	Items        json.RawMessage `json:"items"`
}

const (
	upsertProductSQL = `INSERT INTO products (id, name, price, currency, image, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			image = EXCLUDED.image,
			status = EXCLUDED.status`

	upsertOrderSQL = `INSERT INTO orders (id, customer_name, total_price, items, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			total_price = EXCLUDED.total_price,
			items = EXCLUDED.items,
			status = EXCLUDED.status`
)

func main() {
	var (
		databaseURL  string
		productsFile string
		ordersFile   string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&ordersFile, "orders-file", "db/seed/orders.json", "path to orders JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, ordersFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, ordersFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedOrders(ctx, pool, ordersFile); err != nil {
		return errors.Wrap(err, "seed orders")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Price, p.Currency, p.Image, p.Status,
		); err != nil {
			return errors.Wrapf(err, "upsert product %d", p.ID)
		}

		slog.Info("upserted product", slog.Int64("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedOrders(ctx context.Context, pool *pgxpool.Pool, ordersFile string) error {
	slog.Info("reading orders file", slog.String("path", ordersFile))

	data, err := os.ReadFile(ordersFile)
	if err != nil {
		return errors.Wrap(err, "read orders file")
	}

	var orders []orderJSON
	if err := json.Unmarshal(data, &orders); err != nil {
		return errors.Wrap(err, "parse orders JSON")
	}

	slog.Info("upserting orders", slog.Int("count", len(orders)))

	for _, o := range orders {
		// Seed fixtures may omit ids; assign one so re-running the tool
		// keeps earlier rows intact instead of conflicting on them.
		if o.ID == "" {
			o.ID = uuid.NewString()
		}

		if _, err := pool.Exec(ctx, upsertOrderSQL,
			o.ID, o.CustomerName, o.TotalPrice, o.Items, o.Status,
		); err != nil {
			return errors.Wrapf(err, "upsert order %s", o.ID)
		}

		slog.Info("upserted order", slog.String("id", o.ID), slog.String("customer", o.CustomerName))
	}

	return nil
}
