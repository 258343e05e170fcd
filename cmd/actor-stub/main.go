// Command actor-stub is a development stand-in for the external mutation
// webhooks. It accepts the same JSON product documents the real actors
// take and applies them straight to the database, so a locally running
// server sees its own mutations on reload.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
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

const (
	upsertSQL = `INSERT INTO products (id, name, price, currency, image, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			image = EXCLUDED.image,
			status = EXCLUDED.status`

	deleteSQL = `DELETE FROM products WHERE id = $1`
)

func main() {
	var (
		addr        string
		databaseURL string
		delay       time.Duration
	)

	flag.StringVar(&addr, "addr", "0.0.0.0:9090", "listen address")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.DurationVar(&delay, "delay", 0, "artificial latency per request, for exercising busy states")
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

	if err := run(ctx, addr, databaseURL, delay); err != nil {
		slog.Error("actor stub failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, addr, databaseURL string, delay time.Duration) error {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	s := &stub{pool: pool, delay: delay}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /create", s.handle("create", s.upsert))
	mux.HandleFunc("POST /update", s.handle("update", s.upsert))
	mux.HandleFunc("POST /delete", s.handle("delete", s.delete))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("actor stub listening", slog.String("addr", addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}

type stub struct {
	pool  *pgxpool.Pool
	delay time.Duration
}

func (s *stub) handle(op string, apply func(ctx context.Context, p productJSON) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p productJSON
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			slog.Warn("bad payload", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-r.Context().Done():
				return
			}
		}

		if err := apply(r.Context(), p); err != nil {
			slog.Error("apply failed", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		slog.Info("applied", slog.String("op", op), slog.Int64("id", p.ID))
		w.WriteHeader(http.StatusOK)
	}
}

func (s *stub) upsert(ctx context.Context, p productJSON) error {
	_, err := s.pool.Exec(ctx, upsertSQL, p.ID, p.Name, p.Price, p.Currency, p.Image, p.Status)
	return err
}

func (s *stub) delete(ctx context.Context, p productJSON) error {
	_, err := s.pool.Exec(ctx, deleteSQL, p.ID)
	return err
}
