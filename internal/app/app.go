package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/storedash/internal/actor"
	"github.com/xenking/storedash/internal/api"
	"github.com/xenking/storedash/internal/dispatch"
	"github.com/xenking/storedash/internal/storage/postgres"
	"github.com/xenking/storedash/internal/store"
	"github.com/xenking/storedash/internal/syncer"
	"github.com/xenking/storedash/pkg/health"
	"github.com/xenking/storedash/pkg/httpmiddleware"
)

// Run creates all dependencies, performs the initial snapshot load,
// starts the HTTP server, and handles graceful shutdown. It is the
// single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// Repositories over the remote store.
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	// Local state: entity store, sync controller, operation locks.
	entityStore := store.New()
	syncCtrl := syncer.NewController(productRepo, orderRepo, entityStore, lg.Named("syncer"))

	actorClient := actor.NewClient(actor.Endpoints{
		Create: cfg.Actors.CreateURL,
		Update: cfg.Actors.UpdateURL,
		Delete: cfg.Actors.DeleteURL,
	}, cfg.Actors.Timeout)

	busy := dispatch.NewBusy()
	dispatcher := dispatch.NewDispatcher(
		actorClient,
		orderRepo,
		entityStore,
		syncCtrl,
		dispatch.NewEntityLocks(),
		busy,
		lg.Named("dispatch"),
	)

	// Initial load. Failure is surfaced as the sticky store error, not a
	// startup failure: the operator retries via /api/refresh.
	if err := syncCtrl.Refresh(ctx); err != nil {
		lg.Warn("initial snapshot load failed", zap.Error(err))
	}

	// HTTP surface.
	h := api.NewHandler(entityStore, dispatcher, syncCtrl, busy, func(ctx context.Context) (api.Counts, error) {
		counts, err := postgres.CountRows(ctx, pool)
		if err != nil {
			return api.Counts{}, err
		}
		return api.Counts{Products: counts.Products, Orders: counts.Orders}, nil
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	instrumented := otelhttp.NewHandler(mux, "storedash",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

