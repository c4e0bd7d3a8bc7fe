// Package stub boots the storefront stub backend used for local development
// and end-to-end runs of the client stores.
package stub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/Apurer/storefront-state/go"

	catalogmemory "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-state/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-state/internal/domains/catalog/seed"
	ordersmemory "github.com/Apurer/storefront-state/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-state/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/storefront-state/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/storefront-state/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-state/internal/domains/orders/ports"
	"github.com/Apurer/storefront-state/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-state/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-state/internal/platform/postgres"
)

const serviceName = "storefront-stub"

// Run boots the stub backend and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	catalogRepo, orderRepo, cleanup := buildRepositories(ctx, cfg, logger)
	defer cleanup()
	if err := seedCatalog(ctx, cfg, catalogRepo, logger); err != nil {
		return err
	}

	orderService := ordersobs.NewService(
		ordersapp.NewService(orderRepo, catalogRepo, ordersapp.WithServiceLogger(logger)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	router := NewRouter(catalogRepo, orderService, otelgin.Middleware(serviceName))

	server := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront stub listening", slog.String("addr", cfg.Addr()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront stub exited", slog.String("addr", cfg.Addr()), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down storefront stub")
	return server.Shutdown(shutdownCtx)
}

// NewRouter assembles the stub HTTP API over the given repositories.
func NewRouter(catalog catalogports.Repository, orders ordersports.Service, middleware ...gin.HandlerFunc) *gin.Engine {
	handlers := storefrontserver.ApiHandleFunctions{
		CatalogAPI: storefrontserver.NewCatalogAPI(catalog),
		OrderAPI:   storefrontserver.NewOrderAPI(orders),
	}
	return storefrontserver.NewRouter(handlers, middleware...)
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (catalogports.Repository, ordersports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return catalogmemory.NewRepository(), ordersmemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to in-memory repositories", slog.String("error", err.Error()))
		cleanup()
		return catalogmemory.NewRepository(), ordersmemory.NewRepository(), func() {}
	}
	logger.Info("catalog and order repositories configured with postgres")
	return catalogpostgres.NewRepository(db), orderspostgres.NewRepository(db), cleanup
}

// seedCatalog loads the fixture into an empty catalog, or into any catalog
// when a reseed is requested.
func seedCatalog(ctx context.Context, cfg Config, repo catalogports.Repository, logger *slog.Logger) error {
	existing, err := repo.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return fmt.Errorf("inspect catalog: %w", err)
	}
	if len(existing) > 0 && !cfg.ReseedCatalog {
		logger.Info("catalog already populated, skipping seed", slog.Int("products", len(existing)))
		return nil
	}
	fixture, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	if err := fixture.Apply(ctx, repo); err != nil {
		return err
	}
	logger.Info("catalog seeded",
		slog.Int("categories", len(fixture.Categories)),
		slog.Int("products", len(fixture.Products)))
	return nil
}
