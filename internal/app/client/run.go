// Package client runs a smoke pass of the storefront stores against a live
// backend and logs what a landing page would show.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	cataloggateway "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/gateway"
	catalogobs "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/storefront-state/internal/domains/catalog/application"
	ordersgateway "github.com/Apurer/storefront-state/internal/domains/orders/adapters/gateway"
	ordersobs "github.com/Apurer/storefront-state/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/storefront-state/internal/domains/orders/application"
	platformobservability "github.com/Apurer/storefront-state/internal/platform/observability"
	"github.com/Apurer/storefront-state/internal/shared/loadstate"
)

const serviceName = "storefront-client"

// Report is the outcome of one smoke pass.
type Report struct {
	MainCategories []string
	Subcategories  map[string][]string
	Recommended    []string
	SearchResults  []string
	Orders         int
}

// Run loads configuration, wires the stores, and performs one smoke pass.
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

	httpClient := storefront.NewHTTPClient(cfg.HTTPTimeout,
		otelhttp.WithTracerProvider(instruments.TracerProvider),
		otelhttp.WithMeterProvider(instruments.MeterProvider))
	api, err := storefront.NewClient(cfg.BaseURL, storefront.WithHTTPClient(httpClient))
	if err != nil {
		return err
	}

	catalog := catalogapp.NewStore(
		catalogobs.New(cataloggateway.New(api),
			catalogobs.WithLogger(logger),
			catalogobs.WithTracer(instruments.Tracer("internal.catalog.gateway")),
			catalogobs.WithMeter(instruments.Meter("internal.catalog.gateway"))),
		catalogapp.WithLogger(logger))
	orders := ordersapp.NewStore(
		ordersobs.NewGateway(ordersgateway.New(api),
			ordersobs.WithLogger(logger),
			ordersobs.WithTracer(instruments.Tracer("internal.orders.gateway")),
			ordersobs.WithMeter(instruments.Meter("internal.orders.gateway"))),
		ordersapp.WithStoreLogger(logger))

	logger.Info("running storefront smoke pass", slog.String("base_url", cfg.BaseURL))
	report, err := Smoke(ctx, catalog, orders, cfg.SearchTerm)
	logger.Info("storefront smoke pass finished",
		slog.Any("main_categories", report.MainCategories),
		slog.Any("subcategories", report.Subcategories),
		slog.Any("recommended", report.Recommended),
		slog.Any("search_results", report.SearchResults),
		slog.Int("orders", report.Orders))
	return err
}

// Smoke bootstraps the catalog, fetches orders, and optionally searches.
// Every failed fetch is joined into the returned error; the report carries
// whatever did load.
func Smoke(ctx context.Context, catalog *catalogapp.Store, orders *ordersapp.Store, searchTerm string) (Report, error) {
	landing := catalog.Bootstrap(ctx)
	orders.FetchOrders(ctx)

	report := Report{
		MainCategories: landing.MainCategories(),
		Subcategories:  map[string][]string{},
	}
	for _, label := range report.MainCategories {
		for _, sub := range landing.SubcategoriesByMainCategory(label) {
			report.Subcategories[label] = append(report.Subcategories[label], sub.SubCategoryName)
		}
	}
	for _, p := range landing.Recommended.Value {
		report.Recommended = append(report.Recommended, p.Name)
	}

	errs := []error{
		slotError("categories", landing.Categories.Status, landing.Categories.Err),
		slotError("recommended", landing.Recommended.Status, landing.Recommended.Err),
	}
	if searchTerm != "" {
		catalog.SearchProducts(ctx, searchTerm)
		results := catalog.Snapshot().SearchResults
		for _, p := range results.Value {
			report.SearchResults = append(report.SearchResults, p.Name)
		}
		errs = append(errs, slotError("search", results.Status, results.Err))
	}
	orderState := orders.Snapshot().Orders
	report.Orders = len(orderState.Value)
	errs = append(errs, slotError("orders", orderState.Status, orderState.Err))
	return report, errors.Join(errs...)
}

func slotError(kind string, status loadstate.Status, err error) error {
	if status != loadstate.StatusError {
		return nil
	}
	return fmt.Errorf("%s: %w", kind, err)
}
