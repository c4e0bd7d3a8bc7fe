package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-state/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

const tracerName = "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/observability/gateway"

// Gateway decorates the catalog gateway with tracing, logging, and metrics.
type Gateway struct {
	inner   ports.Gateway
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics gatewayMetrics
}

type Option func(*Gateway)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(g *Gateway) {
		g.metrics = newGatewayMetrics(m)
	}
}

// New wraps a catalog gateway.
func New(inner ports.Gateway, opts ...Option) ports.Gateway {
	g := &Gateway{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newGatewayMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.tracer == nil {
		g.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return g
}

func (g *Gateway) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	attrs := filterAttributes(filter)
	ctx, span := g.tracer.Start(ctx, "CatalogGateway.ListProducts", trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	result, err := g.inner.ListProducts(ctx, filter)
	g.metrics.record(ctx, "list_products", start, err)
	if err != nil {
		return nil, g.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("catalog.products.count", len(result)))
	g.logDebug(ctx, "products listed", slog.Int("count", len(result)))
	return result, nil
}

func (g *Gateway) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := g.tracer.Start(ctx, "CatalogGateway.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	start := time.Now()
	result, err := g.inner.GetProduct(ctx, id)
	g.metrics.record(ctx, "get_product", start, err)
	if err != nil {
		return nil, g.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	span.SetAttributes(attribute.Bool("product.found", result != nil))
	if result == nil {
		g.logDebug(ctx, "product payload empty", slog.Int64("product.id", id))
	}
	return result, nil
}

func (g *Gateway) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := g.tracer.Start(ctx, "CatalogGateway.ListCategories")
	defer span.End()

	start := time.Now()
	result, err := g.inner.ListCategories(ctx)
	g.metrics.record(ctx, "list_categories", start, err)
	if err != nil {
		return nil, g.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("catalog.categories.count", len(result)))
	return result, nil
}

func (g *Gateway) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if g.logger == nil {
		return
	}
	g.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (g *Gateway) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if status := apierrors.StatusOf(err); status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if g.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		g.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func filterAttributes(filter domain.ProductFilter) []attribute.KeyValue {
	filter = filter.Normalize()
	var attrs []attribute.KeyValue
	if filter.CategoryID != nil {
		attrs = append(attrs, attribute.Int64("catalog.filter.category_id", *filter.CategoryID))
	}
	if filter.Recommended != nil {
		attrs = append(attrs, attribute.Bool("catalog.filter.recommended", *filter.Recommended))
	}
	if filter.SearchTerm != nil {
		attrs = append(attrs, attribute.String("catalog.filter.search_term", *filter.SearchTerm))
	}
	return attrs
}

type gatewayMetrics struct {
	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

func newGatewayMetrics(m metric.Meter) gatewayMetrics {
	if m == nil {
		return gatewayMetrics{}
	}
	requests, _ := m.Int64Counter("catalog.gateway.requests", metric.WithDescription("Number of catalog gateway calls"))
	latency, _ := m.Float64Histogram("catalog.gateway.duration", metric.WithDescription("Catalog gateway call latency"), metric.WithUnit("s"))
	return gatewayMetrics{requests: requests, latency: latency}
}

func (m gatewayMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, apierrors.ErrTransport):
		outcome = "transport_error"
	case err != nil:
		outcome = "error"
	}
	attrs := metric.WithAttributes(attribute.String("catalog.operation", op), attribute.String("outcome", outcome))
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if m.latency != nil {
		m.latency.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

var _ ports.Gateway = (*Gateway)(nil)
