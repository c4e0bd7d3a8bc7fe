package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
	"github.com/Apurer/storefront-state/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

const gatewayTracerName = "github.com/Apurer/storefront-state/internal/domains/orders/adapters/observability/gateway"

// Gateway decorates the client-side orders gateway.
type Gateway struct {
	inner    ports.Gateway
	tracer   trace.Tracer
	logger   *slog.Logger
	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewGateway wraps an orders gateway.
func NewGateway(inner ports.Gateway, opts ...Option) ports.Gateway {
	o := collect(gatewayTracerName, opts)
	g := &Gateway{inner: inner, tracer: o.tracer, logger: o.logger}
	if o.meter != nil {
		g.requests, _ = o.meter.Int64Counter("orders.gateway.requests", metric.WithDescription("Number of orders gateway calls"))
		g.latency, _ = o.meter.Float64Histogram("orders.gateway.duration", metric.WithDescription("Orders gateway call latency"), metric.WithUnit("s"))
	}
	return g
}

func (g *Gateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	ctx, span := g.tracer.Start(ctx, "OrdersGateway.ListOrders")
	defer span.End()

	start := time.Now()
	result, err := g.inner.ListOrders(ctx)
	g.record(ctx, "list_orders", start, err)
	if err != nil {
		return nil, g.fail(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (g *Gateway) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := g.tracer.Start(ctx, "OrdersGateway.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	start := time.Now()
	result, err := g.inner.GetOrder(ctx, id)
	g.record(ctx, "get_order", start, err)
	if err != nil {
		return nil, g.fail(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.found", result != nil))
	return result, nil
}

func (g *Gateway) CreateOrder(ctx context.Context, input domain.PlaceOrderInput, idempotencyKey string) (*domain.Order, error) {
	ctx, span := g.tracer.Start(ctx, "OrdersGateway.CreateOrder",
		trace.WithAttributes(attribute.Int("order.items", len(input.Items)), attribute.String("idempotency.key", idempotencyKey)))
	defer span.End()

	start := time.Now()
	result, err := g.inner.CreateOrder(ctx, input, idempotencyKey)
	g.record(ctx, "create_order", start, err)
	if err != nil {
		return nil, g.fail(ctx, span, err, "failed to create order", slog.String("idempotency.key", idempotencyKey))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	g.logger.LogAttrs(ctx, slog.LevelInfo, "order created", slog.Int64("order.id", result.ID))
	return result, nil
}

func (g *Gateway) fail(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if status := apierrors.StatusOf(err); status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	return handleError(ctx, g.logger, span, err, msg, attrs...)
}

func (g *Gateway) record(ctx context.Context, op string, start time.Time, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, apierrors.ErrTransport):
		outcome = "transport_error"
	case err != nil:
		outcome = "error"
	}
	attrs := metric.WithAttributes(attribute.String("orders.operation", op), attribute.String("outcome", outcome))
	if g.requests != nil {
		g.requests.Add(ctx, 1, attrs)
	}
	if g.latency != nil {
		g.latency.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

var _ ports.Gateway = (*Gateway)(nil)
