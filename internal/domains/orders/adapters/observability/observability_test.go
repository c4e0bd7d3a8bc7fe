package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
	"github.com/Apurer/storefront-state/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

type stubService struct {
	order *domain.Order
	err   error
}

func (s stubService) PlaceOrder(context.Context, domain.PlaceOrderInput, string) (*domain.Order, error) {
	return s.order, s.err
}

func (s stubService) GetOrderByID(context.Context, int64) (*domain.Order, error) {
	return s.order, s.err
}

func (s stubService) ListOrders(context.Context) ([]*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Order{s.order}, nil
}

type stubGateway struct {
	order *domain.Order
	err   error
}

func (s stubGateway) ListOrders(context.Context) ([]domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Order{*s.order}, nil
}

func (s stubGateway) GetOrder(context.Context, int64) (*domain.Order, error) {
	return s.order, s.err
}

func (s stubGateway) CreateOrder(context.Context, domain.PlaceOrderInput, string) (*domain.Order, error) {
	return s.order, s.err
}

var (
	_ ports.Service = stubService{}
	_ ports.Gateway = stubGateway{}
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:        7,
		Items:     []domain.Item{{ProductID: 1, Quantity: 2}},
		Total:     decimal.RequireFromString("25"),
		Status:    domain.StatusCreated,
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_CountsPlacedAndRejected(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	recorder, tp := newRecorder()
	ctx := context.Background()

	ok := NewService(stubService{order: sampleOrder()}, WithTracer(tp.Tracer("test")), WithMeter(meter))
	_, err := ok.PlaceOrder(ctx, domain.PlaceOrderInput{Items: sampleOrder().Items}, "k")
	require.NoError(t, err)

	failing := NewService(stubService{err: errors.New("boom")}, WithTracer(tp.Tracer("test")), WithMeter(meter))
	_, err = failing.PlaceOrder(ctx, domain.PlaceOrderInput{}, "")
	require.Error(t, err)

	assert.Equal(t, int64(1), counterTotal(t, reader, "orders.service.orders_placed"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "orders.service.orders_rejected"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "OrderService.PlaceOrder", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestGateway_TracesCallsAndErrors(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	recorder, tp := newRecorder()
	ctx := context.Background()

	gw := NewGateway(stubGateway{order: sampleOrder()}, WithTracer(tp.Tracer("test")), WithMeter(meter))
	created, err := gw.CreateOrder(ctx, domain.PlaceOrderInput{Items: sampleOrder().Items}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	failure := apierrors.NewTransportError("list orders", 502, "bad gateway", nil)
	broken := NewGateway(stubGateway{err: failure}, WithTracer(tp.Tracer("test")), WithMeter(meter))
	_, err = broken.ListOrders(ctx)
	require.ErrorIs(t, err, apierrors.ErrTransport)

	assert.Equal(t, int64(2), counterTotal(t, reader, "orders.gateway.requests"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "OrdersGateway.CreateOrder", spans[0].Name())
	assert.Equal(t, "OrdersGateway.ListOrders", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestNilOptionsAreIgnored(t *testing.T) {
	svc := NewService(stubService{order: sampleOrder()}, nil, WithLogger(nil), WithTracer(nil))
	got, err := svc.GetOrderByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	gw := NewGateway(stubGateway{order: sampleOrder()}, nil, WithLogger(nil))
	list, err := gw.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
