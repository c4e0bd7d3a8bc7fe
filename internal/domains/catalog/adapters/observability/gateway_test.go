package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	catalogapp "github.com/Apurer/storefront-state/internal/domains/catalog/application"
	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

type stubGateway struct {
	products []domain.Product
	product  *domain.Product
	err      error
}

func (s stubGateway) ListProducts(context.Context, domain.ProductFilter) ([]domain.Product, error) {
	return s.products, s.err
}

func (s stubGateway) GetProduct(context.Context, int64) (*domain.Product, error) {
	return s.product, s.err
}

func (s stubGateway) ListCategories(context.Context) ([]domain.Category, error) {
	return nil, s.err
}

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func TestGateway_PassesThroughAndTraces(t *testing.T) {
	recorder, tp := newRecorder()
	gw := New(stubGateway{products: []domain.Product{{ID: 1, Name: "Mug"}}}, WithTracer(tp.Tracer("test")))

	products, err := gw.ListProducts(context.Background(), domain.Search("mug"))
	require.NoError(t, err)
	assert.Len(t, products, 1)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "CatalogGateway.ListProducts", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestGateway_RecordsErrors(t *testing.T) {
	recorder, tp := newRecorder()
	failure := apierrors.NewTransportError("GET /products/7", 503, "down", nil)
	gw := New(stubGateway{err: failure}, WithTracer(tp.Tracer("test")))

	_, err := gw.GetProduct(context.Background(), 7)
	require.ErrorIs(t, err, apierrors.ErrTransport)
	assert.True(t, errors.Is(err, failure))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events())
}

func TestGateway_NilOptionsAreIgnored(t *testing.T) {
	gw := New(stubGateway{}, nil, WithLogger(nil), WithMeter(nil))
	product, err := gw.GetProduct(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestGateway_FailedFetchIsLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	failure := apierrors.NewTransportError("GET /products", 503, "down", nil)
	store := catalogapp.NewStore(New(stubGateway{err: failure}, WithLogger(logger)), catalogapp.WithLogger(logger))

	store.FetchProducts(context.Background(), domain.ProductFilter{})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"level":"ERROR"`)
	assert.Contains(t, lines[0], "down")
	assert.ErrorIs(t, store.Snapshot().Products.Err, apierrors.ErrTransport)
}
