// Package storefront is the JSON/HTTP gateway to the storefront backend.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080/api"

const defaultTimeout = 10 * time.Second

// HTTPRequestDoer performs HTTP requests.
type HTTPRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues typed requests against the storefront API. It holds no
// per-request state and is safe for concurrent use.
type Client struct {
	server *url.URL
	doer   HTTPRequestDoer
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithHTTPClient overrides the request doer. The default is an
// otelhttp-instrumented *http.Client with a 10s timeout.
func WithHTTPClient(doer HTTPRequestDoer) ClientOption {
	return func(c *Client) error {
		if doer == nil {
			return errors.New("http client is nil")
		}
		c.doer = doer
		return nil
	}
}

// NewHTTPClient builds the default instrumented HTTP client.
func NewHTTPClient(timeout time.Duration, opts ...otelhttp.Option) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
		Timeout:   timeout,
	}
}

// NewClient instantiates the gateway for baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("storefront base URL is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	server, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse storefront base URL: %w", err)
	}
	if server.Scheme == "" || server.Host == "" {
		return nil, fmt.Errorf("storefront base URL %q must be absolute", baseURL)
	}
	c := &Client{server: server}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.doer == nil {
		c.doer = NewHTTPClient(defaultTimeout)
	}
	return c, nil
}

// RequestOption configures a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	idempotencyKey string
}

// WithIdempotencyKey sets the Idempotency-Key header for the request.
func WithIdempotencyKey(key string) RequestOption {
	return func(opts *requestOptions) {
		opts.idempotencyKey = strings.TrimSpace(key)
	}
}

// ListProducts calls GET /products.
func (c *Client) ListProducts(ctx context.Context, params *ListProductsParams) ([]Product, error) {
	const op = "list products"
	query := url.Values{}
	if params != nil {
		if params.CategoryID != nil {
			if err := addQueryParam(query, "categoryId", *params.CategoryID); err != nil {
				return nil, apierrors.NewTransportError(op, 0, "", err)
			}
		}
		if params.Recommended != nil {
			if err := addQueryParam(query, "recommended", *params.Recommended); err != nil {
				return nil, apierrors.NewTransportError(op, 0, "", err)
			}
		}
		if params.SearchTerm != nil {
			if err := addQueryParam(query, "searchTerm", *params.SearchTerm); err != nil {
				return nil, apierrors.NewTransportError(op, 0, "", err)
			}
		}
	}
	var products []Product
	if _, err := c.do(ctx, op, http.MethodGet, "/products", query, nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct calls GET /products/{id}. A nil product with a nil error means
// the backend answered with an empty body.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	const op = "get product"
	path, err := idPath("/products", id)
	if err != nil {
		return nil, apierrors.NewTransportError(op, 0, "", err)
	}
	var product Product
	found, err := c.do(ctx, op, http.MethodGet, path, nil, nil, nil, &product)
	if err != nil || !found {
		return nil, err
	}
	return &product, nil
}

// ListCategories calls GET /categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if _, err := c.do(ctx, "list categories", http.MethodGet, "/categories", nil, nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateOrder calls POST /orders.
func (c *Client) CreateOrder(ctx context.Context, body CreateOrderRequest, optFns ...RequestOption) (*Order, error) {
	const op = "create order"
	var opts requestOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	headers := http.Header{}
	if opts.idempotencyKey != "" {
		headers.Set("Idempotency-Key", opts.idempotencyKey)
	}
	var order Order
	found, err := c.do(ctx, op, http.MethodPost, "/orders", nil, body, headers, &order)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierrors.NewTransportError(op, http.StatusOK, "backend returned an empty order", nil)
	}
	return &order, nil
}

// ListOrders calls GET /orders.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if _, err := c.do(ctx, "list orders", http.MethodGet, "/orders", nil, nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder calls GET /orders/{id}. A nil order with a nil error means the
// backend answered with an empty body.
func (c *Client) GetOrder(ctx context.Context, id int64) (*Order, error) {
	const op = "get order"
	path, err := idPath("/orders", id)
	if err != nil {
		return nil, apierrors.NewTransportError(op, 0, "", err)
	}
	var order Order
	found, err := c.do(ctx, op, http.MethodGet, path, nil, nil, nil, &order)
	if err != nil || !found {
		return nil, err
	}
	return &order, nil
}

// do sends the request and decodes a JSON body into out. It reports false
// when the response body is empty or JSON null.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, headers http.Header, out any) (bool, error) {
	if c == nil || c.doer == nil {
		return false, apierrors.NewTransportError(op, 0, "", errors.New("storefront client not configured"))
	}
	target, err := c.server.Parse("." + path)
	if err != nil {
		return false, apierrors.NewTransportError(op, 0, "", err)
	}
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return false, apierrors.NewTransportError(op, 0, "", fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return false, apierrors.NewTransportError(op, 0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	res, err := c.doer.Do(req)
	if err != nil {
		return false, apierrors.NewTransportError(op, 0, "", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return false, apierrors.NewTransportError(op, res.StatusCode, "", fmt.Errorf("read response: %w", err))
	}
	if res.StatusCode >= http.StatusBadRequest {
		return false, apierrors.NewTransportError(op, res.StatusCode, errorMessage(raw), nil)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return false, apierrors.NewTransportError(op, res.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return true, nil
}

func addQueryParam(query url.Values, name string, value any) error {
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return err
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return err
	}
	for k, values := range parsed {
		for _, v := range values {
			query.Add(k, v)
		}
	}
	return nil
}

func idPath(prefix string, id int64) (string, error) {
	param, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", err
	}
	return prefix + "/" + param, nil
}

func errorMessage(raw []byte) string {
	var body ErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, candidate := range []*string{body.Message, body.Detail, body.Title} {
		if candidate == nil {
			continue
		}
		if msg := strings.TrimSpace(*candidate); msg != "" {
			return msg
		}
	}
	return ""
}
