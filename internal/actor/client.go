// Package actor implements the HTTP client for the external mutation
// endpoints. Each endpoint is an independently operated webhook that
// accepts a JSON product document and answers success or failure; what it
// does to the remote store afterwards is opaque to this system.
package actor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/storedash/internal/dispatch"
	"github.com/xenking/storedash/internal/domain/product"
)

// maxErrorBody caps how much of a failure response body is kept for the
// error message.
const maxErrorBody = 4 << 10

// Endpoints holds the webhook URL for each product mutation.
type Endpoints struct {
	Create string
	Update string
	Delete string
}

// Client posts product mutation commands to the configured endpoints.
// A response outside the 2xx range, a transport failure, or a timeout all
// surface as *dispatch.TransportError.
type Client struct {
	endpoints Endpoints
	http      *http.Client
}

var _ dispatch.ActorClient = (*Client)(nil)

// NewClient returns a Client with an instrumented transport. A zero
// timeout disables the client-side deadline.
func NewClient(endpoints Endpoints, timeout time.Duration) *Client {
	return &Client{
		endpoints: endpoints,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CreateProduct submits a new product record, including its
// client-generated id.
func (c *Client) CreateProduct(ctx context.Context, p product.Product) error {
	return c.post(ctx, "create product", c.endpoints.Create, p)
}

// UpdateProduct submits the full product record carrying the new status.
func (c *Client) UpdateProduct(ctx context.Context, p product.Product) error {
	return c.post(ctx, "update product", c.endpoints.Update, p)
}

// DeleteProduct submits the full record of the product to remove.
func (c *Client) DeleteProduct(ctx context.Context, p product.Product) error {
	return c.post(ctx, "delete product", c.endpoints.Delete, p)
}

func (c *Client) post(ctx context.Context, op, url string, p product.Product) error {
	body, err := json.Marshal(p)
	if err != nil {
		return errors.Wrapf(err, "%s: marshal payload", op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "%s: build request", op)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &dispatch.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &dispatch.TransportError{
			Op:     op,
			Status: resp.StatusCode,
			Body:   string(bytes.TrimSpace(text)),
		}
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
