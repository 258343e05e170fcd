// Package api exposes the presentation-facing surface over HTTP: the
// current snapshots, derived stats, filtered views, the busy signal, the
// store error flag, and the mutating command endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storedash/internal/dispatch"
	"github.com/xenking/storedash/internal/domain/order"
	"github.com/xenking/storedash/internal/domain/product"
	"github.com/xenking/storedash/internal/store"
)

// Commander is the slice of the dispatcher the HTTP layer needs.
type Commander interface {
	CreateProduct(ctx context.Context, req dispatch.CreateProductRequest) (int64, error)
	UpdateProductStatus(ctx context.Context, id int64, status product.Status) error
	ToggleProductStatus(ctx context.Context, id int64) (product.Status, error)
	DeleteProduct(ctx context.Context, id int64) error
	UpdateOrderStatus(ctx context.Context, id string, status order.Status) error
}

// Refresher triggers full snapshot loads and reports the sticky store
// read error.
type Refresher interface {
	Refresh(ctx context.Context) error
	Err() error
}

// Counts holds remote row counts for the diagnostics endpoint.
type Counts struct {
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}

// CountsFunc reads remote row counts directly from the store.
type CountsFunc func(ctx context.Context) (Counts, error)

// Handler serves the dashboard API.
type Handler struct {
	store    *store.Store
	commands Commander
	sync     Refresher
	busy     *dispatch.Busy
	counts   CountsFunc
}

// NewHandler constructs a Handler with the required collaborators.
func NewHandler(st *store.Store, commands Commander, sync Refresher, busy *dispatch.Busy, counts CountsFunc) *Handler {
	return &Handler{
		store:    st,
		commands: commands,
		sync:     sync,
		busy:     busy,
		counts:   counts,
	}
}

// Register attaches all API routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/stats", h.productStats)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("POST /api/products/{id}/status", h.updateProductStatus)
	mux.HandleFunc("POST /api/products/{id}/toggle", h.toggleProductStatus)
	mux.HandleFunc("DELETE /api/products/{id}", h.deleteProduct)

	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/selected", h.selectedOrder)
	mux.HandleFunc("POST /api/orders/{id}/select", h.selectOrder)
	mux.HandleFunc("POST /api/orders/{id}/status", h.updateOrderStatus)

	mux.HandleFunc("POST /api/refresh", h.refresh)
	mux.HandleFunc("GET /api/state", h.state)
	mux.HandleFunc("GET /api/diagnostics", h.diagnostics)
}

// errorResponse is the uniform error body for every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// writeCommandErr maps dispatcher errors onto HTTP statuses. Lock
// contention is a quiet 409: the duplicate intent is refused, not failed.
func writeCommandErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr *dispatch.ValidationError
		tErr *dispatch.TransportError
	)
	switch {
	case errors.Is(err, dispatch.ErrLockContention):
		writeErr(w, http.StatusConflict, "operation already in progress")
	case errors.Is(err, product.ErrNotFound), errors.Is(err, order.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.As(err, &vErr):
		writeErr(w, http.StatusUnprocessableEntity, vErr.Error())
	case errors.As(err, &tErr):
		writeErr(w, http.StatusBadGateway, tErr.Error())
	default:
		zctx.From(r.Context()).Error("command failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
