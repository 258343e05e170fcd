package api

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xenking/storedash/internal/dispatch"
	"github.com/xenking/storedash/internal/domain/product"
)

// productListResponse carries the filtered view plus the stats derived
// from the full snapshot, so a client never computes counts itself.
type productListResponse struct {
	Products []product.Product `json:"products"`
	Stats    product.Stats     `json:"stats"`
	Filter   product.Filter    `json:"filter"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := product.FilterAll
	if raw := r.URL.Query().Get("status"); raw != "" {
		f, err := product.ParseFilter(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		filter = f
	}

	snapshot := h.store.Products()
	writeJSON(w, http.StatusOK, productListResponse{
		Products: product.FilterByStatus(snapshot, filter),
		Stats:    product.ComputeStats(snapshot),
		Filter:   filter,
	})
}

func (h *Handler) productStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, product.ComputeStats(h.store.Products()))
}

// createProductRequest is the wire form of a product creation command.
// The id is assigned server-side.
type createProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Image    string          `json:"image"`
	Status   string          `json:"status"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id, err := h.commands.CreateProduct(r.Context(), dispatch.CreateProductRequest{
		Name:     req.Name,
		Price:    req.Price,
		Currency: product.Currency(req.Currency),
		Image:    req.Image,
		Status:   product.Status(req.Status),
	})
	if err != nil {
		writeCommandErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateProductStatus(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.commands.UpdateProductStatus(r.Context(), id, product.Status(req.Status)); err != nil {
		writeCommandErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleProductStatus(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.commands.ToggleProductStatus(r.Context(), id)
	if err != nil {
		writeCommandErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]product.Status{"status": status})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.commands.DeleteProduct(r.Context(), id); err != nil {
		writeCommandErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func productID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
