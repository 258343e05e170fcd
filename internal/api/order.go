package api

import (
	"net/http"

	"github.com/xenking/storedash/internal/domain/order"
)

type orderListResponse struct {
	Orders     []order.Order `json:"orders"`
	SelectedID string        `json:"selected_id,omitempty"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	resp := orderListResponse{Orders: h.store.Orders()}
	if selected, ok := h.store.Selected(); ok {
		resp.SelectedID = selected.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) selectedOrder(w http.ResponseWriter, r *http.Request) {
	selected, ok := h.store.Selected()
	if !ok {
		writeErr(w, http.StatusNotFound, "no order selected")
		return
	}
	writeJSON(w, http.StatusOK, selected)
}

func (h *Handler) selectOrder(w http.ResponseWriter, r *http.Request) {
	if !h.store.Select(r.PathValue("id")) {
		writeErr(w, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id := r.PathValue("id")
	if err := h.commands.UpdateOrderStatus(r.Context(), id, order.Status(req.Status)); err != nil {
		writeCommandErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
