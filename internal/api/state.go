package api

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storedash/internal/dispatch"
)

// stateResponse is the advisory gating state for the presentation layer:
// the global busy signal plus the sticky store-level read error.
type stateResponse struct {
	Busy       dispatch.BusySignal `json:"busy"`
	StoreError string              `json:"store_error,omitempty"`
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{Busy: h.busy.State()}
	if err := h.sync.Err(); err != nil {
		resp.StoreError = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Refresh(r.Context()); err != nil {
		zctx.From(r.Context()).Error("manual refresh failed", zap.Error(err))
		writeErr(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// diagnosticsResponse mirrors the dashboard's database diagnostic view:
// remote row counts against the locally cached snapshot sizes.
type diagnosticsResponse struct {
	Remote   Counts `json:"remote"`
	Snapshot Counts `json:"snapshot"`
}

func (h *Handler) diagnostics(w http.ResponseWriter, r *http.Request) {
	remote, err := h.counts(r.Context())
	if err != nil {
		writeErr(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, diagnosticsResponse{
		Remote: remote,
		Snapshot: Counts{
			Products: int64(len(h.store.Products())),
			Orders:   int64(len(h.store.Orders())),
		},
	})
}
