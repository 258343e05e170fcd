//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestState_IdleBetweenCommands(t *testing.T) {
	resp := doGet(t, "/api/state")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	state := decodeJSON[stateResponse](t, resp)
	if state.Busy.Active {
		t.Errorf("busy signal active with no command in flight: %+v", state.Busy)
	}
	if state.StoreError != "" {
		t.Errorf("unexpected store error: %q", state.StoreError)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	refresh(t)
}

func TestDiagnostics(t *testing.T) {
	resp := doGet(t, "/api/diagnostics")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	type counts struct {
		Products int64 `json:"products"`
		Orders   int64 `json:"orders"`
	}
	type diagnostics struct {
		Remote   counts `json:"remote"`
		Snapshot counts `json:"snapshot"`
	}

	diag := decodeJSON[diagnostics](t, resp)

	if diag.Remote.Products == 0 {
		t.Error("remote product count is zero after seeding")
	}
	if diag.Remote.Orders == 0 {
		t.Error("remote order count is zero after seeding")
	}
}
