//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	list := listProducts(t)

	if len(list.Products) < 3 {
		t.Fatalf("expected at least 3 products, got %d", len(list.Products))
	}
	if list.Filter != "All" {
		t.Errorf("filter: got %q, want %q", list.Filter, "All")
	}
	if list.Stats.Total != len(list.Products) {
		t.Errorf("stats.total %d != %d products", list.Stats.Total, len(list.Products))
	}
	if list.Stats.Available+list.Stats.Unavailable != list.Stats.Total {
		t.Errorf("stats do not add up: %+v", list.Stats)
	}

	// Newest id first.
	for i := 1; i < len(list.Products); i++ {
		if list.Products[i-1].ID < list.Products[i].ID {
			t.Errorf("products not sorted by id desc at index %d", i)
		}
	}
}

func TestListProducts_SeededFields(t *testing.T) {
	list := listProducts(t)

	var cpu *productResponse
	for i := range list.Products {
		if list.Products[i].Name == "Quantum CPU V2" {
			cpu = &list.Products[i]
			break
		}
	}

	if cpu == nil {
		t.Fatal("seeded product 'Quantum CPU V2' not found")
	}
	if cpu.Price != "1299.99" {
		t.Errorf("price: got %q, want %q", cpu.Price, "1299.99")
	}
	if cpu.Currency != "USD" {
		t.Errorf("currency: got %q, want %q", cpu.Currency, "USD")
	}
	if cpu.Status != "Available" {
		t.Errorf("status: got %q, want %q", cpu.Status, "Available")
	}
	if cpu.Image == "" {
		t.Error("image is empty")
	}
}

func TestListProducts_Filter(t *testing.T) {
	resp := doGet(t, "/api/products?status=Not+Available")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productListResponse](t, resp)
	for _, p := range list.Products {
		if p.Status != "Not Available" {
			t.Errorf("product %d leaked into filtered view with status %q", p.ID, p.Status)
		}
	}
	// Stats always describe the full snapshot, not the filtered view.
	if list.Stats.Total < len(list.Products) {
		t.Errorf("stats.total %d smaller than filtered view %d", list.Stats.Total, len(list.Products))
	}
}

func TestListProducts_BadFilter(t *testing.T) {
	resp := doGet(t, "/api/products?status=Discontinued")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateProduct_Lifecycle(t *testing.T) {
	before := listProducts(t)

	resp := doPost(t, "/api/products", map[string]any{
		"name":  "Integration Widget",
		"price": "49.95",
		"image": "https://images.example.com/integration-widget.jpg",
	})
	if resp.StatusCode != http.StatusCreated {
		body := decodeJSON[errorResponse](t, resp)
		resp.Body.Close()
		t.Fatalf("create: expected 201, got %d (%s)", resp.StatusCode, body.Message)
	}
	created := decodeJSON[map[string]int64](t, resp)
	resp.Body.Close()

	id := created["id"]
	if id <= 0 {
		t.Fatalf("created id must be positive, got %d", id)
	}

	// The mutation round-tripped through the actor and back via reload.
	after := listProducts(t)
	if len(after.Products) != len(before.Products)+1 {
		t.Fatalf("expected %d products after create, got %d", len(before.Products)+1, len(after.Products))
	}

	var found *productResponse
	for i := range after.Products {
		if after.Products[i].ID == id {
			found = &after.Products[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("created product %d not in snapshot", id)
	}
	if found.Currency != "USD" {
		t.Errorf("default currency: got %q, want USD", found.Currency)
	}
	if found.Status != "Available" {
		t.Errorf("default status: got %q, want Available", found.Status)
	}

	// Toggle it off.
	resp = doPost(t, fmt.Sprintf("/api/products/%d/toggle", id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", resp.StatusCode)
	}
	toggled := decodeJSON[map[string]string](t, resp)
	resp.Body.Close()
	if toggled["status"] != "Not Available" {
		t.Errorf("toggle: got %q, want Not Available", toggled["status"])
	}

	// And delete it.
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.StatusCode)
	}

	final := listProducts(t)
	for _, p := range final.Products {
		if p.ID == id {
			t.Fatalf("product %d still present after delete", id)
		}
	}
}

func TestCreateProduct_MissingImage(t *testing.T) {
	resp := doPost(t, "/api/products", map[string]any{
		"name":  "No Image",
		"price": "1.00",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message == "" {
		t.Error("error message is empty")
	}
}

func TestUpdateProductStatus_Unknown(t *testing.T) {
	resp := doPost(t, "/api/products/999999/status", map[string]string{"status": "Available"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestProductStats(t *testing.T) {
	resp := doGet(t, "/api/products/stats")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	stats := decodeJSON[statsResponse](t, resp)
	if stats.Total == 0 {
		t.Error("stats.total is zero after seeding")
	}
}
