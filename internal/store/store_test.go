package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storedash/internal/domain/order"
	"github.com/xenking/storedash/internal/domain/product"
)

func newTestProduct(id int64, status product.Status) product.Product {
	return product.Product{
		ID:       id,
		Name:     "Widget",
		Price:    decimal.RequireFromString("10.00"),
		Currency: product.CurrencyUSD,
		Image:    "https://img.example.com/w.jpg",
		Status:   status,
	}
}

func newTestOrder(id string, status order.Status) order.Order {
	return order.Order{
		ID:           id,
		CustomerName: "Lina Haddad",
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		TotalPrice:   decimal.RequireFromString("20.00"),
		Items: []order.Item{
			{ProductName: "Widget", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		},
		Status: status,
	}
}

func TestReplace(t *testing.T) {
	s := New()
	s.Replace(
		[]product.Product{newTestProduct(1, product.StatusAvailable)},
		[]order.Order{newTestOrder("o1", order.StatusPending)},
	)

	require.Len(t, s.Products(), 1)
	require.Len(t, s.Orders(), 1)

	// A second replacement fully supersedes the first.
	s.Replace(
		[]product.Product{
			newTestProduct(2, product.StatusAvailable),
			newTestProduct(3, product.StatusNotAvailable),
		},
		nil,
	)

	assert.Len(t, s.Products(), 2)
	assert.Empty(t, s.Orders())
}

func TestReplace_AutoSelectsFirstOrder(t *testing.T) {
	s := New()
	s.Replace(nil, []order.Order{
		newTestOrder("o1", order.StatusPending),
		newTestOrder("o2", order.StatusShipped),
	})

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "o1", sel.ID)
}

func TestReplace_KeepsExistingSelection(t *testing.T) {
	s := New()
	s.Replace(nil, []order.Order{
		newTestOrder("o1", order.StatusPending),
		newTestOrder("o2", order.StatusShipped),
	})
	require.True(t, s.Select("o2"))

	s.Replace(nil, []order.Order{
		newTestOrder("o1", order.StatusPending),
		newTestOrder("o2", order.StatusDelivered),
	})

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "o2", sel.ID)
	assert.Equal(t, order.StatusDelivered, sel.Status)
}

func TestReplace_ReselectsWhenSelectedOrderDisappears(t *testing.T) {
	s := New()
	s.Replace(nil, []order.Order{newTestOrder("o1", order.StatusPending)})

	sel, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, "o1", sel.ID)

	s.Replace(nil, []order.Order{newTestOrder("o2", order.StatusPending)})

	sel, ok = s.Selected()
	require.True(t, ok)
	assert.Equal(t, "o2", sel.ID)
}

func TestReplace_ClearsSelectionWhenNoOrdersRemain(t *testing.T) {
	s := New()
	s.Replace(nil, []order.Order{newTestOrder("o1", order.StatusPending)})

	s.Replace(nil, nil)

	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestSelect_UnknownID(t *testing.T) {
	s := New()
	s.Replace(nil, []order.Order{newTestOrder("o1", order.StatusPending)})

	assert.False(t, s.Select("missing"))

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "o1", sel.ID)
}

func TestReplaceProducts_LeavesOrdersUntouched(t *testing.T) {
	s := New()
	s.Replace(
		[]product.Product{newTestProduct(1, product.StatusAvailable)},
		[]order.Order{newTestOrder("o1", order.StatusPending)},
	)

	s.ReplaceProducts([]product.Product{
		newTestProduct(1, product.StatusNotAvailable),
		newTestProduct(2, product.StatusAvailable),
	})

	assert.Len(t, s.Products(), 2)
	require.Len(t, s.Orders(), 1)
	assert.Equal(t, "o1", s.Orders()[0].ID)
}

func TestProductByID(t *testing.T) {
	s := New()
	s.Replace([]product.Product{newTestProduct(42, product.StatusAvailable)}, nil)

	p, ok := s.ProductByID(42)
	require.True(t, ok)
	assert.Equal(t, "Widget", p.Name)

	_, ok = s.ProductByID(43)
	assert.False(t, ok)
}

func TestPatchOrderStatus(t *testing.T) {
	s := New()
	original := newTestOrder("o1", order.StatusPending)
	s.Replace(nil, []order.Order{original, newTestOrder("o2", order.StatusShipped)})

	require.True(t, s.PatchOrderStatus("o1", order.StatusProcessing))

	patched, ok := s.OrderByID("o1")
	require.True(t, ok)
	assert.Equal(t, order.StatusProcessing, patched.Status)

	// Every other field of the patched order survives unchanged.
	patched.Status = original.Status
	assert.Equal(t, original, patched)

	// Untouched orders keep their status.
	other, ok := s.OrderByID("o2")
	require.True(t, ok)
	assert.Equal(t, order.StatusShipped, other.Status)
}

func TestPatchOrderStatus_MissingOrderIsNoOp(t *testing.T) {
	s := New()
	s.Replace(nil, []order.Order{newTestOrder("o1", order.StatusPending)})

	assert.False(t, s.PatchOrderStatus("missing", order.StatusCancelled))

	o, ok := s.OrderByID("o1")
	require.True(t, ok)
	assert.Equal(t, order.StatusPending, o.Status)
}

func TestReads_ReturnCopies(t *testing.T) {
	s := New()
	s.Replace([]product.Product{newTestProduct(1, product.StatusAvailable)}, nil)

	got := s.Products()
	got[0].Status = product.StatusNotAvailable

	p, ok := s.ProductByID(1)
	require.True(t, ok)
	assert.Equal(t, product.StatusAvailable, p.Status)
}
