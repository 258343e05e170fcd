package syncer

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/storedash/internal/domain/order"
	"github.com/xenking/storedash/internal/domain/product"
	"github.com/xenking/storedash/internal/store"
)

// --- Mock implementations ---

type mockProductRepo struct {
	products []product.Product
	err      error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return m.products, m.err
}

type mockOrderRepo struct {
	orders []order.Order
	err    error
}

func (m *mockOrderRepo) List(_ context.Context) ([]order.Order, error) {
	return m.orders, m.err
}

func (m *mockOrderRepo) UpdateStatus(context.Context, string, order.Status) error {
	return nil
}

// --- Tests ---

func TestRefresh(t *testing.T) {
	products := &mockProductRepo{products: []product.Product{{ID: 1, Name: "Widget"}}}
	orders := &mockOrderRepo{orders: []order.Order{{ID: "o1", Status: order.StatusPending}}}
	st := store.New()

	c := NewController(products, orders, st, zap.NewNop())

	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.Err())
	assert.Len(t, st.Products(), 1)
	assert.Len(t, st.Orders(), 1)
}

func TestRefresh_PartialFailureAppliesNothing(t *testing.T) {
	products := &mockProductRepo{products: []product.Product{{ID: 1}}}
	orders := &mockOrderRepo{err: errors.New("connection reset")}
	st := store.New()
	st.Replace([]product.Product{{ID: 99, Name: "Old"}}, nil)

	c := NewController(products, orders, st, zap.NewNop())

	err := c.Refresh(context.Background())
	require.Error(t, err)

	// Previous snapshot survives even though products loaded fine.
	require.Len(t, st.Products(), 1)
	assert.Equal(t, int64(99), st.Products()[0].ID)
}

func TestRefresh_StickyErrorClearedOnSuccess(t *testing.T) {
	products := &mockProductRepo{err: errors.New("timeout")}
	orders := &mockOrderRepo{}
	st := store.New()

	c := NewController(products, orders, st, zap.NewNop())

	require.Error(t, c.Refresh(context.Background()))
	assert.Error(t, c.Err())

	// The error stays visible until the next successful load.
	assert.Error(t, c.Err())

	products.err = nil
	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.Err())
}

func TestReloadProducts(t *testing.T) {
	products := &mockProductRepo{products: []product.Product{{ID: 1}}}
	orders := &mockOrderRepo{orders: []order.Order{{ID: "o1"}}}
	st := store.New()

	c := NewController(products, orders, st, zap.NewNop())
	require.NoError(t, c.Refresh(context.Background()))

	products.products = []product.Product{{ID: 1}, {ID: 2}}
	require.NoError(t, c.ReloadProducts(context.Background()))

	assert.Len(t, st.Products(), 2)
	assert.Len(t, st.Orders(), 1)
}

func TestReloadProducts_FailureKeepsSnapshotAndSetsErr(t *testing.T) {
	products := &mockProductRepo{products: []product.Product{{ID: 1}}}
	orders := &mockOrderRepo{}
	st := store.New()

	c := NewController(products, orders, st, zap.NewNop())
	require.NoError(t, c.Refresh(context.Background()))

	products.err = errors.New("gone away")
	require.Error(t, c.ReloadProducts(context.Background()))

	assert.Len(t, st.Products(), 1)
	assert.Error(t, c.Err())
}
