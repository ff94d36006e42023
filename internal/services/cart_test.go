package services

import (
	"context"
	"testing"

	"github.com/nexusmarket/storefront/internal/kv"
	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/models"
	"github.com/nexusmarket/storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart() (*CartService, *CatalogService, *session.Session) {
	store := kv.NewMemoryStore(0)
	m := metrics.NewNoop()
	catalog := NewCatalogService(store, m)
	orders := NewOrderService(store, m)
	cart := NewCartService(catalog, orders, m)
	sess := &session.Session{ID: "test", User: models.User{ID: "u1", Role: models.RoleBuyer}}
	return cart, catalog, sess
}

func TestCartService_AddToCart(t *testing.T) {
	cart, _, sess := newTestCart()
	ctx := context.Background()

	// Seed products are addressable on a cold start.
	require.NoError(t, cart.AddToCart(ctx, sess, "p1"))
	require.NoError(t, cart.AddToCart(ctx, sess, "p1"))
	require.NoError(t, cart.AddToCart(ctx, sess, "p2"))

	assert.Equal(t, []models.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}, sess.Items())
}

func TestCartService_AddToCartUnknownProduct(t *testing.T) {
	cart, _, sess := newTestCart()

	err := cart.AddToCart(context.Background(), sess, "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, sess.Items())
}

func TestCartService_UpdateQuantityZeroRemovesEntry(t *testing.T) {
	cart, _, sess := newTestCart()
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, sess, "p1"))
	cart.UpdateQuantity(ctx, sess, "p1", 0)

	assert.Empty(t, sess.Items())

	view, err := cart.GetCart(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_GetCartComputesTotal(t *testing.T) {
	cart, catalog, sess := newTestCart()
	ctx := context.Background()

	require.NoError(t, catalog.SaveProduct(ctx, models.Product{ID: "a", Name: "A", Price: 10, Category: models.CategoryBooks}))
	require.NoError(t, catalog.SaveProduct(ctx, models.Product{ID: "b", Name: "B", Price: 25, Category: models.CategoryBooks}))

	sess.SetQuantity("a", 2)
	sess.SetQuantity("b", 1)

	view, err := cart.GetCart(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 45.0, view.Total)
	assert.Len(t, view.Items, 2)
}

func TestCartService_GetCartSkipsDeletedProducts(t *testing.T) {
	cart, catalog, sess := newTestCart()
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, sess, "p1"))
	require.NoError(t, cart.AddToCart(ctx, sess, "p2"))
	require.NoError(t, catalog.DeleteProduct(ctx, "p1"))

	view, err := cart.GetCart(ctx, sess)
	require.NoError(t, err)

	// The dangling entry is silently dropped from the computed view.
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p2", view.Items[0].ProductID)
	assert.Equal(t, 129.50, view.Total)
}

func TestCartService_CheckoutEmptyCart(t *testing.T) {
	cart, _, sess := newTestCart()

	_, err := cart.Checkout(context.Background(), sess)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCartService_CheckoutAllProductsDeleted(t *testing.T) {
	cart, catalog, sess := newTestCart()
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, sess, "p1"))
	require.NoError(t, catalog.DeleteProduct(ctx, "p1"))

	_, err := cart.Checkout(ctx, sess)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCartService_CheckoutPlacesOrderAndClearsCart(t *testing.T) {
	cart, _, sess := newTestCart()
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, sess, "p1"))
	require.NoError(t, cart.AddToCart(ctx, sess, "p1"))

	order, err := cart.Checkout(ctx, sess)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "u1", order.UserID)
	assert.InDelta(t, 2*999.99, order.Total, 0.001)
	assert.Equal(t, []models.CartItem{{ProductID: "p1", Quantity: 2}}, order.Items)
	assert.Empty(t, sess.Items())
}

func TestCartService_OrderTotalImmuneToLaterPriceChange(t *testing.T) {
	cart, catalog, sess := newTestCart()
	ctx := context.Background()

	require.NoError(t, catalog.SaveProduct(ctx, models.Product{ID: "a", Name: "A", Price: 10, Category: models.CategoryBooks}))
	sess.SetQuantity("a", 1)

	order, err := cart.Checkout(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, 10.0, order.Total)

	require.NoError(t, catalog.SaveProduct(ctx, models.Product{ID: "a", Name: "A", Price: 999, Category: models.CategoryBooks}))

	listed, err := cart.orders.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 10.0, listed[0].Total)
}

func TestComputeTotal(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Price: 10},
		{ID: "p2", Price: 25},
	}

	tests := []struct {
		name     string
		items    []models.CartItem
		expected float64
	}{
		{"reference fixture", []models.CartItem{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}, 45},
		{"empty cart", nil, 0},
		{"missing product skipped", []models.CartItem{{ProductID: "gone", Quantity: 3}, {ProductID: "p1", Quantity: 1}}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeTotal(tt.items, products))
		})
	}
}
