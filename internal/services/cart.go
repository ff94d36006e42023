package services

import (
	"context"
	"errors"

	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/models"
	"github.com/nexusmarket/storefront/internal/session"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrProductNotFound is returned when a cart operation references
	// a product missing from the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrEmptyCart is returned when checkout finds nothing to order
	// after reconciling the cart against the catalog.
	ErrEmptyCart = errors.New("cart is empty")
)

// CartService operates on session carts and reconciles them against
// the live catalog. Cart state is never persisted; it is lost on
// restart by design.
type CartService struct {
	catalog *CatalogService
	orders  *OrderService
	metrics *metrics.AppMetrics
}

// NewCartService creates a new cart service
func NewCartService(catalog *CatalogService, orders *OrderService, metrics *metrics.AppMetrics) *CartService {
	return &CartService{
		catalog: catalog,
		orders:  orders,
		metrics: metrics,
	}
}

// AddToCart adds one unit of the product to the session cart. The
// product must currently exist in the catalog.
func (s *CartService) AddToCart(ctx context.Context, sess *session.Session, productID string) error {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, p := range products {
		if p.ID == productID {
			found = true
			break
		}
	}
	if !found {
		return ErrProductNotFound
	}

	sess.Add(productID)
	s.recordCartSize(ctx, sess)
	return nil
}

// UpdateQuantity sets the quantity of a cart entry; zero or less
// removes the entry entirely.
func (s *CartService) UpdateQuantity(ctx context.Context, sess *session.Session, productID string, quantity int) {
	sess.SetQuantity(productID, quantity)
	s.recordCartSize(ctx, sess)
}

// GetCart returns the session cart joined against the current
// catalog. Entries whose product no longer exists are silently
// dropped from the computed view.
func (s *CartService) GetCart(ctx context.Context, sess *session.Session) (*models.CartResponse, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var lines []models.CartLine
	var total float64
	for _, item := range sess.Items() {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, models.CartLine{CartItem: item, Product: p})
		total += p.Price * float64(item.Quantity)
	}

	return &models.CartResponse{Items: lines, Total: total}, nil
}

// Checkout places an order snapshotting the reconciled cart and then
// clears the session cart. The order total is computed from current
// catalog prices at this moment.
func (s *CartService) Checkout(ctx context.Context, sess *session.Session) (*models.Order, error) {
	cart, err := s.GetCart(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.CartItem, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = line.CartItem
	}

	order, err := s.orders.PlaceOrder(ctx, sess.User.ID, items, cart.Total)
	if err != nil {
		return nil, err
	}

	sess.Clear()
	s.recordCartSize(ctx, sess)
	return order, nil
}

// ComputeTotal sums unit price times quantity over the cart, joining
// each entry against the catalog by product ID and skipping entries
// whose product is missing.
func ComputeTotal(items []models.CartItem, products []models.Product) float64 {
	byID := make(map[string]float64, len(products))
	for _, p := range products {
		byID[p.ID] = p.Price
	}
	var total float64
	for _, item := range items {
		price, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		total += price * float64(item.Quantity)
	}
	return total
}

func (s *CartService) recordCartSize(ctx context.Context, sess *session.Session) {
	attrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("session_id", sess.ID),
	})
	s.metrics.CartItemsCount.Record(ctx, int64(sess.Count()), metric.WithAttributes(attrs...))
}
