package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nexusmarket/storefront/internal/kv"
	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OrderService owns the persisted order collection
type OrderService struct {
	store   kv.Store
	metrics *metrics.AppMetrics
}

// NewOrderService creates a new order service
func NewOrderService(store kv.Store, metrics *metrics.AppMetrics) *OrderService {
	return &OrderService{
		store:   store,
		metrics: metrics,
	}
}

// ListOrders returns all orders in insertion order. Most-recent-first
// presentation is a caller concern, not a store guarantee.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	start := time.Now()
	raw, ok, err := s.store.Get(ctx, kv.KeyOrders)
	s.metrics.RecordStoreOp(ctx, "GET", kv.KeyOrders, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var orders []models.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// PlaceOrder appends a new pending order snapshotting the given cart
// items and total, and returns it with its generated identifier.
// Later catalog price changes never retroactively affect the stored
// total. Stock is not decremented here; seller inventory is managed
// independently of orders.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []models.CartItem, total float64) (*models.Order, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := make([]models.CartItem, len(items))
	copy(snapshot, items)

	order := models.Order{
		ID:        "ord_" + uuid.NewString(),
		UserID:    userID,
		Items:     snapshot,
		Total:     total,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	orders = append(orders, order)
	raw, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to encode orders: %w", err)
	}

	start := time.Now()
	err = s.store.Set(ctx, kv.KeyOrders, raw)
	s.metrics.RecordStoreOp(ctx, "SET", kv.KeyOrders, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to write orders: %w", err)
	}

	attrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("order_status", order.Status),
	})
	s.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
	s.metrics.RevenueTotal.Add(ctx, total, metric.WithAttributes(attrs...))

	log.Printf("[ORDER] Order placed: order_id=%s, user_id=%s, items=%d, total=%.2f",
		order.ID, userID, len(snapshot), total)

	return &order, nil
}
