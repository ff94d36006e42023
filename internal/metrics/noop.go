package metrics

import "go.opentelemetry.io/otel/metric/noop"

// NewNoop returns an AppMetrics backed by no-op instruments, for use
// in tests and in modes where no collector is reachable.
func NewNoop() *AppMetrics {
	meter := noop.NewMeterProvider().Meter("noop")

	httpRequestsTotal, _ := meter.Int64Counter("http.server.request.count")
	httpRequestsErrors, _ := meter.Int64Counter("http.server.request.error.count")
	httpRequestDuration, _ := meter.Float64Histogram("http.server.request.duration")
	storeOpsTotal, _ := meter.Int64Counter("store.operations.count")
	storeOpDuration, _ := meter.Float64Histogram("store.operations.duration")
	ordersCreated, _ := meter.Int64Counter("orders_created_total")
	revenueTotal, _ := meter.Float64Counter("revenue_total")
	cartItemsCount, _ := meter.Int64Gauge("cart_items_count")
	assistantRequests, _ := meter.Int64Counter("assistant_requests_total")
	assistantFailures, _ := meter.Int64Counter("assistant_failures_total")

	return &AppMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestsErrors:  httpRequestsErrors,
		HTTPRequestDuration: httpRequestDuration,
		StoreOpsTotal:       storeOpsTotal,
		StoreOpDuration:     storeOpDuration,
		OrdersCreated:       ordersCreated,
		RevenueTotal:        revenueTotal,
		CartItemsCount:      cartItemsCount,
		AssistantRequests:   assistantRequests,
		AssistantFailures:   assistantFailures,
		serviceName:         "noop",
	}
}
