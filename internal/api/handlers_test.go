package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/nexusmarket/storefront/internal/assistant"
	"github.com/nexusmarket/storefront/internal/kv"
	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/models"
	"github.com/nexusmarket/storefront/internal/services"
	"github.com/nexusmarket/storefront/internal/session"
	"github.com/nexusmarket/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Generate(context.Context, string) (string, error) {
	return s.text, s.err
}

func newTestApp(gen assistant.TextGenerator) (*mux.Router, *kv.MemoryStore) {
	store := kv.NewMemoryStore(0)
	m := metrics.NewNoop()

	defaultUser := models.User{ID: "u1", Name: "John Doe", Email: "john@example.com", Role: models.RoleSeller}
	sessions := session.NewManager(defaultUser)
	catalog := services.NewCatalogService(store, m)
	orders := services.NewOrderService(store, m)
	cart := services.NewCartService(catalog, orders, m)
	profile := services.NewProfileService(store, m, defaultUser)
	if gen == nil {
		gen = &stubGenerator{text: "advice"}
	}
	assist := assistant.NewService(gen, m)

	cfg := &config.Config{AppPort: "0"}
	app := NewApp(cfg, m, sessions, catalog, orders, cart, profile, assist)

	router := mux.NewRouter()
	app.SetupRoutes(router)
	return router, store
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthHandler(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestListProductsHandler_ColdStartSeed(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "GET", "/api/v1/products", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.Product
	decode(t, rec, &products)
	assert.Len(t, products, 5)
	assert.Equal(t, "p1", products[0].ID)
}

func TestListProductsHandler_Filters(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "GET", "/api/v1/products?category=Electronics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.Product
	decode(t, rec, &products)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, models.CategoryElectronics, p.Category)
	}
}

func TestCreateProductHandler(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "POST", "/api/v1/products", models.CreateProductRequest{
		Name:     "Solaris Desk Lamp",
		Price:    59.99,
		Category: models.CategoryHome,
		Stock:    10,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Product
	decode(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.SellerID, "seller comes from the session user")
	assert.Equal(t, "Auto-generated high-quality listing description.", created.Description)
	assert.Contains(t, created.ImageURL, "SolarisDeskLamp")
	assert.Zero(t, created.Rating)
	assert.Zero(t, created.ReviewsCount)

	// The new listing is visible in the catalog.
	list := doJSON(t, router, "GET", "/api/v1/products", nil)
	var products []models.Product
	decode(t, list, &products)
	assert.Len(t, products, 6)
}

func TestCreateProductHandler_MissingName(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "POST", "/api/v1/products", models.CreateProductRequest{Price: 1})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertProductHandler(t *testing.T) {
	router, _ := newTestApp(nil)

	update := models.SeedProducts()[0]
	update.Price = 799.99

	rec := doJSON(t, router, "PUT", "/api/v1/products", update)
	require.Equal(t, http.StatusOK, rec.Code)

	list := doJSON(t, router, "GET", "/api/v1/products", nil)
	var products []models.Product
	decode(t, list, &products)
	require.Len(t, products, 5)
	assert.Equal(t, 799.99, products[0].Price)
}

func TestUpsertProductHandler_MissingID(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "PUT", "/api/v1/products", models.Product{Name: "No ID"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProductHandler(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "DELETE", "/api/v1/products/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := doJSON(t, router, "GET", "/api/v1/products", nil)
	var products []models.Product
	decode(t, list, &products)
	assert.Len(t, products, 4)
	for _, p := range products {
		assert.NotEqual(t, "p1", p.ID)
	}
}

func TestCartFlow(t *testing.T) {
	router, _ := newTestApp(nil)

	// Empty cart at first.
	rec := doJSON(t, router, "GET", "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart models.CartResponse
	decode(t, rec, &cart)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	// Add two units of p1.
	require.Equal(t, http.StatusOK, doJSON(t, router, "POST", "/api/v1/cart/add", models.AddToCartRequest{ProductID: "p1"}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, router, "POST", "/api/v1/cart/add", models.AddToCartRequest{ProductID: "p1"}).Code)

	rec = doJSON(t, router, "GET", "/api/v1/cart", nil)
	decode(t, rec, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 1999.98, cart.Total, 0.001)

	// Update quantity down to one.
	require.Equal(t, http.StatusOK, doJSON(t, router, "POST", "/api/v1/cart/update", models.UpdateQuantityRequest{ProductID: "p1", Quantity: 1}).Code)

	rec = doJSON(t, router, "GET", "/api/v1/cart", nil)
	decode(t, rec, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	// Quantity zero removes the entry.
	require.Equal(t, http.StatusOK, doJSON(t, router, "POST", "/api/v1/cart/update", models.UpdateQuantityRequest{ProductID: "p1", Quantity: 0}).Code)

	rec = doJSON(t, router, "GET", "/api/v1/cart", nil)
	decode(t, rec, &cart)
	assert.Empty(t, cart.Items)
}

func TestAddToCartHandler_UnknownProduct(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "POST", "/api/v1/cart/add", models.AddToCartRequest{ProductID: "nope"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutFlow(t *testing.T) {
	router, _ := newTestApp(nil)

	require.Equal(t, http.StatusOK, doJSON(t, router, "POST", "/api/v1/cart/add", models.AddToCartRequest{ProductID: "p2"}).Code)

	rec := doJSON(t, router, "POST", "/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	decode(t, rec, &order)
	assert.Contains(t, order.ID, "ord_")
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, 129.50, order.Total)

	// Cart is cleared after checkout.
	cartRec := doJSON(t, router, "GET", "/api/v1/cart", nil)
	var cart models.CartResponse
	decode(t, cartRec, &cart)
	assert.Empty(t, cart.Items)

	// The order shows up in the list.
	ordersRec := doJSON(t, router, "GET", "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, ordersRec.Code)
	var orders []models.Order
	decode(t, ordersRec, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "POST", "/api/v1/checkout", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	router, _ := newTestApp(nil)

	req := httptest.NewRequest("POST", "/api/v1/cart/add", bytes.NewBufferString(`{"product_id":"p1"}`))
	req.Header.Set("X-Session-ID", "other")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The default session's cart stays empty.
	cartRec := doJSON(t, router, "GET", "/api/v1/cart", nil)
	var cart models.CartResponse
	decode(t, cartRec, &cart)
	assert.Empty(t, cart.Items)
}

func TestProfileHandlers(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "GET", "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	decode(t, rec, &user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.RoleSeller, user.Role)

	saved := models.User{ID: "u2", Name: "Jane Roe", Email: "jane@example.com", Role: models.RoleBuyer}
	put := doJSON(t, router, "PUT", "/api/v1/profile", saved)
	require.Equal(t, http.StatusOK, put.Code)

	rec = doJSON(t, router, "GET", "/api/v1/profile", nil)
	decode(t, rec, &user)
	assert.Equal(t, saved, user)
}

func TestChatHandler(t *testing.T) {
	router, _ := newTestApp(&stubGenerator{text: "Buy the keyboard."})

	rec := doJSON(t, router, "POST", "/api/v1/assistant/chat", models.ChatRequest{Prompt: "something for typing"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ChatResponse
	decode(t, rec, &resp)
	assert.Equal(t, "Buy the keyboard.", resp.Text)
}

func TestChatHandler_GeneratorFailureStillOK(t *testing.T) {
	router, _ := newTestApp(&stubGenerator{err: errors.New("remote down")})

	rec := doJSON(t, router, "POST", "/api/v1/assistant/chat", models.ChatRequest{Prompt: "anything"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ChatResponse
	decode(t, rec, &resp)
	assert.Equal(t, assistant.FallbackMessage, resp.Text)
}

func TestChatHandler_EmptyPrompt(t *testing.T) {
	router, _ := newTestApp(nil)

	rec := doJSON(t, router, "POST", "/api/v1/assistant/chat", models.ChatRequest{Prompt: "  "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDescribeHandler(t *testing.T) {
	router, _ := newTestApp(&stubGenerator{text: "A fine lamp."})

	rec := doJSON(t, router, "POST", "/api/v1/assistant/describe", models.DescribeRequest{Name: "Solaris Desk Lamp", Category: models.CategoryHome})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ChatResponse
	decode(t, rec, &resp)
	assert.Equal(t, "A fine lamp.", resp.Text)
}

func TestStoreFailureSurfacesAsServerError(t *testing.T) {
	router, store := newTestApp(nil)

	store.FailNextSet("quota exceeded")

	update := models.SeedProducts()[0]
	rec := doJSON(t, router, "PUT", "/api/v1/products", update)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
