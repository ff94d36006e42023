package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/nexusmarket/storefront/internal/assistant"
	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/middleware"
	"github.com/nexusmarket/storefront/internal/models"
	"github.com/nexusmarket/storefront/internal/services"
	"github.com/nexusmarket/storefront/internal/session"
	"github.com/nexusmarket/storefront/pkg/config"
)

// App holds application dependencies
type App struct {
	config    *config.Config
	metrics   *metrics.AppMetrics
	sessions  *session.Manager
	catalog   *services.CatalogService
	orders    *services.OrderService
	cart      *services.CartService
	profile   *services.ProfileService
	assistant *assistant.Service
}

// NewApp creates a new application instance
func NewApp(
	cfg *config.Config,
	m *metrics.AppMetrics,
	sessions *session.Manager,
	catalog *services.CatalogService,
	orders *services.OrderService,
	cart *services.CartService,
	profile *services.ProfileService,
	assist *assistant.Service,
) *App {
	return &App{
		config:    cfg,
		metrics:   m,
		sessions:  sessions,
		catalog:   catalog,
		orders:    orders,
		cart:      cart,
		profile:   profile,
		assistant: assist,
	}
}

// SetupRoutes configures the HTTP routes
func (a *App) SetupRoutes(r *mux.Router) {
	// Middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.MetricsMiddleware(a.metrics))

	// API Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Catalog
	api.HandleFunc("/products", a.ListProductsHandler).Methods("GET")
	api.HandleFunc("/products", a.CreateProductHandler).Methods("POST")
	api.HandleFunc("/products", a.UpsertProductHandler).Methods("PUT")
	api.HandleFunc("/products/{id}", a.DeleteProductHandler).Methods("DELETE")

	// Cart
	api.HandleFunc("/cart", a.GetCartHandler).Methods("GET")
	api.HandleFunc("/cart/add", a.AddToCartHandler).Methods("POST")
	api.HandleFunc("/cart/update", a.UpdateCartHandler).Methods("POST")

	// Orders
	api.HandleFunc("/checkout", a.CheckoutHandler).Methods("POST")
	api.HandleFunc("/orders", a.ListOrdersHandler).Methods("GET")

	// Profile
	api.HandleFunc("/profile", a.GetProfileHandler).Methods("GET")
	api.HandleFunc("/profile", a.SaveProfileHandler).Methods("PUT")

	// Assistant
	api.HandleFunc("/assistant/chat", a.ChatHandler).Methods("POST")
	api.HandleFunc("/assistant/describe", a.DescribeHandler).Methods("POST")

	// Health
	r.HandleFunc("/health", a.HealthHandler).Methods("GET")
}

// session resolves the caller's session from the X-Session-ID header;
// absent header maps to the single default demo session.
func (a *App) session(r *http.Request) *session.Session {
	return a.sessions.Get(r.Header.Get("X-Session-ID"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HealthHandler handles health check requests
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListProductsHandler handles GET /api/v1/products
func (a *App) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := a.catalog.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	products = services.FilterProducts(products, q.Get("category"), q.Get("search"), q.Get("seller_id"))
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// CreateProductHandler handles POST /api/v1/products: a new seller
// listing with a server-assigned identifier.
func (a *App) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Product name is required", http.StatusBadRequest)
		return
	}

	sess := a.session(r)

	description := req.Description
	if description == "" {
		description = "Auto-generated high-quality listing description."
	}
	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", strings.ReplaceAll(req.Name, " ", ""))
	}

	product := models.Product{
		ID:          fmt.Sprintf("p%d", time.Now().UnixMilli()),
		Name:        req.Name,
		Description: description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    imageURL,
		SellerID:    sess.User.ID,
		Stock:       req.Stock,
	}

	if err := a.catalog.SaveProduct(r.Context(), product); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// UpsertProductHandler handles PUT /api/v1/products
func (a *App) UpsertProductHandler(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if product.ID == "" {
		http.Error(w, "Product ID is required", http.StatusBadRequest)
		return
	}

	if err := a.catalog.SaveProduct(r.Context(), product); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProductHandler handles DELETE /api/v1/products/{id}
func (a *App) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := a.catalog.DeleteProduct(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetCartHandler handles GET /api/v1/cart
func (a *App) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := a.cart.GetCart(r.Context(), a.session(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddToCartHandler handles POST /api/v1/cart/add
func (a *App) AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.cart.AddToCart(r.Context(), a.session(r), req.ProductID); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// UpdateCartHandler handles POST /api/v1/cart/update
func (a *App) UpdateCartHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a.cart.UpdateQuantity(r.Context(), a.session(r), req.ProductID, req.Quantity)

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// CheckoutHandler handles POST /api/v1/checkout
func (a *App) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	order, err := a.cart.Checkout(r.Context(), a.session(r))
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// ListOrdersHandler handles GET /api/v1/orders
func (a *App) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.ListOrders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetProfileHandler handles GET /api/v1/profile
func (a *App) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := a.profile.GetUser(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// SaveProfileHandler handles PUT /api/v1/profile
func (a *App) SaveProfileHandler(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if user.ID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	if err := a.profile.SaveUser(r.Context(), user); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Keep the caller's session acting as the saved user.
	a.session(r).User = user

	writeJSON(w, http.StatusOK, user)
}

// ChatHandler handles POST /api/v1/assistant/chat
func (a *App) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "Prompt is required", http.StatusBadRequest)
		return
	}

	products, err := a.catalog.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	text := a.assistant.ShoppingAdvice(r.Context(), req.Prompt, products)
	writeJSON(w, http.StatusOK, models.ChatResponse{Text: text})
}

// DescribeHandler handles POST /api/v1/assistant/describe
func (a *App) DescribeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DescribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Product name is required", http.StatusBadRequest)
		return
	}

	text := a.assistant.ProductDescription(r.Context(), req.Name, req.Category)
	writeJSON(w, http.StatusOK, models.ChatResponse{Text: text})
}
