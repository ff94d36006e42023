package models

import "time"

// Product categories available in the storefront
const (
	CategoryElectronics = "Electronics"
	CategoryFashion     = "Fashion"
	CategoryHome        = "Home & Garden"
	CategoryBeauty      = "Beauty"
	CategorySports      = "Sports"
	CategoryBooks       = "Books"
)

// Categories lists every valid product category, in display order.
var Categories = []string{
	CategoryElectronics,
	CategoryFashion,
	CategoryHome,
	CategoryBeauty,
	CategorySports,
	CategoryBooks,
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// User roles
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Product represents a product in the catalog
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	ImageURL     string  `json:"imageUrl"`
	SellerID     string  `json:"sellerId"`
	Stock        int     `json:"stock"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviewsCount"`
}

// User represents the session's user account
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// CartItem references a product by ID with a positive quantity.
// Cart items live only in session state and are never persisted on
// their own; an order snapshots them at checkout.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order is an immutable record of a completed checkout
type Order struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CartLine is a cart item joined against the live catalog
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}

// CartResponse represents the reconciled cart view
type CartResponse struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// AddToCartRequest represents a request to add one unit of a product
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
}

// UpdateQuantityRequest sets the quantity of a cart entry; zero or
// less removes the entry
type UpdateQuantityRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateProductRequest represents a new seller dashboard listing
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
}

// ChatRequest represents a shopping-advice prompt for the assistant
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse carries the assistant's reply
type ChatResponse struct {
	Text string `json:"text"`
}

// DescribeRequest asks the assistant for a product description
type DescribeRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}
