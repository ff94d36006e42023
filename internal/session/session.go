// Package session holds per-session state: the acting user and the
// unpersisted shopping cart. A session is the explicit actor identity
// passed to every operation that needs one; there is no global
// current-user singleton. Carts are lost on restart by design,
// matching the non-authenticated demo session model.
package session

import (
	"sync"

	"github.com/nexusmarket/storefront/internal/models"
)

// DefaultID is the session used when a client does not identify
// itself; the demo runs with a single implicit user.
const DefaultID = "local"

// Session is one user's in-memory state.
type Session struct {
	ID   string
	User models.User

	mu    sync.Mutex
	items []models.CartItem
}

// Add increments the quantity of productID by one, inserting the
// entry at quantity one if absent.
func (s *Session) Add(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, models.CartItem{ProductID: productID, Quantity: 1})
}

// SetQuantity sets the quantity of productID. A quantity of zero or
// less removes the entry rather than persisting a non-positive
// quantity.
func (s *Session) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = quantity
		}
		return
	}
	if quantity > 0 {
		s.items = append(s.items, models.CartItem{ProductID: productID, Quantity: quantity})
	}
}

// Items returns a copy of the cart entries in insertion order.
func (s *Session) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]models.CartItem, len(s.items))
	copy(cp, s.items)
	return cp
}

// Clear empties the cart, as checkout does after placing an order.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Count returns the total quantity across all cart entries.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// Manager hands out sessions by ID.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	defaultUser models.User
}

// NewManager creates a session manager. New sessions start with the
// configured default user until a profile is saved over it.
func NewManager(defaultUser models.User) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		defaultUser: defaultUser,
	}
}

// Get returns the session for id, creating it on first use. An empty
// id maps to the default session.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		id = DefaultID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		return sess
	}
	sess := &Session{ID: id, User: m.defaultUser}
	m.sessions[id] = sess
	return sess
}
