package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nexusmarket/storefront/internal/kv"
	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/models"
)

// ProfileService persists the demo's single user record under its own
// storage key.
type ProfileService struct {
	store       kv.Store
	metrics     *metrics.AppMetrics
	defaultUser models.User
}

// NewProfileService creates a new profile service
func NewProfileService(store kv.Store, metrics *metrics.AppMetrics, defaultUser models.User) *ProfileService {
	return &ProfileService{
		store:       store,
		metrics:     metrics,
		defaultUser: defaultUser,
	}
}

// GetUser returns the persisted user, or the configured default user
// when no profile has ever been saved.
func (s *ProfileService) GetUser(ctx context.Context) (models.User, error) {
	start := time.Now()
	raw, ok, err := s.store.Get(ctx, kv.KeyUser)
	s.metrics.RecordStoreOp(ctx, "GET", kv.KeyUser, start, err == nil)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to read user: %w", err)
	}
	if !ok {
		return s.defaultUser, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return models.User{}, fmt.Errorf("failed to decode user: %w", err)
	}
	return user, nil
}

// SaveUser replaces the persisted user record.
func (s *ProfileService) SaveUser(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	start := time.Now()
	err = s.store.Set(ctx, kv.KeyUser, raw)
	s.metrics.RecordStoreOp(ctx, "SET", kv.KeyUser, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to write user: %w", err)
	}
	return nil
}
