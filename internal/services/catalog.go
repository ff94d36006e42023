package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nexusmarket/storefront/internal/kv"
	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/models"
)

// CatalogService owns the persisted product collection
type CatalogService struct {
	store   kv.Store
	metrics *metrics.AppMetrics
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store kv.Store, metrics *metrics.AppMetrics) *CatalogService {
	return &CatalogService{
		store:   store,
		metrics: metrics,
	}
}

// ListProducts returns the full current product collection. Before
// anything has ever been persisted it returns the built-in seed set
// instead of an empty catalog; the seed is not written back here.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	start := time.Now()
	raw, ok, err := s.store.Get(ctx, kv.KeyProducts)
	s.metrics.RecordStoreOp(ctx, "GET", kv.KeyProducts, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if !ok {
		return models.SeedProducts(), nil
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return products, nil
}

// SaveProduct upserts a product: a record with the same ID is
// replaced in place, otherwise the product is appended. The whole
// collection is written back in one Set; either it all lands or none
// of it does. Field ranges are not validated here, callers are
// expected to supply valid values.
func (s *CatalogService) SaveProduct(ctx context.Context, product models.Product) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, product)
	}

	return s.writeCatalog(ctx, products)
}

// DeleteProduct removes the product with the given ID. An absent ID
// is a no-op, not an error.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}

	filtered := products[:0]
	for _, p := range products {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}

	return s.writeCatalog(ctx, filtered)
}

func (s *CatalogService) writeCatalog(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	start := time.Now()
	err = s.store.Set(ctx, kv.KeyProducts, raw)
	s.metrics.RecordStoreOp(ctx, "SET", kv.KeyProducts, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// FilterProducts applies the storefront's read-side filters: category
// ("" or "All" matches everything), a case-insensitive free-text
// search over name and description, and an owning seller ID.
func FilterProducts(products []models.Product, category, search, sellerID string) []models.Product {
	search = strings.ToLower(search)
	var filtered []models.Product
	for _, p := range products {
		if category != "" && category != "All" && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if sellerID != "" && p.SellerID != sellerID {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
