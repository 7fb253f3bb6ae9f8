package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/almeidaGustavo05/product-catalog-API/internal/models"
)

// InMemoryProductRepository is a map-backed implementation of
// ProductRepository. It mirrors the soft-delete semantics of the GORM
// implementation and is used by tests and local experimentation.
type InMemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewInMemoryProductRepository creates a new InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all non-deleted products ordered by creation time.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(models.Product) bool { return true }), nil
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || product.DeletedAt.Valid {
		return nil, models.ErrProductNotFound
	}
	return &product, nil
}

// GetFiltered returns the products matching every predicate set on the filter.
func (r *InMemoryProductRepository) GetFiltered(filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p models.Product) bool {
		if filter.Category != nil && !strings.EqualFold(p.Category, *filter.Category) {
			return false
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			return false
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			return false
		}
		if filter.Status != nil && p.Status != *filter.Status {
			return false
		}
		return true
	}), nil
}

// GetPaged returns one 1-based page of products plus the total count.
func (r *InMemoryProductRepository) GetPaged(pageNumber, pageSize int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.collect(func(models.Product) bool { return true })
	total := int64(len(all))

	start := (pageNumber - 1) * pageSize
	if start >= len(all) {
		return []models.Product{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// Create adds a new product.
func (r *InMemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *InMemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok || existing.DeletedAt.Valid {
		return models.ErrProductNotFound
	}
	r.products[product.ID] = *product
	return nil
}

// Delete soft-deletes a product by stamping DeletedAt.
func (r *InMemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.DeletedAt.Valid {
		return models.ErrProductNotFound
	}
	product.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
	r.products[id] = product
	return nil
}

// Exists reports whether a non-deleted product with the given ID exists.
func (r *InMemoryProductRepository) Exists(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	return ok && !product.DeletedAt.Valid, nil
}

// collect gathers non-deleted products matching keep, sorted by creation
// time for stable ordering across calls.
func (r *InMemoryProductRepository) collect(keep func(models.Product) bool) []models.Product {
	result := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.DeletedAt.Valid || !keep(p) {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
