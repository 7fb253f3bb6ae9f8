package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/almeidaGustavo05/product-catalog-API/internal/models"
	"github.com/almeidaGustavo05/product-catalog-API/internal/repositories"
	"github.com/almeidaGustavo05/product-catalog-API/internal/services"
)

// Search is exercised against the in-memory repository rather than mocks,
// since the interesting behavior is the matching itself.
func TestProductService_SearchProducts(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	service := services.NewProductService(repo, nil, nil)

	seed := []struct {
		name, description, category string
	}{
		{"Gaming Laptop", "RGB everything", "Electronics"},
		{"Office Chair", "Ergonomic, adjustable", "Furniture"},
		{"Novel", "A story about a LAPTOP repair shop", "Books"},
	}
	for _, s := range seed {
		product, err := models.NewProduct(s.name, s.description, 100, s.category)
		assert.NoError(t, err)
		assert.NoError(t, repo.Create(product))
	}

	results, err := service.SearchProducts("laptop")
	assert.NoError(t, err)
	assert.Len(t, results, 2, "matches name and description case-insensitively")

	results, err = service.SearchProducts("furniture")
	assert.NoError(t, err)
	assert.Len(t, results, 1, "matches category")

	results, err = service.SearchProducts("plasma")
	assert.NoError(t, err)
	assert.Empty(t, results)
}
