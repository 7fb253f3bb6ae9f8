package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/almeidaGustavo05/product-catalog-API/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// Soft deletion is handled by gorm.DeletedAt: Delete stamps the column and
// every query below transparently filters deleted rows out.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all non-deleted products.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetFiltered retrieves the products matching every predicate set on the
// filter. Category matching is case-insensitive exact, price bounds are
// inclusive.
func (r *GORMProductRepository) GetFiltered(filter ProductFilter) ([]models.Product, error) {
	query := r.db.Model(&models.Product{})

	if filter.Category != nil {
		query = query.Where("LOWER(category) = LOWER(?)", *filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get filtered products: %w", err)
	}
	return products, nil
}

// GetPaged retrieves one 1-based page of products plus the total count of
// non-deleted rows.
func (r *GORMProductRepository) GetPaged(pageNumber, pageSize int) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	offset := (pageNumber - 1) * pageSize
	if err := r.db.Order("created_at").Offset(offset).Limit(pageSize).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get page %d of products: %w", pageNumber, err)
	}
	return products, total, nil
}

// Create persists a new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update persists an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save writes all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound when the row is missing,
		// so we check RowsAffected ourselves.
		return models.ErrProductNotFound
	}
	return nil
}

// Delete soft-deletes a product by its ID.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// Exists reports whether a non-deleted product with the given ID exists.
func (r *GORMProductRepository) Exists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return count > 0, nil
}
