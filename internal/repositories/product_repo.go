package repositories

import (
	"github.com/almeidaGustavo05/product-catalog-API/internal/models"
)

// ProductFilter holds the optional, independently combinable predicates for
// catalog queries. A nil field means no constraint on that dimension.
type ProductFilter struct {
	Category *string
	MinPrice *float64
	MaxPrice *float64
	Status   *models.ProductStatus
}

// IsEmpty reports whether no predicate is set.
func (f ProductFilter) IsEmpty() bool {
	return f.Category == nil && f.MinPrice == nil && f.MaxPrice == nil && f.Status == nil
}

// ProductRepository defines the persistence contract for products. Delete is
// a soft delete, and every read method excludes soft-deleted rows.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetFiltered(filter ProductFilter) ([]models.Product, error)
	GetPaged(pageNumber, pageSize int) ([]models.Product, int64, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	Exists(id string) (bool, error)
}
