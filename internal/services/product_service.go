package services

import (
	"io"
	"log"
	"strings"

	"github.com/almeidaGustavo05/product-catalog-API/internal/models"
	"github.com/almeidaGustavo05/product-catalog-API/internal/repositories"
	"github.com/almeidaGustavo05/product-catalog-API/internal/storage"
)

// Catalog change notifications published after successful mutations.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

const maxImageSize = 5 * 1024 * 1024 // 5 MiB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// EventPublisher is the messaging boundary used for catalog change events.
// *rabbitmq.Client satisfies it; a nil publisher disables messaging.
type EventPublisher interface {
	PublishProductEvent(event, productID string) error
}

// ProductService orchestrates the product aggregate, the repository and the
// image store. It owns the use-case rules: not-found handling, upload
// validation and the delete-then-upload image replacement order.
type ProductService struct {
	repo      repositories.ProductRepository
	images    storage.ImageStore
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, images storage.ImageStore, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		images:    images,
		publisher: publisher,
	}
}

// GetAllProducts retrieves all non-deleted products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetFilteredProducts retrieves the products matching the conjunction of the
// set filter fields.
func (s *ProductService) GetFilteredProducts(filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.GetFiltered(filter)
}

// GetPagedProducts retrieves one 1-based page of products plus the total
// count of matching rows.
func (s *ProductService) GetPagedProducts(pageNumber, pageSize int) ([]models.Product, int64, error) {
	if pageNumber < 1 {
		return nil, 0, &models.ValidationError{Field: "pageNumber", Message: "page number must be at least 1"}
	}
	if pageSize < 1 {
		return nil, 0, &models.ValidationError{Field: "pageSize", Message: "page size must be at least 1"}
	}
	return s.repo.GetPaged(pageNumber, pageSize)
}

// CreateProduct constructs and persists a new product.
func (s *ProductService) CreateProduct(name, description string, price float64, category string) (*models.Product, error) {
	product, err := models.NewProduct(name, description, price, category)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.publishEvent(EventProductCreated, product.ID)
	return product, nil
}

// UpdateProduct applies new business field values to an existing product.
func (s *ProductService) UpdateProduct(id, name, description string, price float64, category string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(name, description, price, category); err != nil {
		return nil, err
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	s.publishEvent(EventProductUpdated, product.ID)
	return product, nil
}

// DeleteProduct soft-deletes a product. An associated image is removed from
// the store first, but only best-effort: a failed blob cleanup is logged and
// never blocks the record deletion.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if product.HasImage() {
		if _, err := s.images.Delete(product.ImageURL); err != nil {
			log.Printf("Warning: failed to delete image %s for product %s: %v", product.ImageURL, id, err)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(EventProductDeleted, id)
	return nil
}

// ActivateProduct transitions the product to the active status.
func (s *ProductService) ActivateProduct(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	product.Activate()
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	s.publishEvent(EventProductUpdated, product.ID)
	return product, nil
}

// DeactivateProduct transitions the product to the inactive status.
func (s *ProductService) DeactivateProduct(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	product.Deactivate()
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	s.publishEvent(EventProductUpdated, product.ID)
	return product, nil
}

// UploadProductImage validates and stores a new product image. Replacement
// is delete-then-upload: the old blob is removed before the new one is
// stored, so a failed upload never leaves the product pointing at nothing.
func (s *ProductService) UploadProductImage(id string, image io.Reader, size int64, filename, contentType string) (*models.Product, error) {
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return nil, &models.ValidationError{Field: "image", Message: "unsupported file type, use JPEG, PNG or GIF"}
	}
	if size <= 0 {
		return nil, &models.ValidationError{Field: "image", Message: "image file is empty"}
	}
	if size > maxImageSize {
		return nil, &models.ValidationError{Field: "image", Message: "file too large, maximum size is 5MB"}
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if product.HasImage() {
		if _, err := s.images.Delete(product.ImageURL); err != nil {
			log.Printf("Warning: failed to delete previous image %s for product %s: %v", product.ImageURL, id, err)
		}
	}

	url, err := s.images.Upload(image, filename, contentType)
	if err != nil {
		return nil, err
	}

	product.SetImageURL(url)
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	s.publishEvent(EventProductUpdated, product.ID)
	return product, nil
}

// GetProductImage opens the stored image of a product for reading and
// returns its URL alongside the stream.
func (s *ProductService) GetProductImage(id string) (io.ReadCloser, string, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if !product.HasImage() {
		return nil, "", storage.ErrImageNotFound
	}

	stream, err := s.images.Get(product.ImageURL)
	if err != nil {
		return nil, "", err
	}
	return stream, product.ImageURL, nil
}

// SearchProducts returns the products whose name, description or category
// contains the term, case-insensitively.
func (s *ProductService) SearchProducts(term string) ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// publishEvent sends a catalog change notification. Messaging is best
// effort; failures are logged and never surfaced to the caller.
func (s *ProductService) publishEvent(event, productID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(event, productID); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", event, productID, err)
	}
}
