package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStatus is the lifecycle state of a product. Soft deletion is a
// separate concept handled through DeletedAt, not a status value.
type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusInactive ProductStatus = "inactive"
)

// ParseProductStatus converts a query or body string into a ProductStatus.
func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(strings.ToLower(s)) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", &ValidationError{Field: "status", Message: "status must be 'active' or 'inactive'"}
	}
}

const (
	maxNameLength        = 200
	maxDescriptionLength = 1000
	maxCategoryLength    = 100
)

// Product is the catalog aggregate. Fields are exported for GORM and JSON
// mapping, but all mutation goes through NewProduct and the named methods
// below so the invariants hold at every persistence point.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"name" gorm:"type:varchar(200);not null"`
	Description string         `json:"description" gorm:"type:varchar(1000);not null"`
	Price       float64        `json:"price" gorm:"not null"`
	Category    string         `json:"category" gorm:"type:varchar(100);not null;index"`
	Status      ProductStatus  `json:"status" gorm:"type:varchar(20);not null;index"`
	ImageURL    string         `json:"image_url,omitempty" gorm:"type:varchar(500)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// NewProduct builds a valid product with a fresh ID, active status and
// matching creation/update timestamps.
func NewProduct(name, description string, price float64, category string) (*Product, error) {
	if err := validateFields(name, description, price, category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update replaces the business fields after re-validating them. Status is
// deliberately not part of Update; use Activate/Deactivate for transitions.
func (p *Product) Update(name, description string, price float64, category string) error {
	if err := validateFields(name, description, price, category); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Category = category
	p.touch()
	return nil
}

// SetImageURL records the storage URL of the product image. The URL is an
// opaque string handed back by the image store and is not validated here.
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.touch()
}

// HasImage reports whether an image has been attached to the product.
func (p *Product) HasImage() bool {
	return p.ImageURL != ""
}

// Activate marks the product as active. Calling it on an already active
// product is a no-op.
func (p *Product) Activate() {
	if p.Status == StatusActive {
		return
	}
	p.Status = StatusActive
	p.touch()
}

// Deactivate marks the product as inactive. Idempotent like Activate.
func (p *Product) Deactivate() {
	if p.Status == StatusInactive {
		return
	}
	p.Status = StatusInactive
	p.touch()
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}

// validateFields checks the aggregate invariants without mutating anything,
// so a failed Update leaves the product untouched.
func validateFields(name, description string, price float64, category string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "product name cannot be empty"}
	}
	if len(name) > maxNameLength {
		return &ValidationError{Field: "name", Message: "product name cannot exceed 200 characters"}
	}
	if strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "description", Message: "product description cannot be empty"}
	}
	if len(description) > maxDescriptionLength {
		return &ValidationError{Field: "description", Message: "product description cannot exceed 1000 characters"}
	}
	if price < 0 {
		return &ValidationError{Field: "price", Message: "product price cannot be negative"}
	}
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Message: "product category cannot be empty"}
	}
	if len(category) > maxCategoryLength {
		return &ValidationError{Field: "category", Message: "product category cannot exceed 100 characters"}
	}
	return nil
}
