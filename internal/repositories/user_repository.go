package repositories

import "github.com/almeidaGustavo05/product-catalog-API/internal/models"

// UserRepository defines the persistence contract for catalog administrator
// accounts.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
