package repositories

import (
	"context"

	"tokoproduk/internal/models"
)

// ProductRepository defines the interface for product data access.
// Update and Delete report affected rows; zero means the id does not exist.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id int64, product *models.Product) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
