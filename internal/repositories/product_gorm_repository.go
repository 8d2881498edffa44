package repositories

import (
	"context"
	"errors"
	"time"

	"tokoproduk/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products in store order.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, storeError("get all products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("product_id = ?", id).Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError("get product", err)
	}
	return &product, nil
}

// Create inserts a product and fills in its assigned ID and timestamps.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return storeError("create product", err)
	}
	return nil
}

// Update overwrites every mutable column of the product with the given ID.
// Nil optional fields are written as NULL.
func (r *GORMProductRepository) Update(ctx context.Context, id int64, product *models.Product) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_id = ?", id).
		Updates(map[string]any{
			"product_name":        product.Name,
			"product_description": product.Description,
			"product_price":       product.Price,
			"product_variety":     product.Variety,
			"product_rating":      product.Rating,
			"product_stock":       product.Stock,
			"updated_at":          time.Now(),
		})
	if res.Error != nil {
		return 0, storeError("update product", res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes the product with the given ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return 0, storeError("delete product", res.Error)
	}
	return res.RowsAffected, nil
}
