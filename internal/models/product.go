package models

import "time"

// Product represents a row of the products table.
type Product struct {
	ID          int64     `json:"product_id" gorm:"column:product_id;primaryKey;autoIncrement"`
	Name        string    `json:"product_name" gorm:"column:product_name;type:varchar(255);not null;uniqueIndex"`
	Description *string   `json:"product_description" gorm:"column:product_description;type:text"`
	Price       float64   `json:"product_price" gorm:"column:product_price;type:decimal(10,2);not null"`
	Variety     *string   `json:"product_variety" gorm:"column:product_variety;type:varchar(255)"`
	Rating      *float64  `json:"product_rating" gorm:"column:product_rating;type:decimal(3,2)"`
	Stock       int       `json:"product_stock" gorm:"column:product_stock;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name regardless of the naming strategy.
func (Product) TableName() string {
	return "products"
}

// ProductInput is the request payload for creating or replacing a product.
// Pointer fields keep an absent value apart from a zero value.
type ProductInput struct {
	Name        *string  `json:"product_name" validate:"required,min=1"`
	Description *string  `json:"product_description"`
	Price       *float64 `json:"product_price" validate:"required,gte=0"`
	Variety     *string  `json:"product_variety"`
	Rating      *float64 `json:"product_rating" validate:"omitempty,rating"`
	Stock       *int     `json:"product_stock" validate:"required,gte=0"`
}

// ToProduct builds a row from a validated payload. Absent optional fields stay nil.
func (in ProductInput) ToProduct() *Product {
	p := &Product{
		Description: in.Description,
		Variety:     in.Variety,
		Rating:      in.Rating,
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	return p
}
