package models

import "time"

// Product represents a product in the catalog.
// SKU carries a unique index; the database constraint is the authoritative
// guard against duplicates, the service-level pre-check only gives friendlier
// errors.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	Description   string    `json:"description" gorm:"type:text;not null"`
	Price         float64   `json:"price" gorm:"not null"`
	SKU           string    `json:"sku" gorm:"column:sku;uniqueIndex;type:varchar(100);not null"`
	CategoryID    *string   `json:"category_id" gorm:"type:varchar(36);index"`
	StockQuantity int       `json:"stock_quantity" gorm:"not null;default:0"`
	ImageURL      *string   `json:"image_url" gorm:"type:varchar(2048)"`
	IsActive      bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateProductRequest is the payload for POST /products.
type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Description   string   `json:"description" validate:"required"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	SKU           string   `json:"sku" validate:"required,max=100"`
	CategoryID    *string  `json:"category_id" validate:"omitempty,uuid"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	IsActive      *bool    `json:"is_active"`
}

// UpdateProductRequest is the partial payload for PUT /products/:id.
// Only non-nil fields are applied.
type UpdateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description" validate:"omitempty,min=1"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	SKU           *string  `json:"sku" validate:"omitempty,min=1,max=100"`
	CategoryID    *string  `json:"category_id" validate:"omitempty,uuid"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	IsActive      *bool    `json:"is_active"`
}

// IsEmpty reports whether the update carries no fields at all.
func (r UpdateProductRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil &&
		r.SKU == nil && r.CategoryID == nil && r.StockQuantity == nil &&
		r.ImageURL == nil && r.IsActive == nil
}

// ProductFilter holds the optional list filters for GET /products.
type ProductFilter struct {
	CategoryID *string
	IsActive   *bool
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
}

// Pagination carries normalized page parameters.
type Pagination struct {
	Page  int
	Limit int
}

// PageMeta describes one page of a paginated response.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PaginatedProducts is the body of GET /products.
type PaginatedProducts struct {
	Data       []Product `json:"data"`
	Pagination PageMeta  `json:"pagination"`
}
