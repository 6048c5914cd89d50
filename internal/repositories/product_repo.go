package repositories

import (
	"context"

	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
// Absent rows are reported as nil results, not errors.
type ProductRepository interface {
	FindAll(ctx context.Context, filter models.ProductFilter, page models.Pagination) (*models.PaginatedProducts, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}
