package repositories

import (
	"context"

	"catalog/internal/models"
)

// CategoryRepository defines the interface for category data access.
// Absent rows are reported as nil results, not errors.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id string, req models.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id string) (bool, error)
}
