package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog/internal/cache"
	"catalog/internal/models"
)

const (
	categoryCachePrefix = "category:"
	categoryListKey     = "categories:all"

	// Categories change rarely, the full listing can live longer.
	categoryListCacheTTL = 10 * time.Minute
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository with
// the same cache-aside pattern as the product repository.
type GORMCategoryRepository struct {
	db    *gorm.DB
	cache cache.Store
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB, store cache.Store) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		db:    db,
		cache: store,
	}
}

func categoryCacheKey(id string) string {
	return categoryCachePrefix + id
}

// FindAll returns every category ordered by name.
func (r *GORMCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	if cached, ok := r.cache.Get(ctx, categoryListKey); ok {
		var categories []models.Category
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
	}

	categories := make([]models.Category, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if data, err := json.Marshal(categories); err == nil {
		r.cache.Set(ctx, categoryListKey, string(data), categoryListCacheTTL)
	}

	return categories, nil
}

// FindByID retrieves a single category by its ID, cache first. A missing row
// is (nil, nil).
func (r *GORMCategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	cacheKey := categoryCacheKey(id)
	if cached, ok := r.cache.Get(ctx, cacheKey); ok {
		var category models.Category
		if err := json.Unmarshal([]byte(cached), &category); err == nil {
			return &category, nil
		}
	}

	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}

	r.cacheCategory(ctx, &category)
	return &category, nil
}

// FindBySlug looks a category up by its slug, bypassing the cache. Used by
// the uniqueness pre-check.
func (r *GORMCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by slug %s: %w", slug, err)
	}
	return &category, nil
}

// Create inserts a new category, populates its cache entry and invalidates
// the cached listing. A unique constraint violation maps to ErrDuplicateSlug.
func (r *GORMCategoryRepository) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	r.cacheCategory(ctx, category)
	r.cache.Delete(ctx, categoryListKey)

	return category, nil
}

// Update applies the supplied fields only, always refreshing updated_at. An
// empty update degrades to a plain read. A missing row is (nil, nil).
func (r *GORMCategoryRepository) Update(ctx context.Context, id string, req models.UpdateCategoryRequest) (*models.Category, error) {
	if req.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ParentID != nil {
		updates["parent_id"] = *req.ParentID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update category %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	r.cache.Delete(ctx, categoryCacheKey(id))
	r.cache.Delete(ctx, categoryListKey)

	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload category %s after update: %w", id, err)
	}
	return &category, nil
}

// Delete removes a category by ID and reports whether a row was deleted.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete category %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	r.cache.Delete(ctx, categoryCacheKey(id))
	r.cache.Delete(ctx, categoryListKey)

	return true, nil
}

func (r *GORMCategoryRepository) cacheCategory(ctx context.Context, category *models.Category) {
	if data, err := json.Marshal(category); err == nil {
		r.cache.Set(ctx, categoryCacheKey(category.ID), string(data), 0)
	}
}
