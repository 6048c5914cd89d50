package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog/internal/cache"
	"catalog/internal/models"
)

const (
	productCachePrefix     = "product:"
	productListCachePrefix = "products:list:"

	// List pages invalidate on every write and drift faster than single
	// entities, so they expire sooner than the cache's default TTL.
	productListCacheTTL = 60 * time.Second
)

// GORMProductRepository is a GORM implementation of ProductRepository with a
// cache-aside read path. Cache failures never fail the caller.
type GORMProductRepository struct {
	db    *gorm.DB
	cache cache.Store
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB, store cache.Store) *GORMProductRepository {
	return &GORMProductRepository{
		db:    db,
		cache: store,
	}
}

func productCacheKey(id string) string {
	return productCachePrefix + id
}

// productListCacheKey encodes the full filter and pagination in a fixed field
// order, so equivalent lookups always map to the same key.
func productListCacheKey(filter models.ProductFilter, page models.Pagination) string {
	return fmt.Sprintf(
		"%scategory_id=%s&is_active=%s&min_price=%s&max_price=%s&search=%s&page=%d&limit=%d",
		productListCachePrefix,
		keySegment(filter.CategoryID),
		keySegment(filter.IsActive),
		keySegment(filter.MinPrice),
		keySegment(filter.MaxPrice),
		filter.Search,
		page.Page,
		page.Limit,
	)
}

// keySegment renders an optional filter field for use inside a cache key.
func keySegment[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

// productFilterScope applies the conjunction of whichever filter fields are
// present.
func productFilterScope(filter models.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.CategoryID != nil {
			db = db.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.IsActive != nil {
			db = db.Where("is_active = ?", *filter.IsActive)
		}
		if filter.MinPrice != nil {
			db = db.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			db = db.Where("price <= ?", *filter.MaxPrice)
		}
		if filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		}
		return db
	}
}

// FindAll returns one page of products matching the filter, newest first.
func (r *GORMProductRepository) FindAll(ctx context.Context, filter models.ProductFilter, page models.Pagination) (*models.PaginatedProducts, error) {
	cacheKey := productListCacheKey(filter, page)
	if cached, ok := r.cache.Get(ctx, cacheKey); ok {
		var result models.PaginatedProducts
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	scope := productFilterScope(filter)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page.Page - 1) * page.Limit
	products := make([]models.Product, 0)
	err := r.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	result := &models.PaginatedProducts{
		Data: products,
		Pagination: models.PageMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}

	if data, err := json.Marshal(result); err == nil {
		r.cache.Set(ctx, cacheKey, string(data), productListCacheTTL)
	}

	return result, nil
}

// FindByID retrieves a single product by its ID, cache first. A missing row
// is (nil, nil).
func (r *GORMProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	cacheKey := productCacheKey(id)
	if cached, ok := r.cache.Get(ctx, cacheKey); ok {
		var product models.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			return &product, nil
		}
	}

	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}

	r.cacheProduct(ctx, &product)
	return &product, nil
}

// FindBySKU looks a product up by its SKU, bypassing the cache. Used by the
// uniqueness pre-check.
func (r *GORMProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by SKU %s: %w", sku, err)
	}
	return &product, nil
}

// Create inserts a new product, populates its cache entry and invalidates
// every cached list page. A unique constraint violation maps to
// ErrDuplicateSKU, the same conflict the service pre-check produces.
func (r *GORMProductRepository) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		SKU:         req.SKU,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.cacheProduct(ctx, product)
	r.cache.DeletePattern(ctx, productListCachePrefix+"*")

	return product, nil
}

// Update applies the supplied fields only, always refreshing updated_at. An
// empty update degrades to a plain read. A missing row is (nil, nil).
func (r *GORMProductRepository) Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	if req.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	// Drop the stale entry instead of refreshing it; the next read repopulates.
	r.cache.Delete(ctx, productCacheKey(id))
	r.cache.DeletePattern(ctx, productListCachePrefix+"*")

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product %s after update: %w", id, err)
	}
	return &product, nil
}

// Delete removes a product by ID and reports whether a row was deleted.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	r.cache.Delete(ctx, productCacheKey(id))
	r.cache.DeletePattern(ctx, productListCachePrefix+"*")

	return true, nil
}

func (r *GORMProductRepository) cacheProduct(ctx context.Context, product *models.Product) {
	if data, err := json.Marshal(product); err == nil {
		r.cache.Set(ctx, productCacheKey(product.ID), string(data), 0)
	}
}
