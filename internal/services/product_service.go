package services

import (
	"context"
	"log"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// EventPublisher publishes catalog change events to the message broker.
// Implemented by pkg/rabbitmq.Client; a nil publisher disables eventing.
type EventPublisher interface {
	PublishCatalogEvent(event string, payload map[string]interface{}) error
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// ProductService handles business logic related to products: pagination
// normalization, the SKU uniqueness pre-check and event publishing.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// normalizePagination applies the defaults and the page size cap.
func normalizePagination(page models.Pagination) models.Pagination {
	if page.Page < 1 {
		page.Page = defaultPage
	}
	if page.Limit < 1 {
		page.Limit = defaultLimit
	}
	if page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

// List returns one page of products matching the filter.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter, page models.Pagination) (*models.PaginatedProducts, error) {
	return s.repo.FindAll(ctx, filter, normalizePagination(page))
}

// Get retrieves a single product by ID. A missing product is (nil, nil).
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create creates a new product. The SKU pre-check gives a friendly conflict
// error before the insert; a concurrent race is still caught by the database
// unique constraint, which the repository maps to the same ErrDuplicateSKU.
func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	existing, err := s.repo.FindBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repositories.ErrDuplicateSKU
	}

	product, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.publish("product.created", map[string]interface{}{
		"id":  product.ID,
		"sku": product.SKU,
	})
	return product, nil
}

// Update applies a partial update. A missing product is (nil, nil).
func (s *ProductService) Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	if req.SKU != nil {
		existing, err := s.repo.FindBySKU(ctx, *req.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, repositories.ErrDuplicateSKU
		}
	}

	product, err := s.repo.Update(ctx, id, req)
	if err != nil || product == nil {
		return product, err
	}

	s.publish("product.updated", map[string]interface{}{
		"id":  product.ID,
		"sku": product.SKU,
	})
	return product, nil
}

// Delete removes a product by ID and reports whether it existed.
func (s *ProductService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.publish("product.deleted", map[string]interface{}{"id": id})
	return true, nil
}

// publish sends a catalog event best-effort; a broker failure never fails
// the request.
func (s *ProductService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCatalogEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
