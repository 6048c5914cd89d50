package services

import (
	"context"
	"log"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// CategoryService handles business logic related to categories, mirroring
// ProductService with the slug as the uniqueness key.
type CategoryService struct {
	repo   repositories.CategoryRepository
	events EventPublisher
}

// NewCategoryService creates a new CategoryService. events may be nil.
func NewCategoryService(repo repositories.CategoryRepository, events EventPublisher) *CategoryService {
	return &CategoryService{
		repo:   repo,
		events: events,
	}
}

// List returns every category ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.FindAll(ctx)
}

// Get retrieves a single category by ID. A missing category is (nil, nil).
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.FindByID(ctx, id)
}

// Create creates a new category after the slug uniqueness pre-check.
func (s *CategoryService) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	existing, err := s.repo.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repositories.ErrDuplicateSlug
	}

	category, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.publish("category.created", map[string]interface{}{
		"id":   category.ID,
		"slug": category.Slug,
	})
	return category, nil
}

// Update applies a partial update. A missing category is (nil, nil).
func (s *CategoryService) Update(ctx context.Context, id string, req models.UpdateCategoryRequest) (*models.Category, error) {
	if req.Slug != nil {
		existing, err := s.repo.FindBySlug(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, repositories.ErrDuplicateSlug
		}
	}

	category, err := s.repo.Update(ctx, id, req)
	if err != nil || category == nil {
		return category, err
	}

	s.publish("category.updated", map[string]interface{}{
		"id":   category.ID,
		"slug": category.Slug,
	})
	return category, nil
}

// Delete removes a category by ID and reports whether it existed.
func (s *CategoryService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.publish("category.deleted", map[string]interface{}{"id": id})
	return true, nil
}

func (s *CategoryService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCatalogEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
