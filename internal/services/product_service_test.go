package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

func ptr[T any](v T) *T {
	return &v
}

// MockProductRepository is a mock implementation of repositories.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter models.ProductFilter, page models.Pagination) (*models.PaginatedProducts, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaginatedProducts), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCatalogEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func TestProductService_List_NormalizesPagination(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	ctx := context.Background()

	empty := &models.PaginatedProducts{}

	// Absent parameters default to page 1, limit 20.
	mockRepo.On("FindAll", ctx, models.ProductFilter{}, models.Pagination{Page: 1, Limit: 20}).Return(empty, nil).Once()
	_, err := service.List(ctx, models.ProductFilter{}, models.Pagination{})
	require.NoError(t, err)

	// Oversized limits are capped at 100.
	mockRepo.On("FindAll", ctx, models.ProductFilter{}, models.Pagination{Page: 3, Limit: 100}).Return(empty, nil).Once()
	_, err = service.List(ctx, models.ProductFilter{}, models.Pagination{Page: 3, Limit: 500})
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_DuplicatePreCheck(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	ctx := context.Background()

	existing := &models.Product{ID: "p1", SKU: "W-1"}
	mockRepo.On("FindBySKU", ctx, "W-1").Return(existing, nil).Once()

	req := &models.CreateProductRequest{Name: "Widget", Description: "A widget", Price: ptr(9.99), SKU: "W-1"}
	_, err := service.Create(ctx, req)
	assert.ErrorIs(t, err, repositories.ErrDuplicateSKU)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_PublishesEvent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)
	ctx := context.Background()

	req := &models.CreateProductRequest{Name: "Widget", Description: "A widget", Price: ptr(9.99), SKU: "W-1"}
	created := &models.Product{ID: "p1", SKU: "W-1"}

	mockRepo.On("FindBySKU", ctx, "W-1").Return(nil, nil).Once()
	mockRepo.On("Create", ctx, req).Return(created, nil).Once()
	mockEvents.On("PublishCatalogEvent", "product.created", mock.Anything).Return(nil).Once()

	product, err := service.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)

	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_Create_BrokerFailureDoesNotFailRequest(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)
	ctx := context.Background()

	req := &models.CreateProductRequest{Name: "Widget", Description: "A widget", Price: ptr(9.99), SKU: "W-2"}
	created := &models.Product{ID: "p2", SKU: "W-2"}

	mockRepo.On("FindBySKU", ctx, "W-2").Return(nil, nil).Once()
	mockRepo.On("Create", ctx, req).Return(created, nil).Once()
	mockEvents.On("PublishCatalogEvent", "product.created", mock.Anything).Return(fmt.Errorf("broker down")).Once()

	product, err := service.Create(ctx, req)
	require.NoError(t, err)
	assert.NotNil(t, product)

	mockEvents.AssertExpectations(t)
}

func TestProductService_Update_SKUPreCheck(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	ctx := context.Background()

	// Another product already owns the SKU.
	other := &models.Product{ID: "other", SKU: "TAKEN"}
	mockRepo.On("FindBySKU", ctx, "TAKEN").Return(other, nil).Once()

	_, err := service.Update(ctx, "target", models.UpdateProductRequest{SKU: ptr("TAKEN")})
	assert.ErrorIs(t, err, repositories.ErrDuplicateSKU)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	// Re-submitting a product's own SKU is not a conflict.
	own := &models.Product{ID: "target", SKU: "TAKEN"}
	updated := &models.Product{ID: "target", SKU: "TAKEN", Name: "Renamed"}
	mockRepo.On("FindBySKU", ctx, "TAKEN").Return(own, nil).Once()
	mockRepo.On("Update", ctx, "target", mock.Anything).Return(updated, nil).Once()

	product, err := service.Update(ctx, "target", models.UpdateProductRequest{SKU: ptr("TAKEN")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", product.Name)

	mockRepo.AssertExpectations(t)
}

func TestProductService_Update_Missing(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)
	ctx := context.Background()

	mockRepo.On("Update", ctx, "ghost", mock.Anything).Return(nil, nil).Once()

	product, err := service.Update(ctx, "ghost", models.UpdateProductRequest{Name: ptr("x")})
	require.NoError(t, err)
	assert.Nil(t, product)
	mockEvents.AssertNotCalled(t, "PublishCatalogEvent", mock.Anything, mock.Anything)
}

func TestProductService_Delete(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "p1").Return(true, nil).Once()
	mockEvents.On("PublishCatalogEvent", "product.deleted", mock.Anything).Return(nil).Once()

	deleted, err := service.Delete(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, deleted)

	// A miss publishes nothing.
	mockRepo.On("Delete", ctx, "ghost").Return(false, nil).Once()
	deleted, err = service.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, deleted)

	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}
