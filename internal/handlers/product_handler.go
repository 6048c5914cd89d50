package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/products")
	routes.Get("/", h.HandleList)
	routes.Get("/:id", h.HandleGet)
	routes.Post("/", h.HandleCreate)
	routes.Put("/:id", h.HandleUpdate)
	routes.Delete("/:id", h.HandleDelete)
}

// parseListQuery validates and converts the list query parameters.
func parseListQuery(c *fiber.Ctx) (models.ProductFilter, models.Pagination, error) {
	var filter models.ProductFilter
	page := models.Pagination{Page: 1, Limit: 20}

	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return filter, page, fiber.NewError(fiber.StatusBadRequest, "page must be a positive integer")
		}
		page.Page = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			return filter, page, fiber.NewError(fiber.StatusBadRequest, "limit must be an integer between 1 and 100")
		}
		page.Limit = v
	}
	if raw := c.Query("category_id"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			return filter, page, fiber.NewError(fiber.StatusBadRequest, "category_id must be a valid UUID")
		}
		filter.CategoryID = &raw
	}
	if raw := c.Query("is_active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, page, fiber.NewError(fiber.StatusBadRequest, "is_active must be a boolean")
		}
		filter.IsActive = &v
	}
	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return filter, page, fiber.NewError(fiber.StatusBadRequest, "min_price must be a non-negative number")
		}
		filter.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return filter, page, fiber.NewError(fiber.StatusBadRequest, "max_price must be a non-negative number")
		}
		filter.MaxPrice = &v
	}
	filter.Search = strings.TrimSpace(c.Query("search"))

	return filter, page, nil
}

// HandleList returns a filtered, paginated list of products.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	filter, page, err := parseListQuery(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Context(), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleGet returns a single product by ID.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a valid UUID")
	}

	product, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if product == nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	return c.JSON(product)
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	product, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate applies a partial update to a product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a valid UUID")
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	product, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	if product == nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	return c.JSON(product)
}

// HandleDelete removes a product by ID.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a valid UUID")
	}

	deleted, err := h.service.Delete(c.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
