package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the category routes with the Fiber router.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/categories")
	routes.Get("/", h.HandleList)
	routes.Get("/:id", h.HandleGet)
	routes.Post("/", h.HandleCreate)
	routes.Put("/:id", h.HandleUpdate)
	routes.Delete("/:id", h.HandleDelete)
}

// HandleList returns every category ordered by name.
func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	categories, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// HandleGet returns a single category by ID.
func (h *CategoryHandler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a valid UUID")
	}

	category, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if category == nil {
		return fiber.NewError(fiber.StatusNotFound, "Category not found")
	}
	return c.JSON(category)
}

// HandleCreate creates a new category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	category, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateSlug) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdate applies a partial update to a category.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a valid UUID")
	}

	var req models.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	category, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateSlug) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	if category == nil {
		return fiber.NewError(fiber.StatusNotFound, "Category not found")
	}
	return c.JSON(category)
}

// HandleDelete removes a category by ID.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a valid UUID")
	}

	deleted, err := h.service.Delete(c.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return fiber.NewError(fiber.StatusNotFound, "Category not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
