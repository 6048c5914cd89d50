package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"catalog/internal/cache"
	"catalog/internal/database"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	db    *gorm.DB
	cache cache.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, store cache.Store) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: store,
	}
}

// RegisterRoutes registers the health routes with the Fiber router.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/health")
	routes.Get("/", h.HandleHealth)
	routes.Get("/live", h.HandleLive)
	routes.Get("/ready", h.HandleReady)
}

// HandleHealth reports basic service health without touching dependencies.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "catalog-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleLive is the liveness probe.
func (h *HealthHandler) HandleLive(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReady verifies both the database and the cache with a round trip and
// reports a per-dependency breakdown. 503 when either is unreachable.
func (h *HealthHandler) HandleReady(c *fiber.Ctx) error {
	checks := map[string]bool{
		"database": database.Ping(h.db.WithContext(c.Context())) == nil,
		"cache":    h.cache.Ping(c.Context()) == nil,
	}

	status := "ready"
	code := fiber.StatusOK
	if !checks["database"] || !checks["cache"] {
		status = "not_ready"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
