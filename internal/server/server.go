package server

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"catalog/internal/cache"
	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/services"
)

// New composes the Fiber application: cross-cutting middleware, the API
// routes under the configured prefix and the terminal 404 handler.
func New(cfg *config.Config, db *gorm.DB, store cache.Store, products *services.ProductService, categories *services.CategoryService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "catalog-api",
		ErrorHandler: newErrorHandler(cfg),
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
	}))
	app.Use(logger.New())

	// Service metadata at the root, outside the versioned prefix.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Catalog API",
			"version": "1.0.0",
			"status":  "healthy",
		})
	})

	api := app.Group(cfg.APIPrefix, limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later",
			})
		},
	}))

	handlers.NewHealthHandler(db, store).RegisterRoutes(api)
	handlers.NewProductHandler(products).RegisterRoutes(api)
	handlers.NewCategoryHandler(categories).RegisterRoutes(api)

	// Anything that falls through the routes above is a 404.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("Route %s %s not found", c.Method(), c.Path()))
	})

	return app
}

// newErrorHandler renders every error escaping a handler as {error: message}.
// Unknown errors become a generic 500; the underlying detail is exposed only
// outside production.
func newErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Printf("Request error: %s %s: %v", c.Method(), c.Path(), err)
		}

		body := fiber.Map{"error": message}
		if cfg.IsDevelopment() && code >= fiber.StatusInternalServerError {
			body["detail"] = err.Error()
		}
		return c.Status(code).JSON(body)
	}
}
