package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"catalog/internal/cache"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/repositories"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := config.Load()
	if cfg.LogLevel == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	// Store and cache connectivity are required at startup.
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	store, err := cache.New(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	// Catalog event publishing is optional; an empty URL disables it.
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		events = mqClient
	}

	productRepo := repositories.NewGORMProductRepository(db, store)
	categoryRepo := repositories.NewGORMCategoryRepository(db, store)

	productService := services.NewProductService(productRepo, events)
	categoryService := services.NewCategoryService(categoryRepo, events)

	app := server.New(cfg, db, store, productService, categoryService)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()
	log.Printf("catalog-api listening on port %s", cfg.Port)

	<-quit
	log.Println("Shutting down server...")

	shutdownFailed := false
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Printf("Error during server shutdown: %v", err)
		shutdownFailed = true
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
			shutdownFailed = true
		}
	}
	if err := store.Close(); err != nil {
		log.Printf("Error closing cache client: %v", err)
		shutdownFailed = true
	}
	if err := database.Close(db); err != nil {
		log.Printf("Error closing database pool: %v", err)
		shutdownFailed = true
	}

	if shutdownFailed {
		os.Exit(1)
	}
	log.Println("Server gracefully stopped")
}
