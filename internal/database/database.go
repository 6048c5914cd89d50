package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/models"
)

// Connect opens a PostgreSQL connection pool, applies the pool limits from
// the configuration, verifies connectivity with a round-trip query and runs
// schema migration. Callers treat an error as fatal.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC connect_timeout=%d",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
		int(cfg.ConnectTimeout.Seconds()),
	)

	// TranslateError maps driver-level unique constraint violations to
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxConns)
	sqlDB.SetConnMaxIdleTime(cfg.IdleTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := Ping(db.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}
	log.Println("Database connection test successful")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}

// Ping issues a trivial round-trip query, used at startup and by the
// readiness endpoint.
func Ping(db *gorm.DB) error {
	return db.Exec("SELECT 1").Error
}

// Close drains and closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database pool: %w", err)
	}
	return nil
}

// Transaction runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back on any error, which is re-raised to the
// caller.
func Transaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}
