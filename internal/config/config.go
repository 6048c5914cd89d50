package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all environment-driven settings for the service.
type Config struct {
	Port        string
	APIPrefix   string
	Environment string
	LogLevel    string
	CORSOrigin  string

	RateLimitWindow time.Duration
	RateLimitMax    int

	ShutdownTimeout time.Duration

	Database DatabaseConfig
	Redis    RedisConfig

	// RabbitMQURL enables catalog event publishing when non-empty.
	RabbitMQURL string
}

// DatabaseConfig holds PostgreSQL connection and pool settings.
type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	MaxConns       int
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
}

// RedisConfig holds cache connection settings.
type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	DefaultTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("API_PREFIX", "/api/v1")
	viper.SetDefault("NODE_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ORIGIN", "*")
	viper.SetDefault("RATE_LIMIT_WINDOW_MS", 60000)
	viper.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "ecommerce_catalog")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_MAX_CONNECTIONS", 20)
	viper.SetDefault("DB_IDLE_TIMEOUT", 10000)
	viper.SetDefault("DB_CONNECTION_TIMEOUT", 5000)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL", 300)

	viper.SetDefault("RABBITMQ_URL", "")

	viper.AutomaticEnv()

	return &Config{
		Port:            viper.GetString("PORT"),
		APIPrefix:       viper.GetString("API_PREFIX"),
		Environment:     viper.GetString("NODE_ENV"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		CORSOrigin:      viper.GetString("CORS_ORIGIN"),
		RateLimitWindow: time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_MS")) * time.Millisecond,
		RateLimitMax:    viper.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		ShutdownTimeout: time.Duration(viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		Database: DatabaseConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			Name:           viper.GetString("DB_NAME"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			MaxConns:       viper.GetInt("DB_MAX_CONNECTIONS"),
			IdleTimeout:    time.Duration(viper.GetInt("DB_IDLE_TIMEOUT")) * time.Millisecond,
			ConnectTimeout: time.Duration(viper.GetInt("DB_CONNECTION_TIMEOUT")) * time.Millisecond,
		},
		Redis: RedisConfig{
			Host:       viper.GetString("REDIS_HOST"),
			Port:       viper.GetString("REDIS_PORT"),
			Password:   viper.GetString("REDIS_PASSWORD"),
			DB:         viper.GetInt("REDIS_DB"),
			DefaultTTL: time.Duration(viper.GetInt("CACHE_TTL")) * time.Second,
		},
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
	}
}

// IsDevelopment reports whether the service runs in development mode.
// Error responses include diagnostic detail only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}
