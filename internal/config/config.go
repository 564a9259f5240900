package config

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string `validate:"required"`
	Env            string `validate:"oneof=development staging production"`
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	User     string `validate:"required"`
	Password string
	Database string `validate:"required"`
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CatalogConfig tunes the catalog views. WorkingSetLimit bounds how many
// products one listing request loads for in-memory filtering.
type CatalogConfig struct {
	PageSize        int `validate:"gt=0"`
	FeaturedLimit   int `validate:"gt=0"`
	RelatedLimit    int `validate:"gt=0"`
	WorkingSetLimit int `validate:"gt=0"`
}

type RateLimitConfig struct {
	Requests      int `validate:"gt=0"`
	WindowSeconds int `validate:"gt=0"`
}

// DSN builds a Postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Addr builds a host:port address for the Redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Load reads configuration from the environment (and an optional .env
// file), applies defaults, and validates the result.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_DATABASE", "diecast")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CATALOG_PAGE_SIZE", 12)
	viper.SetDefault("CATALOG_FEATURED_LIMIT", 4)
	viper.SetDefault("CATALOG_RELATED_LIMIT", 4)
	viper.SetDefault("CATALOG_WORKING_SET_LIMIT", 500)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: viper.GetStringSlice("ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Catalog: CatalogConfig{
			PageSize:        viper.GetInt("CATALOG_PAGE_SIZE"),
			FeaturedLimit:   viper.GetInt("CATALOG_FEATURED_LIMIT"),
			RelatedLimit:    viper.GetInt("CATALOG_RELATED_LIMIT"),
			WorkingSetLimit: viper.GetInt("CATALOG_WORKING_SET_LIMIT"),
		},
		RateLimit: RateLimitConfig{
			Requests:      viper.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
