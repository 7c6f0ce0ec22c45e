package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Console server
	HTTPHost string `env:"HTTP_HOST" default:"127.0.0.1"`
	HTTPPort int    `env:"HTTP_PORT" default:"8080"`

	// Backends (collection endpoints)
	UsersAPIURL string `env:"USERS_API_URL" default:"http://localhost:8001/users/"`
	BooksAPIURL string `env:"BOOKS_API_URL" default:"http://localhost:8002/books/"`
	LoansAPIURL string `env:"LOANS_API_URL" default:"http://localhost:8000/loans/"`

	// Outbound requests
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" default:"10s"`
	BackendRateLimit float64       `env:"BACKEND_RATE_LIMIT" default:"0"`

	// Sessions
	SessionTTL   time.Duration `env:"SESSION_TTL" default:"12h"`
	SessionLimit int           `env:"SESSION_LIMIT" default:"1000"`

	// Development
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables, after reading the
// given .env files (".env" when none are given). Missing files are fine;
// variables already set in the environment win.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// Console server
	if err := loadEnvString(&config.HTTPHost, "HTTP_HOST", "127.0.0.1"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Backends
	if err := loadEnvURL(&config.UsersAPIURL, "USERS_API_URL", "http://localhost:8001/users/"); err != nil {
		return nil, err
	}
	if err := loadEnvURL(&config.BooksAPIURL, "BOOKS_API_URL", "http://localhost:8002/books/"); err != nil {
		return nil, err
	}
	if err := loadEnvURL(&config.LoansAPIURL, "LOANS_API_URL", "http://localhost:8000/loans/"); err != nil {
		return nil, err
	}

	// Outbound requests
	if err := loadEnvDuration(&config.RequestTimeout, "REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.BackendRateLimit, "BACKEND_RATE_LIMIT", 0); err != nil {
		return nil, err
	}

	// Sessions
	if err := loadEnvDuration(&config.SessionTTL, "SESSION_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SessionLimit, "SESSION_LIMIT", 1000); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

// loadEnvURL also makes sure the collection URL ends with a slash.
func loadEnvURL(target *string, key, defaultValue string) error {
	if err := loadEnvString(target, key, defaultValue); err != nil {
		return err
	}
	*target = NormalizeEndpoint(*target)
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// NormalizeEndpoint trims whitespace and appends the trailing slash the
// backends expect on collection URLs.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint != "" && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return endpoint
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	endpoints := []struct {
		key, value string
	}{
		{"USERS_API_URL", c.UsersAPIURL},
		{"BOOKS_API_URL", c.BooksAPIURL},
		{"LOANS_API_URL", c.LoansAPIURL},
	}
	for _, e := range endpoints {
		if !isHTTPURL(e.value) {
			errors = append(errors, fmt.Sprintf("%s must be an absolute http(s) URL", e.key))
		}
	}

	if c.RequestTimeout <= 0 {
		errors = append(errors, "REQUEST_TIMEOUT must be positive")
	}
	if c.BackendRateLimit < 0 {
		errors = append(errors, "BACKEND_RATE_LIMIT must not be negative")
	}
	if c.SessionTTL <= 0 {
		errors = append(errors, "SESSION_TTL must be positive")
	}
	if c.SessionLimit < 1 {
		errors = append(errors, "SESSION_LIMIT must be at least 1")
	}

	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	// Validate log format
	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Addr is the listen address of the console server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
