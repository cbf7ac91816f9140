package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort   string
	DatabaseURL  string
	RedisURL     string
	JWTSecret    string
	JWTExpiry    time.Duration
	PageSize     int
	FetchTimeout time.Duration
	LogLevel     string
}

func LoadConfig() (*Config, error) {
	expiryStr := getEnv("JWT_EXPIRY", "24h")
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		return nil, errors.New("invalid JWT_EXPIRY format")
	}

	fetchTimeoutStr := getEnv("FETCH_TIMEOUT", "10s")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		return nil, errors.New("invalid FETCH_TIMEOUT format")
	}

	pageSizeStr := getEnv("PAGE_SIZE", "20")
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize <= 0 {
		return nil, errors.New("PAGE_SIZE must be a positive integer")
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiry:    expiry,
		PageSize:     pageSize,
		FetchTimeout: fetchTimeout,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
