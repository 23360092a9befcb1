package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv           string
	HTTPPort         int
	DashboardBaseURL string
	DashboardAPIKey  string
	FetchConcurrency int
	RedisAddr        string
	CacheTTL         time.Duration
	AnthropicAPIKey  string
	AnthropicModel   string
	OutputDir        string
	BrowserBin       string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	portStr := getEnv("HTTP_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 8080
	}

	concurrencyStr := getEnv("FETCH_CONCURRENCY", "5")
	concurrency, err := strconv.Atoi(concurrencyStr)
	if err != nil || concurrency < 1 {
		concurrency = 5
	}

	ttlStr := getEnv("CACHE_TTL", "10m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 10 * time.Minute
	}

	return &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		HTTPPort:         port,
		DashboardBaseURL: getEnv("DASHBOARD_BASE_URL", "https://dashboard.nregsmp.org"),
		DashboardAPIKey:  getEnv("DASHBOARD_API_KEY", ""),
		FetchConcurrency: concurrency,
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:         ttl,
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-7-sonnet-20250219"),
		OutputDir:        getEnv("OUTPUT_DIR", "./output"),
		BrowserBin:       getEnv("BROWSER_BIN", ""),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
