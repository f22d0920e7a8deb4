// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port            string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	CVPath          string
	MaxPerDay       int
	MaxPerMinute    int
	MaxOutputTokens int
	AllowedOrigins  []string
}

// Default values
const (
	defaultPort            = "3000"
	defaultModel           = "gpt-4.1-mini"
	defaultCVPath          = "cv.txt"
	defaultMaxPerDay       = 30
	defaultMaxPerMinute    = 8
	defaultMaxOutputTokens = 250
)

// Load reads configuration from a .env file (if present) and environment
// variables. The OpenAI API key is the only required setting.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvString("PORT", defaultPort),
		OpenAIAPIKey:    getEnvString("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnvString("OPENAI_MODEL", defaultModel),
		OpenAIBaseURL:   getEnvString("OPENAI_BASE_URL", ""),
		CVPath:          getEnvString("CV_PATH", defaultCVPath),
		MaxPerDay:       getEnvInt("MAX_PER_DAY", defaultMaxPerDay),
		MaxPerMinute:    getEnvInt("MAX_PER_MINUTE", defaultMaxPerMinute),
		MaxOutputTokens: getEnvInt("MAX_OUTPUT_TOKENS", defaultMaxOutputTokens),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"*"}),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required (set via env or .env)")
	}
	if cfg.MaxPerDay <= 0 || cfg.MaxPerMinute <= 0 {
		return nil, fmt.Errorf("MAX_PER_DAY and MAX_PER_MINUTE must be positive")
	}

	return cfg, nil
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvList retrieves a comma-separated environment variable or returns the default.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
