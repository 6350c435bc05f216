// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir         string // Base directory for the SQLite database (always absolute)
	Port            int
	LogLevel        string
	DevMode         bool
	Watchlist       []string // Symbols the scheduler refreshes
	RefreshSchedule string   // Cron spec for the refresh job
	RiskFreeRate    float64  // Annual risk-free rate used in ratio calculations
	YahooBaseURL    string   // Overridable for testing; empty selects the public endpoint
	AnthropicAPIKey string   // Empty disables the narrative endpoint
	AnthropicModel  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("MARKETLENS_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		Port:            getEnvAsInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		Watchlist:       splitList(getEnv("WATCHLIST", "")),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 30 21 * * MON-FRI"), // after US close, UTC
		RiskFreeRate:    getEnvAsFloat("RISK_FREE_RATE", 0.02),
		YahooBaseURL:    getEnv("YAHOO_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", ""),
	}

	if cfg.RiskFreeRate < 0 || cfg.RiskFreeRate > 1 {
		return nil, fmt.Errorf("RISK_FREE_RATE must be between 0 and 1, got %v", cfg.RiskFreeRate)
	}

	return cfg, nil
}

// DatabasePath returns the path of the application database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "marketlens.db")
}

// splitList parses a comma-separated list, trimming whitespace and dropping
// empty entries. Symbols are stored uppercase.
func splitList(s string) []string {
	if s == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, strings.ToUpper(part))
		}
	}
	return items
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
