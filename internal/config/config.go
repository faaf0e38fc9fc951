// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir   string // Base directory for all databases (always absolute)
	Port      int
	LogLevel  string
	LogPretty bool
	DevMode   bool
	Analysis  AnalysisConfig
	Risk      RiskConfig
	Reports   ReportsConfig
}

// AnalysisConfig holds pipeline settings
type AnalysisConfig struct {
	Workers      int
	FetchTimeout time.Duration
}

// RiskConfig holds risk engine parameters
type RiskConfig struct {
	RiskFreeRate     float64
	MarketVolatility float64
}

// ReportsConfig holds report retention settings
type ReportsConfig struct {
	RetentionDays   int    // 0 keeps reports forever
	CleanupSchedule string // cron expression with seconds
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("FINWELL_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	cfg := &Config{
		DataDir:   absDataDir,
		Port:      getEnvAsInt("FINWELL_PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", false),
		DevMode:   getEnvAsBool("DEV_MODE", false),
		Analysis: AnalysisConfig{
			Workers:      getEnvAsInt("ANALYSIS_WORKERS", 10),
			FetchTimeout: time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Risk: RiskConfig{
			RiskFreeRate:     getEnvAsFloat("RISK_FREE_RATE", 0.02),
			MarketVolatility: getEnvAsFloat("MARKET_VOLATILITY", 0.16),
		},
		Reports: ReportsConfig{
			RetentionDays:   getEnvAsInt("REPORT_RETENTION_DAYS", 30),
			CleanupSchedule: getEnv("REPORT_CLEANUP_SCHEDULE", "0 0 3 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("ANALYSIS_WORKERS must be positive, got %d", c.Analysis.Workers)
	}
	if c.Analysis.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.Risk.MarketVolatility <= 0 {
		return fmt.Errorf("MARKET_VOLATILITY must be positive, got %v", c.Risk.MarketVolatility)
	}
	if c.Reports.RetentionDays < 0 {
		return fmt.Errorf("REPORT_RETENTION_DAYS must not be negative, got %d", c.Reports.RetentionDays)
	}
	return nil
}

// Helper functions
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
