package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	LogLevel      string
	PrettyLogs    bool
	TickMillis    int
	Speed         float64
	Seed          int64
	SavePath      string
	AutosaveTicks int
	Headless      bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PrettyLogs:    getEnvAsBool("PRETTY_LOGS", true),
		TickMillis:    getEnvAsInt("TICK_MS", 2000),
		Speed:         getEnvAsFloat("SPEED", 1.0),
		Seed:          int64(getEnvAsInt("SEED", 0)),
		SavePath:      getEnv("SAVE_PATH", "./data/qoinbots.save"),
		AutosaveTicks: getEnvAsInt("AUTOSAVE_TICKS", 30),
		Headless:      getEnvAsBool("HEADLESS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.TickMillis <= 0 {
		return fmt.Errorf("TICK_MS must be positive, got %d", c.TickMillis)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("SPEED must be positive, got %f", c.Speed)
	}
	if c.SavePath == "" {
		return fmt.Errorf("SAVE_PATH is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
