package config

import (
	"os"
	"strconv"

	"trialpower/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AnalysisConfig holds the knobs handed to the analysis service and the
// power library
type AnalysisConfig struct {
	SweepPoints      int
	TargetPower      float64
	BatchConcurrency int
	QuadratureNodes  int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Analysis: *loadAnalysisConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("SERVER_PORT", "8080"),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		SweepPoints:      getEnvIntOrDefault("SWEEP_POINTS", 16),
		TargetPower:      getEnvFloatOrDefault("TARGET_POWER", 0.8),
		BatchConcurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
		QuadratureNodes:  getEnvIntOrDefault("QUADRATURE_NODES", 96),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	a := config.Analysis
	if a.SweepPoints < 1 {
		return errors.ConfigInvalid("SWEEP_POINTS must be at least 1")
	}
	if !(a.TargetPower > 0 && a.TargetPower < 1) {
		return errors.ConfigInvalid("TARGET_POWER must be strictly between 0 and 1")
	}
	if a.BatchConcurrency < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	if a.QuadratureNodes < 8 {
		return errors.ConfigInvalid("QUADRATURE_NODES must be at least 8")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
