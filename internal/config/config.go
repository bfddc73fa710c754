package config

import (
	"os"
	"strconv"

	"goenrich/domain/enrichment"
	"goenrich/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Analysis  AnalysisConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string `validate:"required"`
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string `validate:"required"`
}

// AnalysisConfig holds default engine options, overridable per request.
type AnalysisConfig struct {
	GateCutoff      float64
	FilterCutoff    float64
	FilterDimension string
	Method          string
	Workers         int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = *loadServerConfig()
	config.Analysis = *loadAnalysisConfig()
	config.Profiling = *loadProfilingConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Options converts the configured analysis defaults into engine options.
func (c AnalysisConfig) Options() enrichment.Options {
	opts := enrichment.DefaultOptions()
	opts.GateCutoff = c.GateCutoff
	opts.FilterCutoff = c.FilterCutoff
	if c.FilterDimension != "" {
		opts.FilterDimension = enrichment.FilterDimension(c.FilterDimension)
	}
	if c.Method != "" {
		opts.Method = enrichment.CorrectionMethod(c.Method)
	}
	opts.Workers = c.Workers
	return opts
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:     url,
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	defaults := enrichment.DefaultOptions()
	return &AnalysisConfig{
		GateCutoff:      getEnvFloatOrDefault("GATE_CUTOFF", defaults.GateCutoff),
		FilterCutoff:    getEnvFloatOrDefault("FILTER_CUTOFF", defaults.FilterCutoff),
		FilterDimension: getEnvOrDefault("FILTER_DIMENSION", string(defaults.FilterDimension)),
		Method:          getEnvOrDefault("CORRECTION_METHOD", string(defaults.Method)),
		Workers:         getEnvIntOrDefault("ANALYSIS_WORKERS", 0),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if err := config.Analysis.Options().Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
