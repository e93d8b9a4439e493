package config

import (
	"os"
	"path/filepath"
	"strconv"

	"hplusminus/internal"
	"hplusminus/internal/errors"

	"github.com/joho/godotenv"
)

// Default values applied when the environment leaves a setting unset.
const (
	DefaultCalibrationDirName = "gsp"
	DefaultColumn             = 1
	DefaultHTTPAddr           = ":8080"
	DefaultBatchWorkers       = 4
)

// Config represents the complete application configuration
type Config struct {
	Calibration CalibrationConfig
	Input       InputConfig
	Server      ServerConfig
	Batch       BatchConfig
	LogLevel    internal.LogLevel
}

// CalibrationConfig locates the spline resources
type CalibrationConfig struct {
	Dir string
}

// InputConfig holds residual file settings
type InputConfig struct {
	Column int
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr          string
	MaxConcurrent int // 0 means unlimited
}

// BatchConfig holds batch evaluation settings
type BatchConfig struct {
	Workers int
}

// Load reads .env files (when present) and the environment, then validates
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is not an error; variables may come from the environment.
	_ = godotenv.Load(envFiles...)

	level, ok := internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))
	if !ok {
		return nil, errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}

	config := &Config{
		Calibration: CalibrationConfig{Dir: getEnvOrDefault("HPLUSMINUS_GSP_DIR", DefaultCalibrationDir())},
		Input:       InputConfig{Column: getEnvIntOrDefault("HPLUSMINUS_COLUMN", DefaultColumn)},
		Server: ServerConfig{
			Addr:          getEnvOrDefault("HPLUSMINUS_HTTP_ADDR", DefaultHTTPAddr),
			MaxConcurrent: getEnvIntOrDefault("HPLUSMINUS_HTTP_MAX_CONCURRENT", 0),
		},
		Batch:    BatchConfig{Workers: getEnvIntOrDefault("HPLUSMINUS_BATCH_WORKERS", DefaultBatchWorkers)},
		LogLevel: level,
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	if c.Calibration.Dir == "" {
		return errors.ConfigInvalid("calibration directory is required")
	}
	if c.Input.Column < 1 {
		return errors.ConfigInvalid("column is 1-based and must be at least 1")
	}
	if c.Batch.Workers < 1 {
		return errors.ConfigInvalid("batch workers must be at least 1")
	}
	if c.Server.Addr == "" {
		return errors.ConfigInvalid("HTTP address is required")
	}
	if c.Server.MaxConcurrent < 0 {
		return errors.ConfigInvalid("HTTP max concurrent requests cannot be negative")
	}
	return nil
}

// DefaultCalibrationDir returns the gsp directory next to the executable when
// it exists, otherwise ./gsp.
func DefaultCalibrationDir() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), DefaultCalibrationDirName)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return DefaultCalibrationDirName
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
