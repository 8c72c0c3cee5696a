package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Batch    BatchConfig
	Export   ExportConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// BatchConfig holds batch-driver configuration
type BatchConfig struct {
	PDFDir      string
	TxtDir      string
	OutDir      string
	ExcludeFile string
	GeoOverride string
	Redo        bool
	Strict      bool
}

// ExportConfig holds output-related configuration
type ExportConfig struct {
	Workbook bool
	BaseURL  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Batch: BatchConfig{
			PDFDir:      getEnv("ARRETES_PDF_DIR", ""),
			TxtDir:      getEnv("ARRETES_TXT_DIR", ""),
			OutDir:      getEnv("ARRETES_OUT_DIR", ""),
			ExcludeFile: getEnv("ARRETES_EXCLUDE_FILE", ""),
			GeoOverride: getEnv("ARRETES_GEO_OVERRIDE", ""),
			Redo:        getEnvAsBool("ARRETES_REDO", false),
			Strict:      getEnvAsBool("ARRETES_STRICT", false),
		},
		Export: ExportConfig{
			Workbook: getEnvAsBool("ARRETES_XLSX", false),
			BaseURL:  getEnv("ARRETES_BASE_URL", "https://sig.ampmetropole.fr/geodata/geo_arretes/peril"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Batch.PDFDir == "" {
		return NewAppError("CONFIG_ERROR", "ARRETES_PDF_DIR is required", ErrInvalidInput)
	}
	if c.Batch.TxtDir == "" {
		return NewAppError("CONFIG_ERROR", "ARRETES_TXT_DIR is required", ErrInvalidInput)
	}
	if c.Batch.OutDir == "" {
		return NewAppError("CONFIG_ERROR", "ARRETES_OUT_DIR is required", ErrInvalidInput)
	}
	return nil
}
