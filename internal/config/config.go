// Package config provides unified configuration loading for the ticket engine.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the ticket engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	OCR           OCRConfig           `yaml:"ocr"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
}

// OCRConfig holds text extraction settings.
type OCRConfig struct {
	TesseractPath string `yaml:"tesseract_path"`
	PageSegMode   int    `yaml:"page_seg_mode"`
	JPEGQuality   int    `yaml:"jpeg_quality"`
}

// CatalogConfig holds external catalog lookup settings.
type CatalogConfig struct {
	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
	SearchTimeout time.Duration `yaml:"search_timeout"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
}

// PipelineConfig holds generation pipeline settings.
type PipelineConfig struct {
	MaxConcurrentLookups int `yaml:"max_concurrent_lookups"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   32 << 20,
		},
		OCR: OCRConfig{
			TesseractPath: "tesseract",
			PageSegMode:   6,
			JPEGQuality:   95,
		},
		Catalog: CatalogConfig{
			BaseURL:       "https://www.dreams.co.uk",
			UserAgent:     "Mozilla/5.0 (compatible; ClearanceTickets/1.0)",
			SearchTimeout: 20 * time.Second,
			FetchTimeout:  25 * time.Second,
		},
		Pipeline: PipelineConfig{
			MaxConcurrentLookups: 4,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "ticket-engine",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base_url must not be empty")
	}

	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return fmt.Errorf("page_seg_mode must be between 0 and 13, got %d", c.OCR.PageSegMode)
	}

	if c.OCR.JPEGQuality < 1 || c.OCR.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.OCR.JPEGQuality)
	}

	if c.Pipeline.MaxConcurrentLookups < 1 {
		return fmt.Errorf("max_concurrent_lookups must be at least 1")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("CATALOG_BASE_URL"); v != "" {
		cfg.Catalog.BaseURL = v
	}

	if v := os.Getenv("CATALOG_USER_AGENT"); v != "" {
		cfg.Catalog.UserAgent = v
	}

	if v := os.Getenv("TESSERACT_PATH"); v != "" {
		cfg.OCR.TesseractPath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
