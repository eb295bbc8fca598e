// Package config provides configuration loading for the extraction pipeline.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the pipeline.
type Config struct {
	OCR      OCRConfig      `yaml:"ocr"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// OCRConfig holds vision OCR endpoint settings. The API key is never stored
// in a file; it is read from OPENROUTER_API_KEY.
type OCRConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// PipelineConfig holds extraction tuning knobs.
type PipelineConfig struct {
	BatchSize            int `yaml:"batch_size"`
	MaxImagesPerPage     int `yaml:"max_images_per_page"`
	ScannedTextThreshold int `yaml:"scanned_text_threshold"`
	RenderQuality        int `yaml:"render_quality"`
	ChunkWords           int `yaml:"chunk_words"`
}

// StorageConfig holds chunk-store settings.
type StorageConfig struct {
	Driver   string         `yaml:"driver"` // sqlite3 or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OCR: OCRConfig{
			BaseURL:   "https://openrouter.ai/api/v1/chat/completions",
			Model:     "x-ai/grok-4.1-fast:free",
			MaxTokens: 1024,
			Timeout:   2 * time.Minute,
		},
		Pipeline: PipelineConfig{
			BatchSize:            3,
			MaxImagesPerPage:     2,
			ScannedTextThreshold: 100,
			RenderQuality:        85,
			ChunkWords:           500,
		},
		Storage: StorageConfig{
			Driver: "sqlite3",
			SQLite: SQLiteConfig{Path: "docextract.db"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from an optional YAML file, then applies
// environment overrides. An empty path loads defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config from DOCEXTRACT_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCEXTRACT_OCR_BASE_URL"); v != "" {
		c.OCR.BaseURL = v
	}
	if v := os.Getenv("DOCEXTRACT_OCR_MODEL"); v != "" {
		c.OCR.Model = v
	}
	if v := os.Getenv("DOCEXTRACT_OCR_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.OCR.MaxTokens = n
		}
	}
	if v := os.Getenv("DOCEXTRACT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.BatchSize = n
		}
	}
	if v := os.Getenv("DOCEXTRACT_MAX_IMAGES_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.MaxImagesPerPage = n
		}
	}
	if v := os.Getenv("DOCEXTRACT_CHUNK_WORDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.ChunkWords = n
		}
	}
	if v := os.Getenv("DOCEXTRACT_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("DOCEXTRACT_SQLITE_PATH"); v != "" {
		c.Storage.SQLite.Path = v
	}
	if v := os.Getenv("DOCEXTRACT_POSTGRES_DSN"); v != "" {
		c.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("DOCEXTRACT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DOCEXTRACT_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Pipeline.BatchSize < 1 {
		return fmt.Errorf("pipeline.batch_size must be >= 1, got %d", c.Pipeline.BatchSize)
	}
	if c.Pipeline.MaxImagesPerPage < 0 {
		return fmt.Errorf("pipeline.max_images_per_page must be >= 0, got %d", c.Pipeline.MaxImagesPerPage)
	}
	if c.Pipeline.ChunkWords < 1 {
		return fmt.Errorf("pipeline.chunk_words must be >= 1, got %d", c.Pipeline.ChunkWords)
	}
	if c.Pipeline.RenderQuality < 1 || c.Pipeline.RenderQuality > 100 {
		return fmt.Errorf("pipeline.render_quality must be between 1 and 100, got %d", c.Pipeline.RenderQuality)
	}
	switch c.Storage.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("storage.driver must be sqlite3 or postgres, got %q", c.Storage.Driver)
	}
	return nil
}
