package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Pipeline.BatchSize)
	assert.Equal(t, 2, cfg.Pipeline.MaxImagesPerPage)
	assert.Equal(t, 100, cfg.Pipeline.ScannedTextThreshold)
	assert.Equal(t, 500, cfg.Pipeline.ChunkWords)
	assert.Equal(t, "sqlite3", cfg.Storage.Driver)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ocr:
  model: custom/vision-model
pipeline:
  batch_size: 5
  chunk_words: 250
storage:
  driver: postgres
  postgres:
    dsn: postgres://localhost/docs
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom/vision-model", cfg.OCR.Model)
	assert.Equal(t, 5, cfg.Pipeline.BatchSize)
	assert.Equal(t, 250, cfg.Pipeline.ChunkWords)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://localhost/docs", cfg.Storage.Postgres.DSN)
	// Untouched fields keep defaults.
	assert.Equal(t, 2, cfg.Pipeline.MaxImagesPerPage)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCEXTRACT_OCR_MODEL", "env/model")
	t.Setenv("DOCEXTRACT_BATCH_SIZE", "7")
	t.Setenv("DOCEXTRACT_STORAGE_DRIVER", "postgres")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env/model", cfg.OCR.Model)
	assert.Equal(t, 7, cfg.Pipeline.BatchSize)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero batch size", func(c *Config) { c.Pipeline.BatchSize = 0 }},
		{"negative image cap", func(c *Config) { c.Pipeline.MaxImagesPerPage = -1 }},
		{"zero chunk words", func(c *Config) { c.Pipeline.ChunkWords = 0 }},
		{"render quality too high", func(c *Config) { c.Pipeline.RenderQuality = 101 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
