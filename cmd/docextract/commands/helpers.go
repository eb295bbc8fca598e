package commands

import (
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/notesage/docextract/internal/config"
	"github.com/notesage/docextract/internal/observability"
	"github.com/notesage/docextract/internal/pdf"
	"github.com/notesage/docextract/internal/storage"
)

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return observability.NewLogger(observability.LogConfig{
		Level:   level,
		Format:  cfg.Log.Format,
		Service: "docextract",
	})
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return storage.Open("postgres", cfg.Storage.Postgres.DSN)
	default:
		return storage.Open("sqlite3", cfg.Storage.SQLite.Path)
	}
}

// mimeFromPath maps a file extension to the MIME types the pipeline accepts.
func mimeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdf.MIMEPDF
	case ".docx":
		return pdf.MIMEDocx
	default:
		return pdf.MIMEPlain
	}
}
