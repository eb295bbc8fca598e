// Package storage persists document text chunks behind database/sql.
// Supported drivers: sqlite3 and postgres.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/notesage/docextract/internal/domain"
)

// Open connects to the chunk database and verifies the connection.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, domain.StorageError(fmt.Sprintf("opening %s database", driver), err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, domain.StorageError(fmt.Sprintf("pinging %s database", driver), err)
	}
	return db, nil
}

// ChunkRepository stores ordered text chunks keyed by document ID.
type ChunkRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewChunkRepository(db *sql.DB, log zerolog.Logger) *ChunkRepository {
	return &ChunkRepository{
		db:  db,
		log: log.With().Str("component", "storage").Logger(),
	}
}

// Migrate creates the chunk table if it does not exist. The DDL sticks to the
// subset sqlite3 and postgres share.
func (r *ChunkRepository) Migrate(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS document_chunks (
			document_id TEXT NOT NULL,
			ordinal     INTEGER NOT NULL,
			chunk_text  TEXT NOT NULL,
			PRIMARY KEY (document_id, ordinal)
		)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return domain.StorageError("creating document_chunks table", err)
	}
	return nil
}

// Replace atomically swaps the stored chunks for a document. Replacing with
// an empty slice deletes the document's chunks.
func (r *ChunkRepository) Replace(ctx context.Context, documentID uuid.UUID, chunks []domain.TextChunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError("beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_chunks WHERE document_id = $1", documentID.String()); err != nil {
		return domain.StorageError("clearing existing chunks", err)
	}

	for _, c := range chunks {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_chunks (document_id, ordinal, chunk_text) VALUES ($1, $2, $3)",
			documentID.String(), c.Ordinal, c.Text,
		); err != nil {
			return domain.StorageError(fmt.Sprintf("inserting chunk %d", c.Ordinal), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.StorageError("committing chunk replacement", err)
	}

	r.log.Debug().Str("document_id", documentID.String()).Int("chunks", len(chunks)).
		Msg("replaced document chunks")
	return nil
}

// ListByDocument returns a document's chunks in ascending ordinal order.
func (r *ChunkRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.TextChunk, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT ordinal, chunk_text FROM document_chunks WHERE document_id = $1 ORDER BY ordinal ASC",
		documentID.String(),
	)
	if err != nil {
		return nil, domain.StorageError("querying document chunks", err)
	}
	defer rows.Close()

	var chunks []domain.TextChunk
	for rows.Next() {
		var c domain.TextChunk
		if err := rows.Scan(&c.Ordinal, &c.Text); err != nil {
			return nil, domain.StorageError("scanning chunk row", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("iterating chunk rows", err)
	}
	return chunks, nil
}
