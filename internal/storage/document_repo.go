package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks leaselens/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DocumentStore defines the interface for document registry operations.
type DocumentStore interface {
	// Add records an ingested file. Adding a filename that is already present
	// is a no-op, keeping filenames unique within the registry.
	Add(ctx context.Context, filename string, chunkCount int) error
	// Exists reports whether a filename is already registered.
	Exists(ctx context.Context, filename string) (bool, error)
	// Get returns the entry for a filename. Returns ErrNotFound if not found.
	Get(ctx context.Context, filename string) (Document, error)
	// Remove deletes the entry for a filename. Absent entries are a silent no-op.
	Remove(ctx context.Context, filename string) error
	// ListAll returns all registry entries ordered by upload time, then filename.
	ListAll(ctx context.Context) ([]Document, error)
}

// DocumentRepo provides methods for document registry operations backed by
// SQLite. It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Add records an ingested file with its chunk count. A second ingestion of the
// same filename leaves the existing entry untouched.
func (r *DocumentRepo) Add(ctx context.Context, filename string, chunkCount int) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (filename, chunk_count) VALUES (?, ?) ON CONFLICT(filename) DO NOTHING",
		filename, chunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

// Exists reports whether a filename is already registered.
func (r *DocumentRepo) Exists(ctx context.Context, filename string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM documents WHERE filename = ?",
		filename,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query document: %w", err)
	}
	return n > 0, nil
}

// Get returns the entry for a filename. Returns ErrNotFound if not found.
func (r *DocumentRepo) Get(ctx context.Context, filename string) (Document, error) {
	var doc Document
	err := r.db.QueryRowContext(ctx,
		"SELECT filename, upload_time, chunk_count FROM documents WHERE filename = ?",
		filename,
	).Scan(&doc.Filename, &doc.UploadTime, &doc.ChunkCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// Remove deletes the entry for a filename, if any.
func (r *DocumentRepo) Remove(ctx context.Context, filename string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE filename = ?", filename)
	if err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	return nil
}

// ListAll returns all registry entries ordered by upload time, then filename.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT filename, upload_time, chunk_count FROM documents ORDER BY upload_time, filename",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.Filename, &doc.UploadTime, &doc.ChunkCount); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}
