package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"leaselens/internal/contextutil"
	"leaselens/internal/storage"
)

// ListDocumentsHandler returns the registry of indexed documents.
type ListDocumentsHandler struct {
	registry storage.DocumentStore
}

// NewListDocumentsHandler creates a new ListDocumentsHandler.
func NewListDocumentsHandler(registry storage.DocumentStore) *ListDocumentsHandler {
	return &ListDocumentsHandler{registry: registry}
}

// ListDocumentsResponse represents the response from the documents endpoint.
type ListDocumentsResponse struct {
	Documents []storage.Document `json:"documents"`
}

// ServeHTTP lists all indexed documents with their metadata.
func (h *ListDocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	documents, err := h.registry.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if documents == nil {
		documents = []storage.Document{}
	}

	writeJSON(ctx, w, http.StatusOK, ListDocumentsResponse{Documents: documents})
}

// DeleteDocumentHandler removes a document from the index, the registry, and
// the uploads directory.
type DeleteDocumentHandler struct {
	registry   storage.DocumentStore
	pipeline   DocumentIngestor
	uploadsDir string
}

// NewDeleteDocumentHandler creates a new DeleteDocumentHandler.
func NewDeleteDocumentHandler(registry storage.DocumentStore, pipeline DocumentIngestor, uploadsDir string) *DeleteDocumentHandler {
	return &DeleteDocumentHandler{
		registry:   registry,
		pipeline:   pipeline,
		uploadsDir: uploadsDir,
	}
}

// DeleteDocumentResponse represents the response from the delete endpoint.
type DeleteDocumentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ServeHTTP deletes the named document. Unknown documents return 404.
func (h *DeleteDocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	filename := filepath.Base(chi.URLParam(r, "filename"))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		writeError(ctx, w, http.StatusBadRequest, "Filename is required")
		return
	}

	if _, err := h.registry.Get(ctx, filename); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(ctx, "delete requested for unknown document", "filename", filename)
			writeJSON(ctx, w, http.StatusNotFound, DeleteDocumentResponse{
				Success: false,
				Error:   fmt.Sprintf("Document '%s' not found", filename),
			})
			return
		}
		logger.ErrorContext(ctx, "failed to check document", "filename", filename, "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, DeleteDocumentResponse{
			Success: false,
			Error:   "Failed to delete document",
		})
		return
	}

	if err := h.pipeline.Delete(ctx, filename); err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "filename", filename, "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, DeleteDocumentResponse{
			Success: false,
			Error:   "Failed to delete document",
		})
		return
	}

	// The uploaded file may already be gone; that is not a failure.
	if err := os.Remove(filepath.Join(h.uploadsDir, filename)); err != nil && !os.IsNotExist(err) {
		logger.WarnContext(ctx, "failed to remove uploaded file", "filename", filename, "error", err)
	}

	logger.InfoContext(ctx, "document deleted", "filename", filename)
	writeJSON(ctx, w, http.StatusOK, DeleteDocumentResponse{
		Success: true,
		Message: fmt.Sprintf("Document '%s' deleted successfully", filename),
	})
}
