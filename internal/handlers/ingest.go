package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"leaselens/internal/contextutil"
	"leaselens/internal/ingest"
)

//go:generate mockgen -source=ingest.go -destination=mocks/mock_document_ingestor.go -package=mocks

// DocumentIngestor indexes uploaded documents and removes indexed ones.
type DocumentIngestor interface {
	Ingest(ctx context.Context, filePaths []string) ingest.Result
	Delete(ctx context.Context, filename string) error
}

const maxUploadBytes = 32 << 20

// IngestHandler handles document upload and indexing requests.
type IngestHandler struct {
	pipeline   DocumentIngestor
	uploadsDir string
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline DocumentIngestor, uploadsDir string) *IngestHandler {
	return &IngestHandler{
		pipeline:   pipeline,
		uploadsDir: uploadsDir,
	}
}

// IngestResponse represents the response from the ingest endpoint.
type IngestResponse struct {
	Filenames []string `json:"filenames"`
	Message   string   `json:"message"`
}

// ServeHTTP accepts PDF uploads under the "files" form field, saves them to
// the uploads directory, and runs the indexing pipeline over them.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		logger.WarnContext(ctx, "no files in ingest request")
		writeError(ctx, w, http.StatusBadRequest, "No files provided")
		return
	}

	for _, header := range files {
		if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			logger.WarnContext(ctx, "rejected non-pdf upload", "filename", header.Filename)
			writeError(ctx, w, http.StatusBadRequest, fmt.Sprintf("Only PDF files are supported: %s", header.Filename))
			return
		}
	}

	filenames := make([]string, 0, len(files))
	filePaths := make([]string, 0, len(files))
	for _, header := range files {
		path, err := h.saveUpload(header)
		if err != nil {
			logger.ErrorContext(ctx, "failed to save upload", "filename", header.Filename, "error", err)
			writeError(ctx, w, http.StatusInternalServerError, "Failed to save uploaded file")
			return
		}
		filenames = append(filenames, filepath.Base(path))
		filePaths = append(filePaths, path)
	}

	result := h.pipeline.Ingest(ctx, filePaths)

	message := fmt.Sprintf("%d file(s) ingested and processed successfully.", len(filenames))
	if !result.Success {
		message = fmt.Sprintf("%d file(s) saved but processing failed.", len(filenames))
	}

	logger.InfoContext(ctx, "ingest request completed",
		"files", len(filenames),
		"processed", result.FilesProcessed,
		"skipped", result.FilesSkipped,
		"chunks", result.ChunksIndexed,
	)

	writeJSON(ctx, w, http.StatusOK, IngestResponse{
		Filenames: filenames,
		Message:   message,
	})
}

// saveUpload writes one uploaded file into the uploads directory. The stored
// name is the base name of the client-supplied filename.
func (h *IngestHandler) saveUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(h.uploadsDir, filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}
