package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leaselens/internal/ingest"
)

func multipartBody(t *testing.T, filenames map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range filenames {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestIngestHandler(t *testing.T) {
	uploadsDir := t.TempDir()
	pipeline := &fakeIngestor{
		result: ingest.Result{FilesProcessed: 1, ChunksIndexed: 8, Success: true},
	}
	handler := NewIngestHandler(pipeline, uploadsDir)

	body, contentType := multipartBody(t, map[string]string{"lease.pdf": "%PDF-1.4 fake"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp IngestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Filenames) != 1 || resp.Filenames[0] != "lease.pdf" {
		t.Errorf("Filenames = %v", resp.Filenames)
	}
	if !strings.Contains(resp.Message, "successfully") {
		t.Errorf("Message = %q", resp.Message)
	}

	// The upload landed on disk before the pipeline ran
	saved, err := os.ReadFile(filepath.Join(uploadsDir, "lease.pdf"))
	if err != nil {
		t.Fatalf("uploaded file not saved: %v", err)
	}
	if string(saved) != "%PDF-1.4 fake" {
		t.Errorf("saved content = %q", saved)
	}

	if len(pipeline.gotPaths) != 1 || filepath.Base(pipeline.gotPaths[0]) != "lease.pdf" {
		t.Errorf("pipeline got paths %v", pipeline.gotPaths)
	}
}

func TestIngestHandler_ProcessingFailure(t *testing.T) {
	pipeline := &fakeIngestor{result: ingest.Result{Success: false}}
	handler := NewIngestHandler(pipeline, t.TempDir())

	body, contentType := multipartBody(t, map[string]string{"lease.pdf": "broken"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp IngestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Message, "failed") {
		t.Errorf("Message = %q, want failure message", resp.Message)
	}
}

func TestIngestHandler_NoFiles(t *testing.T) {
	handler := NewIngestHandler(&fakeIngestor{}, t.TempDir())

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestIngestHandler_RejectsNonPDF(t *testing.T) {
	pipeline := &fakeIngestor{}
	handler := NewIngestHandler(pipeline, t.TempDir())

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "plain text"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if pipeline.gotPaths != nil {
		t.Errorf("pipeline ran for rejected upload: %v", pipeline.gotPaths)
	}
}

func TestIngestHandler_NotMultipart(t *testing.T) {
	handler := NewIngestHandler(&fakeIngestor{}, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
