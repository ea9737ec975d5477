package vectorstore

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

// TestNewQdrantStore_URLParsing tests URL parsing logic without creating a real client.
// This avoids connection warnings in unit tests.
func TestNewQdrantStore_URLParsing(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant.internal:9000",
			wantHost: "qdrant.internal",
			wantPort: 9001,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334, // Default
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost", // Defaults to localhost
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsedURL, err := url.Parse(tt.urlStr)
			if err != nil {
				t.Fatalf("Failed to parse URL: %v", err)
			}

			// Mirror the parsing logic NewQdrantStore uses
			host := parsedURL.Hostname()
			if host == "" {
				host = "localhost"
			}

			port := 6334
			if parsedURL.Port() != "" {
				httpPort, err := strconv.Atoi(parsedURL.Port())
				if err == nil {
					port = httpPort + 1
				}
			}

			if host != tt.wantHost {
				t.Errorf("Host = %v, want %v", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("Port = %v, want %v", port, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	_, err := NewQdrantStore("://invalid")
	if err == nil {
		t.Error("NewQdrantStore() with invalid URL should return error")
	}
}

func TestQdrantStore_Upsert_EmptyPoints(t *testing.T) {
	// Empty input returns before the client is touched.
	store := &QdrantStore{}

	err := store.Upsert(context.Background(), "test-collection", []Point{})
	if err != nil {
		t.Errorf("Upsert() with empty points should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Search_InvalidK(t *testing.T) {
	// Validation fails before the client is touched.
	store := &QdrantStore{}

	ctx := context.Background()
	if _, err := store.Search(ctx, "test-collection", []float32{1.0, 2.0}, 0, nil); err == nil {
		t.Error("Search() with k=0 should return error")
	}
	if _, err := store.Search(ctx, "test-collection", []float32{1.0, 2.0}, -1, nil); err == nil {
		t.Error("Search() with k=-1 should return error")
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	result := convertPayloadToMap(nil)
	if result == nil {
		t.Error("convertPayloadToMap() should return empty map, not nil")
	}
	if len(result) != 0 {
		t.Errorf("convertPayloadToMap() with nil should return empty map, got %d items", len(result))
	}

	payload := map[string]*qdrant.Value{
		"text":        {Kind: &qdrant.Value_StringValue{StringValue: "rent is due"}},
		"page":        {Kind: &qdrant.Value_IntegerValue{IntegerValue: 3}},
		"score":       {Kind: &qdrant.Value_DoubleValue{DoubleValue: 0.92}},
		"indexed":     {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
		"nil_skipped": nil,
	}

	got := convertPayloadToMap(payload)
	if got["text"] != "rent is due" {
		t.Errorf("text = %v", got["text"])
	}
	if got["page"] != int64(3) {
		t.Errorf("page = %v (%T), want int64(3)", got["page"], got["page"])
	}
	if got["score"] != 0.92 {
		t.Errorf("score = %v", got["score"])
	}
	if got["indexed"] != true {
		t.Errorf("indexed = %v", got["indexed"])
	}
	if _, ok := got["nil_skipped"]; ok {
		t.Error("nil values should be skipped")
	}
}
