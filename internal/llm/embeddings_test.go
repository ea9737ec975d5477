package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	var gotReq EmbeddingsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %q, want /v1/embeddings", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		resp := EmbeddingsResponse{
			Data: []EmbeddingData{
				{Embedding: []float64{0.1, 0.2, 0.3}},
				{Embedding: []float64{0.4, 0.5, 0.6}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 3)
	got, err := client.EmbedTexts(context.Background(), []string{"first chunk", "second chunk"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("EmbedTexts() returned %d vectors, want 2", len(got))
	}
	if len(got[0]) != 3 {
		t.Errorf("vector size = %d, want 3", len(got[0]))
	}
	if got[0][0] != float32(0.1) {
		t.Errorf("got[0][0] = %v, want 0.1", got[0][0])
	}
	if gotReq.Model != "test-model" {
		t.Errorf("request model = %q, want test-model", gotReq.Model)
	}
	if len(gotReq.Input) != 2 {
		t.Errorf("request input = %v", gotReq.Input)
	}
}

func TestEmbeddingsClient_EmbedTexts_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:0", "key", "model", 3)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Fatal("EmbedTexts() error = nil, want error for empty input")
	}
}

func TestEmbeddingsClient_EmbedTexts_SizeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(EmbeddingsResponse{
			Data: []EmbeddingData{{Embedding: []float64{0.1, 0.2}}},
		})
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 3)
	if _, err := client.EmbedTexts(context.Background(), []string{"chunk"}); err == nil {
		t.Fatal("EmbedTexts() error = nil, want size mismatch error")
	}
}

func TestEmbeddingsClient_EmbedTexts_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(EmbeddingsResponse{
			Data: []EmbeddingData{{Embedding: []float64{0.1, 0.2, 0.3}}},
		})
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 3)
	if _, err := client.EmbedTexts(context.Background(), []string{"one", "two"}); err == nil {
		t.Fatal("EmbedTexts() error = nil, want count mismatch error")
	}
}
