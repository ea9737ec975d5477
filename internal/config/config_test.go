package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

// setTestEnv points the path-creating settings at a temp dir so Load does not
// touch the working directory.
func setTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(tmpDir, "data", "test.db"))
	t.Setenv("UPLOADS_DIR", filepath.Join(tmpDir, "uploads"))
	t.Setenv("EMBEDDING_VECTOR_SIZE", "384")
}

func TestLoad_Defaults(t *testing.T) {
	setTestEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.EmbeddingVectorSize != 384 {
		t.Errorf("EmbeddingVectorSize = %d, want 384", cfg.EmbeddingVectorSize)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 200 {
		t.Errorf("ChunkOverlap = %d, want 200", cfg.ChunkOverlap)
	}
	if cfg.QdrantCollection != "lease_chunks" {
		t.Errorf("QdrantCollection = %q, want lease_chunks", cfg.QdrantCollection)
	}
	if cfg.APIPort != "8000" {
		t.Errorf("APIPort = %q, want 8000", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_RequiresVectorSize(t *testing.T) {
	setTestEnv(t)
	t.Setenv("EMBEDDING_VECTOR_SIZE", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for missing EMBEDDING_VECTOR_SIZE")
	}
}

func TestLoad_InvalidVectorSize(t *testing.T) {
	setTestEnv(t)

	for _, value := range []string{"abc", "-5", "0"} {
		t.Setenv("EMBEDDING_VECTOR_SIZE", value)
		if _, err := Load(); err == nil {
			t.Errorf("Load() error = nil for EMBEDDING_VECTOR_SIZE=%q", value)
		}
	}
}

func TestLoad_OverlapMustBeSmallerThanSize(t *testing.T) {
	setTestEnv(t)
	t.Setenv("CHUNK_SIZE", "200")
	t.Setenv("CHUNK_OVERLAP", "200")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for CHUNK_OVERLAP >= CHUNK_SIZE")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setTestEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for invalid LOG_LEVEL")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"ERROR", slog.LevelError, false},
		{"trace", 0, true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
