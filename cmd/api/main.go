package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"leaselens/internal/config"
	"leaselens/internal/http"
	"leaselens/internal/ingest"
	"leaselens/internal/llm"
	"leaselens/internal/rag"
	"leaselens/internal/storage"
	"leaselens/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	registry := storage.NewDocumentRepo(db)

	// Initialize Qdrant vector store. The collection itself is created lazily
	// on first ingestion; its absence simply means no documents are indexed yet.
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Validate embedding client vector size (fail-fast)
	ctx := context.Background()
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.EmbeddingVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.EmbeddingVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.EmbeddingVectorSize)

	// Create ingestion pipeline
	chunker := ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	pipeline := ingest.NewPipeline(
		registry,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		cfg.EmbeddingVectorSize,
		chunker,
	)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create question-answering engine
	retriever := rag.NewRetriever(embedder, vectorStore, cfg.QdrantCollection)
	engine := rag.NewEngine(retriever, llmClient, vectorStore, cfg.QdrantCollection)
	slog.Info("Question-answering engine initialized")

	// Create router with dependencies
	deps := &http.Deps{
		Engine:     engine,
		Pipeline:   pipeline,
		Registry:   registry,
		Vectors:    vectorStore,
		DB:         db,
		Collection: cfg.QdrantCollection,
		UploadsDir: cfg.UploadsDir,
		Logger:     logger,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
