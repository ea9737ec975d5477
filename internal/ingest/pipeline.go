package ingest

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"leaselens/internal/storage"
	"leaselens/internal/vectorstore"
)

// Embedder generates embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline orchestrates ingestion of PDF files into the similarity index and
// the document registry. Index mutation happens first; the registry entry is
// committed only after the index upsert succeeds. A crash between the two
// leaves orphan vectors, which re-ingestion or deletion cleans up.
type Pipeline struct {
	registry   storage.DocumentStore
	embedder   Embedder
	vectors    vectorstore.VectorStore
	collection string
	vectorSize int
	chunker    *Chunker
	logger     *slog.Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	registry storage.DocumentStore,
	embedder Embedder,
	vectors vectorstore.VectorStore,
	collection string,
	vectorSize int,
	chunker *Chunker,
) *Pipeline {
	return &Pipeline{
		registry:   registry,
		embedder:   embedder,
		vectors:    vectors,
		collection: collection,
		vectorSize: vectorSize,
		chunker:    chunker,
		logger:     slog.Default(),
	}
}

// Result summarizes an ingestion run. Success is true only when every file was
// fully processed; partial runs report false while still indexing what they can.
type Result struct {
	FilesProcessed int
	FilesSkipped   int
	ChunksIndexed  int
	Success        bool
}

// Ingest processes the given PDF files: extract pages, chunk, embed, upsert
// into the similarity index, then record the file in the registry. Files whose
// names are already registered are skipped entirely, keeping the index and
// registry consistent on duplicate ingestion. Failures never propagate past
// this boundary; they are logged and reflected in the Result.
func (p *Pipeline) Ingest(ctx context.Context, filePaths []string) Result {
	logger := p.logger
	result := Result{}
	failures := 0
	collectionReady := false

	for _, path := range filePaths {
		filename := filepath.Base(path)

		exists, err := p.registry.Exists(ctx, filename)
		if err != nil {
			logger.ErrorContext(ctx, "failed to check registry", "filename", filename, "error", err)
			failures++
			continue
		}
		if exists {
			logger.InfoContext(ctx, "document already ingested, skipping", "filename", filename)
			result.FilesSkipped++
			continue
		}

		pages, err := ExtractPages(ctx, path)
		if err != nil {
			logger.ErrorContext(ctx, "failed to extract pages", "filename", filename, "error", err)
			failures++
			continue
		}

		chunks := p.chunker.ChunkPages(pages)
		if len(chunks) == 0 {
			logger.WarnContext(ctx, "no chunks generated", "filename", filename)
			failures++
			continue
		}

		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Text
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			logger.ErrorContext(ctx, "failed to embed chunks", "filename", filename, "error", err)
			failures++
			continue
		}

		// The collection is created lazily on first insertion
		if !collectionReady {
			if err := p.vectors.EnsureCollection(ctx, p.collection, p.vectorSize); err != nil {
				logger.ErrorContext(ctx, "failed to ensure collection", "collection", p.collection, "error", err)
				failures++
				continue
			}
			collectionReady = true
		}

		points := make([]vectorstore.Point, len(chunks))
		for i, chunk := range chunks {
			meta := map[string]any{
				"text":        chunk.Text,
				"source":      chunk.Source,
				"chunk_index": chunk.Index,
			}
			if chunk.Page != nil {
				meta["page"] = *chunk.Page
			}
			points[i] = vectorstore.Point{
				ID:   uuid.NewString(),
				Vec:  vectors[i],
				Meta: meta,
			}
		}

		if err := p.vectors.Upsert(ctx, p.collection, points); err != nil {
			logger.ErrorContext(ctx, "failed to upsert chunks", "filename", filename, "error", err)
			failures++
			continue
		}

		// Registry commit comes after the index mutation succeeded
		if err := p.registry.Add(ctx, filename, len(chunks)); err != nil {
			logger.ErrorContext(ctx, "indexed chunks but failed to record document; registry and index are inconsistent until re-ingestion",
				"filename", filename, "chunks", len(chunks), "error", err)
			failures++
			continue
		}

		result.FilesProcessed++
		result.ChunksIndexed += len(chunks)
		logger.InfoContext(ctx, "document ingested", "filename", filename, "pages", len(pages), "chunks", len(chunks))
	}

	result.Success = failures == 0 && result.FilesProcessed+result.FilesSkipped == len(filePaths) && len(filePaths) > 0
	return result
}

// Delete removes a document's chunks from the similarity index and its entry
// from the registry. An index removal failure is logged but does not block the
// registry removal, matching the registry's role as source of truth.
func (p *Pipeline) Delete(ctx context.Context, filename string) error {
	logger := p.logger

	exists, err := p.vectors.CollectionExists(ctx, p.collection)
	if err != nil {
		logger.WarnContext(ctx, "could not check collection before delete", "error", err)
	} else if exists {
		if err := p.vectors.DeleteBySource(ctx, p.collection, filename); err != nil {
			logger.WarnContext(ctx, "could not remove chunks from index", "filename", filename, "error", err)
		}
	}

	if err := p.registry.Remove(ctx, filename); err != nil {
		return err
	}

	logger.InfoContext(ctx, "document deleted", "filename", filename)
	return nil
}
