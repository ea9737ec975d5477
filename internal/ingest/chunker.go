package ingest

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize targets ~1000 characters per chunk for context-preserving
	// retrieval of lease clauses.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap keeps ~200 characters of continuity between
	// consecutive chunks.
	DefaultChunkOverlap = 200
)

// boundarySeparators are tried in order when picking a split point:
// paragraph, line, sentence, then word boundary. A hard cut is the fallback.
var boundarySeparators = []string{"\n\n", "\n", ". ", " "}

// Chunk is a bounded text segment derived from a document page. It carries
// source/page metadata and is the retrieval unit. Chunks are immutable after
// creation and owned by the similarity index once inserted.
type Chunk struct {
	Text   string
	Source string
	Page   *int // nil when the origin page is unknown
	Index  int  // sequence within the source document
}

// Chunker splits page text into overlapping segments.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given target size and overlap, both in
// runes. Non-positive values fall back to the defaults.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap <= 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{size: size, overlap: overlap}
}

// ChunkPages splits a sequence of pages into ordered chunks. Each chunk
// inherits source and page from its origin page. Chunk indexes run across the
// whole document.
func (c *Chunker) ChunkPages(pages []Page) []Chunk {
	var chunks []Chunk
	index := 0

	for _, page := range pages {
		pageNumber := page.Number
		for _, text := range c.Split(page.Text) {
			chunks = append(chunks, Chunk{
				Text:   text,
				Source: page.Source,
				Page:   &pageNumber,
				Index:  index,
			})
			index++
		}
	}

	return chunks
}

// Split splits text into segments of at most the target size, overlapping by
// the configured amount. Split points prefer paragraph, then line, then
// sentence, then space boundaries, falling back to a hard cut.
func (c *Chunker) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) <= c.size {
		return []string{trimmed}
	}

	var segments []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			segments = append(segments, string(runes[start:]))
			break
		}

		cut := c.findBoundary(runes, start, end)
		segments = append(segments, string(runes[start:cut]))

		next := cut - c.overlap
		if next <= start {
			// Guarantee forward progress on boundary-free text
			next = start + 1
		}
		start = next
	}

	return segments
}

// findBoundary picks the split point for the window runes[start:end]. Only
// boundaries in the second half of the window are accepted, so chunks stay
// larger than the overlap.
func (c *Chunker) findBoundary(runes []rune, start, end int) int {
	window := string(runes[start:end])
	for _, sep := range boundarySeparators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		cut := utf8.RuneCountInString(window[:idx+len(sep)])
		if cut <= (end-start)/2 {
			continue
		}
		return start + cut
	}
	return end
}
