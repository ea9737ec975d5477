package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"leaselens/internal/contextutil"
	"leaselens/internal/vectorstore"
)

// Embedder generates embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// leaseSynonyms maps domain anchor terms found in questions to the synonym
// lists appended to the similarity-search query. Expansion biases retrieval
// toward lease vocabulary without changing the question shown to the generator.
var leaseSynonyms = map[string][]string{
	"lease":    {"rental agreement", "rental contract", "tenancy agreement", "lease agreement"},
	"rent":     {"monthly rent", "rental payment", "monthly payment", "rent amount"},
	"term":     {"lease term", "duration", "start date", "end date", "lease period"},
	"tenant":   {"renter", "lessee", "occupant"},
	"landlord": {"lessor", "property owner", "owner"},
	"property": {"premises", "unit", "apartment", "house", "residence"},
	"payment":  {"rent payment", "monthly payment", "installment payment"},
	"dates":    {"start date", "end date", "lease start", "lease end", "move in", "move out"},
}

// anchorOrder fixes the iteration order over leaseSynonyms so query expansion
// is deterministic.
var anchorOrder = []string{"lease", "rent", "term", "tenant", "landlord", "property", "payment", "dates"}

// leaseKeyTerms flag chunks that carry important lease information during
// re-ranking.
var leaseKeyTerms = []string{
	"rent", "monthly payment", "installment payment", "total rent",
	"start date", "end date", "lease term", "duration",
	"tenant", "landlord", "property address", "premises",
	"security deposit", "utilities", "parking",
}

// Retriever augments a question with synonym expansion, performs similarity
// search, and re-ranks the results with a heuristic relevance score.
type Retriever struct {
	embedder   Embedder
	vectors    vectorstore.VectorStore
	collection string
}

// NewRetriever creates a new Retriever.
func NewRetriever(embedder Embedder, vectors vectorstore.VectorStore, collection string) *Retriever {
	return &Retriever{
		embedder:   embedder,
		vectors:    vectors,
		collection: collection,
	}
}

// Retrieve returns up to k chunks relevant to the question, ranked by the
// heuristic score. If selectedDocuments is non-empty, retrieval is restricted
// to those filenames. An empty result means no relevant documents; callers
// special-case it.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int, selectedDocuments []string) ([]Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	enhanced := ExpandQuery(question)
	logger.DebugContext(ctx, "expanded query", "question", question, "enhanced_length", len(enhanced))

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{enhanced})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	sources := make([]string, 0, len(selectedDocuments))
	for _, doc := range selectedDocuments {
		sources = append(sources, filepath.Base(doc))
	}

	results, err := r.vectors.Search(ctx, r.collection, embeddings[0], k, sources)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	chunks := make([]Chunk, 0, len(results))
	for _, result := range results {
		chunks = append(chunks, chunkFromResult(result))
	}

	RankChunks(chunks, question)

	logger.InfoContext(ctx, "retrieval completed", "k", k, "results", len(chunks), "filtered", len(sources) > 0)
	return chunks, nil
}

// ExpandQuery appends registered synonym lists for every domain anchor term
// found in the question, plus the deduplicated question terms. The original
// question stays first so its wording dominates the embedding.
func ExpandQuery(question string) string {
	lower := strings.ToLower(question)

	var expanded []string
	for _, anchor := range anchorOrder {
		if strings.Contains(lower, anchor) {
			expanded = append(expanded, leaseSynonyms[anchor]...)
		}
	}
	expanded = append(expanded, strings.Fields(question)...)

	seen := make(map[string]struct{}, len(expanded))
	deduped := expanded[:0]
	for _, term := range expanded {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		deduped = append(deduped, term)
	}

	if len(deduped) == 0 {
		return question
	}
	return question + " " + strings.Join(deduped, " ")
}

// RankChunks sorts chunks in place, descending by heuristic relevance score.
// The sort is stable: ties keep the similarity-search order.
func RankChunks(chunks []Chunk, question string) {
	type scored struct {
		chunk Chunk
		score int
	}
	ranked := make([]scored, len(chunks))
	for i, chunk := range chunks {
		ranked[i] = scored{chunk: chunk, score: relevanceScore(chunk, question)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for i, entry := range ranked {
		chunks[i] = entry.chunk
	}
}

// relevanceScore weighs question-term hits, lease key-term hits, and an
// early-page bonus. Lease header information (parties, rent, dates) clusters
// in the first few pages.
func relevanceScore(chunk Chunk, question string) int {
	content := strings.ToLower(chunk.Text)
	score := 0

	for _, term := range strings.Fields(strings.ToLower(question)) {
		if strings.Contains(content, term) {
			score += 2
		}
	}

	for _, term := range leaseKeyTerms {
		if strings.Contains(content, term) {
			score += 3
		}
	}

	if chunk.Page != nil && *chunk.Page <= 5 {
		score += 2
	}

	return score
}

// chunkFromResult converts a vector search result into a Chunk, pulling text,
// source and page out of the point metadata.
func chunkFromResult(result vectorstore.SearchResult) Chunk {
	chunk := Chunk{Score: result.Score}

	if text, ok := result.Meta["text"].(string); ok {
		chunk.Text = text
	}
	if source, ok := result.Meta["source"].(string); ok {
		chunk.Source = source
	}
	switch page := result.Meta["page"].(type) {
	case int64:
		p := int(page)
		chunk.Page = &p
	case float64:
		p := int(page)
		chunk.Page = &p
	case int:
		p := page
		chunk.Page = &p
	}

	return chunk
}
