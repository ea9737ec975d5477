package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks leaselens/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for similarity index operations.
// An absent collection (no documents ingested yet) is a valid state, not an
// error; callers probe it with CollectionExists before searching.
type VectorStore interface {
	// CollectionExists reports whether the collection has been created.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// EnsureCollection creates the collection with the given vector size if it
	// does not exist yet, and validates the size if it does.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search. If sources is non-empty, results are
	// restricted to points whose "source" metadata is in the allow-set.
	Search(ctx context.Context, collection string, query []float32, k int, sources []string) ([]SearchResult, error)

	// DeleteBySource removes all points whose "source" metadata matches.
	DeleteBySource(ctx context.Context, collection string, source string) error
}
