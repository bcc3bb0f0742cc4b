package memory

import (
	"context"

	"github.com/theapemachine/recall/pkg/stores/qdrant"
)

// Embedder represents a service capable of turning text into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the slice of the index the manager depends on. The
// production implementation is qdrant.Store; InMemoryVectorStore covers
// tests and offline runs.
type VectorStore interface {
	Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error
	Search(ctx context.Context, vector []float32, userID string, limit int, filters map[string]string) ([]qdrant.ScoredPoint, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Extractor pulls durable facts out of a raw user message. A message with
// nothing worth keeping yields an empty slice, not an error.
type Extractor interface {
	Extract(ctx context.Context, message string) ([]Fact, error)
}
