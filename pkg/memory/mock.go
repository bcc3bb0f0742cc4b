package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/theapemachine/recall/pkg/stores/qdrant"
)

// MockEmbedder generates small deterministic vectors so the rest of the
// system can run without a real embedding backend. Texts registered in
// Fixed take priority over the derived vector.
type MockEmbedder struct {
	Dim   int
	Fixed map[string][]float32
}

// NewMockEmbedder returns a MockEmbedder with a 4-dimensional output.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dim: 4}
}

// Embed derives a vector from the text's bytes. The same text always maps
// to the same vector.
func (mock *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vector, ok := mock.Fixed[text]; ok {
		return vector, nil
	}

	dim := mock.Dim

	if dim <= 0 {
		dim = 4
	}

	vector := make([]float32, dim)

	for i := range vector {
		if len(text) > 0 {
			vector[i] = float32(text[i%len(text)]) / 256.0
		} else {
			vector[i] = 0.5
		}
	}

	return vector, nil
}

// EmbedBatch embeds each text in order.
func (mock *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	for i, text := range texts {
		vector, err := mock.Embed(ctx, text)

		if err != nil {
			return nil, err
		}

		vectors[i] = vector
	}

	return vectors, nil
}

// MockExtractor returns canned facts keyed by message. Unregistered
// messages yield no facts, mirroring how a real extractor treats
// chit-chat.
type MockExtractor struct {
	Facts map[string][]Fact
}

// Extract looks the message up in the canned table.
func (mock *MockExtractor) Extract(ctx context.Context, message string) ([]Fact, error) {
	return mock.Facts[message], nil
}

type storedPoint struct {
	vector  []float32
	payload map[string]any
}

// InMemoryVectorStore is a process-local VectorStore with real cosine
// scoring. It backs tests and offline development, and behaves like the
// Qdrant store where the manager can observe it: upserts replace whole
// points, searches are user-scoped with AND filters, deletes are
// idempotent.
type InMemoryVectorStore struct {
	mu     sync.RWMutex
	points map[string]storedPoint
}

// NewInMemoryVectorStore returns an empty store.
func NewInMemoryVectorStore() *InMemoryVectorStore {
	return &InMemoryVectorStore{points: make(map[string]storedPoint)}
}

// Upsert stores the point, replacing any previous point with the same ID.
func (store *InMemoryVectorStore) Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if payload == nil {
		payload = map[string]any{}
	}

	store.points[id] = storedPoint{
		vector:  append([]float32(nil), vector...),
		payload: payload,
	}

	return nil
}

// Search scores every point owned by userID that matches all filters and
// returns up to limit hits, best first.
func (store *InMemoryVectorStore) Search(ctx context.Context, vector []float32, userID string, limit int, filters map[string]string) ([]qdrant.ScoredPoint, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	hits := make([]qdrant.ScoredPoint, 0)

	for id, point := range store.points {
		if owner, _ := point.payload["user_id"].(string); owner != userID {
			continue
		}

		if !matchesFilters(point.payload, filters) {
			continue
		}

		hits = append(hits, qdrant.ScoredPoint{
			ID:      id,
			Score:   cosine(vector, point.vector),
			Payload: point.payload,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

// Delete removes the point if it exists.
func (store *InMemoryVectorStore) Delete(ctx context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.points, id)

	return nil
}

// Ping always succeeds.
func (store *InMemoryVectorStore) Ping(ctx context.Context) error {
	return nil
}

// Len reports how many points the store holds.
func (store *InMemoryVectorStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return len(store.points)
}

func matchesFilters(payload map[string]any, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}

		if value, _ := payload[key].(string); value != want {
			return false
		}
	}

	return true
}

// cosine returns the cosine similarity of two vectors, or 0 when the
// lengths differ or either vector has no magnitude.
func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
