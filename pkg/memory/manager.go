// Package memory ties fact extraction, embeddings and the vector index
// together into the long-term memory of a conversational agent.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/recall/pkg/errors"
)

// DefaultRecallLimit caps a Recall when the caller does not ask for a
// specific number of hits.
const DefaultRecallLimit = 10

// Manager wires an Extractor, an Embedder and a VectorStore into the three
// verbs an agent needs: Remember, Recall and Forget.
type Manager struct {
	embedder  Embedder
	store     VectorStore
	extractor Extractor
}

// NewManager builds a Manager from its three collaborators, all of which
// are required.
func NewManager(embedder Embedder, store VectorStore, extractor Extractor) (*Manager, error) {
	if embedder == nil {
		return nil, errors.NewError(errors.ErrMissingEmbedder{})
	}

	if store == nil {
		return nil, errors.NewError(errors.ErrMissingStore{})
	}

	if extractor == nil {
		return nil, errors.NewError(errors.ErrMissingExtractor{})
	}

	return &Manager{
		embedder:  embedder,
		store:     store,
		extractor: extractor,
	}, nil
}

// Remember extracts durable facts from a user message and indexes each one
// as its own point under a fresh UUID. Messages that carry no facts store
// nothing and return nil. On a mid-batch failure the records already
// indexed are returned alongside the error.
func (manager *Manager) Remember(ctx context.Context, userID, message string) ([]Record, error) {
	facts, err := manager.extractor.Extract(ctx, message)

	if err != nil {
		return nil, err
	}

	if len(facts) == 0 {
		return nil, nil
	}

	texts := make([]string, len(facts))

	for i, fact := range facts {
		texts[i] = fact.Text
	}

	vectors, err := manager.embedder.EmbedBatch(ctx, texts)

	if err != nil {
		return nil, err
	}

	if len(vectors) != len(facts) {
		return nil, fmt.Errorf(
			"memory: embedder returned %d vectors for %d facts",
			len(vectors), len(facts),
		)
	}

	now := time.Now().UTC()
	records := make([]Record, 0, len(facts))

	for i, fact := range facts {
		record := Record{
			ID:         uuid.NewString(),
			UserID:     userID,
			Text:       fact.Text,
			Type:       fact.Category,
			Slot:       fact.Slot,
			Status:     StatusActive,
			Confidence: fact.Confidence,
			CreatedAt:  now,
		}

		if err := manager.store.Upsert(ctx, record.ID, vectors[i], record.payload()); err != nil {
			return records, err
		}

		records = append(records, record)
	}

	return records, nil
}

// Recall embeds the query and returns the user's nearest memories, best
// first. Results never include other users' memories regardless of how
// similar their vectors are.
func (manager *Manager) Recall(ctx context.Context, userID, query string, options RecallOptions) ([]Record, error) {
	vector, err := manager.embedder.Embed(ctx, query)

	if err != nil {
		return nil, err
	}

	limit := options.Limit

	if limit <= 0 {
		limit = DefaultRecallLimit
	}

	points, err := manager.store.Search(ctx, vector, userID, limit, options.filters())

	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(points))

	for _, point := range points {
		records = append(records, recordFromPoint(point))
	}

	return records, nil
}

// Forget removes a single memory by ID. Forgetting an ID that was never
// stored succeeds.
func (manager *Manager) Forget(ctx context.Context, id string) error {
	return manager.store.Delete(ctx, id)
}

// Ping reports whether the underlying index is reachable.
func (manager *Manager) Ping(ctx context.Context) error {
	return manager.store.Ping(ctx)
}
