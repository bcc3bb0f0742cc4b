package memory

import (
	"context"

	"github.com/theapemachine/recall/pkg/errors"
	"github.com/theapemachine/recall/pkg/stores/qdrant"
)

// RetryingStore decorates a VectorStore with bounded exponential backoff.
// The stores themselves never retry; callers that want retries opt in by
// wrapping.
type RetryingStore struct {
	store  VectorStore
	config *errors.RetryConfig
}

// NewRetryingStore wraps store. A nil config gets the default policy.
func NewRetryingStore(store VectorStore, config *errors.RetryConfig) *RetryingStore {
	if config == nil {
		config = errors.DefaultRetryConfig()
	}

	return &RetryingStore{store: store, config: config}
}

func (retrying *RetryingStore) Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error {
	return errors.RetryWithBackoff(ctx, retrying.config, func() error {
		return retrying.store.Upsert(ctx, id, vector, payload)
	})
}

func (retrying *RetryingStore) Search(ctx context.Context, vector []float32, userID string, limit int, filters map[string]string) ([]qdrant.ScoredPoint, error) {
	var points []qdrant.ScoredPoint

	err := errors.RetryWithBackoff(ctx, retrying.config, func() error {
		var searchErr error
		points, searchErr = retrying.store.Search(ctx, vector, userID, limit, filters)
		return searchErr
	})

	return points, err
}

func (retrying *RetryingStore) Delete(ctx context.Context, id string) error {
	return errors.RetryWithBackoff(ctx, retrying.config, func() error {
		return retrying.store.Delete(ctx, id)
	})
}

func (retrying *RetryingStore) Ping(ctx context.Context) error {
	return errors.RetryWithBackoff(ctx, retrying.config, func() error {
		return retrying.store.Ping(ctx)
	})
}
