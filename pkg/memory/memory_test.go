package memory

import (
	"context"
	"reflect"
	"testing"
)

func TestMockEmbedder(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	t.Run("Embed", func(t *testing.T) {
		text := "Hello world"
		vector, err := embedder.Embed(ctx, text)

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if len(vector) != 4 {
			t.Fatalf("Expected vector dimension of 4, got: %d", len(vector))
		}

		// Same text should generate the same vector (deterministic)
		vector2, _ := embedder.Embed(ctx, text)
		if !reflect.DeepEqual(vector, vector2) {
			t.Fatalf("Expected consistent vectors for same text")
		}

		// Different text should generate a different vector
		different, _ := embedder.Embed(ctx, "Something else entirely")
		if reflect.DeepEqual(vector, different) {
			t.Fatalf("Expected different vectors for different text")
		}
	})

	t.Run("EmbedBatch", func(t *testing.T) {
		texts := []string{"Hello", "World"}
		vectors, err := embedder.EmbedBatch(ctx, texts)

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if len(vectors) != len(texts) {
			t.Fatalf("Expected %d vectors, got: %d", len(texts), len(vectors))
		}

		for i, vector := range vectors {
			single, _ := embedder.Embed(ctx, texts[i])
			if !reflect.DeepEqual(vector, single) {
				t.Fatalf("Batch vector doesn't match single vector for text: %s", texts[i])
			}
		}
	})

	t.Run("Fixed", func(t *testing.T) {
		embedder.Fixed = map[string][]float32{"pinned": {1, 0, 0, 0}}

		vector, err := embedder.Embed(ctx, "pinned")

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if !reflect.DeepEqual(vector, []float32{1, 0, 0, 0}) {
			t.Fatalf("Expected the pinned vector, got: %v", vector)
		}
	})
}

func TestCosine(t *testing.T) {
	t.Run("SelfSimilarity", func(t *testing.T) {
		vector := []float32{0.3, 0.5, 0.1, 0.7}

		score := cosine(vector, vector)
		if score < 0.9999 {
			t.Fatalf("Expected self-similarity of 1.0, got: %f", score)
		}
	})

	t.Run("Orthogonal", func(t *testing.T) {
		score := cosine([]float32{1, 0}, []float32{0, 1})
		if score != 0 {
			t.Fatalf("Expected orthogonal vectors to score 0, got: %f", score)
		}
	})

	t.Run("Degenerate", func(t *testing.T) {
		if score := cosine([]float32{1, 0}, []float32{1}); score != 0 {
			t.Fatalf("Expected mismatched lengths to score 0, got: %f", score)
		}

		if score := cosine([]float32{0, 0}, []float32{1, 1}); score != 0 {
			t.Fatalf("Expected a zero vector to score 0, got: %f", score)
		}
	})
}

func TestInMemoryVectorStore(t *testing.T) {
	ctx := context.Background()

	t.Run("UpsertAndSearch", func(t *testing.T) {
		store := NewInMemoryVectorStore()

		err := store.Upsert(ctx, "p1", []float32{1, 0, 0, 0}, map[string]any{
			"user_id": "u1",
			"text":    "User lives in Berlin",
		})
		if err != nil {
			t.Fatalf("Failed to upsert: %v", err)
		}

		hits, err := store.Search(ctx, []float32{1, 0, 0, 0}, "u1", 10, nil)
		if err != nil {
			t.Fatalf("Failed to search: %v", err)
		}

		if len(hits) != 1 {
			t.Fatalf("Expected 1 hit, got: %d", len(hits))
		}

		if hits[0].ID != "p1" {
			t.Fatalf("Expected hit p1, got: %s", hits[0].ID)
		}

		if hits[0].Score < 0.9999 {
			t.Fatalf("Expected self-similarity near 1.0, got: %f", hits[0].Score)
		}
	})

	t.Run("UserPartitioning", func(t *testing.T) {
		store := NewInMemoryVectorStore()
		vector := []float32{0.5, 0.5, 0.5, 0.5}

		store.Upsert(ctx, "mine", vector, map[string]any{"user_id": "u1", "text": "mine"})
		store.Upsert(ctx, "theirs", vector, map[string]any{"user_id": "u2", "text": "theirs"})

		hits, err := store.Search(ctx, vector, "u1", 10, nil)
		if err != nil {
			t.Fatalf("Failed to search: %v", err)
		}

		if len(hits) != 1 {
			t.Fatalf("Expected only u1's memory, got %d hits", len(hits))
		}

		if hits[0].ID != "mine" {
			t.Fatalf("Expected u1's memory despite identical vectors, got: %s", hits[0].ID)
		}
	})

	t.Run("FiltersAreConjunctive", func(t *testing.T) {
		store := NewInMemoryVectorStore()
		vector := []float32{1, 0, 0, 0}

		store.Upsert(ctx, "city", vector, map[string]any{
			"user_id": "u1", "status": "active", "type": "profile", "slot": "home_city",
		})
		store.Upsert(ctx, "slotless", vector, map[string]any{
			"user_id": "u1", "status": "active", "type": "preference",
		})
		store.Upsert(ctx, "archived", vector, map[string]any{
			"user_id": "u1", "status": "archived", "type": "profile", "slot": "home_city",
		})

		hits, err := store.Search(ctx, vector, "u1", 10, map[string]string{
			"status": "active",
			"slot":   "home_city",
		})
		if err != nil {
			t.Fatalf("Failed to search: %v", err)
		}

		if len(hits) != 1 {
			t.Fatalf("Expected exactly 1 hit, got: %d", len(hits))
		}

		if hits[0].ID != "city" {
			t.Fatalf("Expected the active home_city point, got: %s", hits[0].ID)
		}
	})

	t.Run("OverwriteReplacesPayload", func(t *testing.T) {
		store := NewInMemoryVectorStore()
		vector := []float32{1, 0, 0, 0}

		store.Upsert(ctx, "p1", vector, map[string]any{
			"user_id": "u1", "text": "old", "slot": "home_city",
		})
		store.Upsert(ctx, "p1", vector, map[string]any{
			"user_id": "u1", "text": "new",
		})

		if store.Len() != 1 {
			t.Fatalf("Expected overwrite to keep a single point, got: %d", store.Len())
		}

		hits, _ := store.Search(ctx, vector, "u1", 10, nil)

		if hits[0].Payload["text"] != "new" {
			t.Fatalf("Expected replaced payload, got: %v", hits[0].Payload["text"])
		}

		if _, stale := hits[0].Payload["slot"]; stale {
			t.Fatalf("Expected old slot field to be gone after overwrite")
		}
	})

	t.Run("ResultsAreOrderedAndLimited", func(t *testing.T) {
		store := NewInMemoryVectorStore()

		store.Upsert(ctx, "near", []float32{1, 0, 0, 0}, map[string]any{"user_id": "u1"})
		store.Upsert(ctx, "mid", []float32{0.7, 0.7, 0, 0}, map[string]any{"user_id": "u1"})
		store.Upsert(ctx, "far", []float32{0, 1, 0, 0}, map[string]any{"user_id": "u1"})

		hits, err := store.Search(ctx, []float32{1, 0, 0, 0}, "u1", 2, nil)
		if err != nil {
			t.Fatalf("Failed to search: %v", err)
		}

		if len(hits) != 2 {
			t.Fatalf("Expected the limit to cap results at 2, got: %d", len(hits))
		}

		if hits[0].ID != "near" || hits[1].ID != "mid" {
			t.Fatalf("Expected descending score order, got: %s, %s", hits[0].ID, hits[1].ID)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		store := NewInMemoryVectorStore()
		vector := []float32{1, 0, 0, 0}

		store.Upsert(ctx, "p1", vector, map[string]any{"user_id": "u1"})

		if err := store.Delete(ctx, "p1"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}

		hits, _ := store.Search(ctx, vector, "u1", 10, nil)
		if len(hits) != 0 {
			t.Fatalf("Expected no hits after delete, got: %d", len(hits))
		}

		if err := store.Delete(ctx, "p1"); err != nil {
			t.Fatalf("Expected deleting a missing point to succeed, got: %v", err)
		}

		if err := store.Delete(ctx, "never-existed"); err != nil {
			t.Fatalf("Expected deleting an unknown point to succeed, got: %v", err)
		}
	})
}
