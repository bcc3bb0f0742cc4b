// Package qdrant implements the durable vector index behind the memory
// manager. It speaks Qdrant's REST API directly and keeps to the four
// operations the rest of the system needs: provision, upsert, search and
// delete.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Store talks to a single collection on a single Qdrant endpoint. All
// methods are safe for concurrent use.
type Store struct {
	endpoint   string // e.g. http://localhost:6333
	collection string // e.g. "agent_memory"
	httpClient *http.Client
}

// Config carries the connection and provisioning parameters for New.
type Config struct {
	Endpoint   string
	Collection string
	VectorSize int
	Distance   string
}

// Option customizes a Store before it provisions anything.
type Option func(*Store)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) Option {
	return func(store *Store) {
		store.httpClient = client
	}
}

// New builds a Store and guarantees the collection exists before returning:
// an existing collection is left untouched, a missing one is created with
// the configured size and distance, and any other index response aborts
// construction.
func New(ctx context.Context, cfg Config, options ...Option) (*Store, error) {
	store := &Store{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		collection: cfg.Collection,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	for _, option := range options {
		option(store)
	}

	if err := store.ensureCollection(
		ctx, cfg.VectorSize, NormalizeDistance(cfg.Distance),
	); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureCollection makes the collection exist. Only a clean 404 triggers
// creation; any other non-OK answer is surfaced so a flaky index never
// gets a blind create fired at it.
func (store *Store) ensureCollection(ctx context.Context, size int, distance string) error {
	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/collections/%s", store.endpoint, store.collection),
		nil,
	)

	resp, err := store.httpClient.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var out struct {
			Result struct {
				Config struct {
					Params struct {
						Vectors struct {
							Size     int    `json:"size"`
							Distance string `json:"distance"`
						} `json:"vectors"`
					} `json:"params"`
				} `json:"config"`
			} `json:"result"`
		}

		// Best effort: collections with named vectors report a different
		// schema here, and a mismatch never blocks startup.
		if err := json.NewDecoder(resp.Body).Decode(&out); err == nil {
			params := out.Result.Config.Params.Vectors

			if params.Size != 0 && (params.Size != size || params.Distance != distance) {
				log.Warn(
					"qdrant collection exists with different parameters",
					"collection", store.collection,
					"size", params.Size,
					"distance", params.Distance,
					"requested_size", size,
					"requested_distance", distance,
				)
			}
		}

		return nil
	}

	if resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("qdrant: describe collection status %s", resp.Status)
	}

	log.Info(
		"creating qdrant collection",
		"collection", store.collection,
		"size", size,
		"distance", distance,
	)

	body := map[string]any{
		"vectors": map[string]any{
			"size":     size,
			"distance": distance,
		},
	}

	b, _ := json.Marshal(body)

	createReq, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPut,
		fmt.Sprintf("%s/collections/%s", store.endpoint, store.collection),
		bytes.NewReader(b),
	)

	createReq.Header.Set("Content-Type", "application/json")

	createResp, err := store.httpClient.Do(createReq)

	if err != nil {
		return err
	}

	defer createResp.Body.Close()

	if createResp.StatusCode >= 300 {
		return fmt.Errorf("qdrant: create collection status %s", createResp.Status)
	}

	return nil
}

// Upsert writes one point under the given ID. Qdrant replaces the whole
// point when the ID already exists, payload included, so repeated writes
// never merge old fields into new ones.
func (store *Store) Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}

	body := map[string]any{
		"points": []map[string]any{{
			"id":      id,
			"vector":  vector,
			"payload": payload,
		}},
	}

	b, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPut,
		fmt.Sprintf("%s/collections/%s/points", store.endpoint, store.collection),
		bytes.NewReader(b),
	)

	req.Header.Set("Content-Type", "application/json")

	resp, err := store.httpClient.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant: upsert status %s", resp.Status)
	}

	return nil
}

// Search runs similarity search scoped to one user and returns up to limit
// hits in descending score order. The user_id condition is always part of
// the filter; extra equality filters are accepted for the keys in
// filterKeys and empty values are skipped.
func (store *Store) Search(ctx context.Context, vector []float32, userID string, limit int, filters map[string]string) ([]ScoredPoint, error) {
	must := []map[string]any{{
		"key":   "user_id",
		"match": map[string]any{"value": userID},
	}}

	for _, key := range filterKeys {
		if value, ok := filters[key]; ok && value != "" {
			must = append(must, map[string]any{
				"key":   key,
				"match": map[string]any{"value": value},
			})
		}
	}

	body := map[string]any{
		"vector":       vector,
		"filter":       map[string]any{"must": must},
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}

	b, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/search", store.endpoint, store.collection),
		bytes.NewReader(b),
	)

	req.Header.Set("Content-Type", "application/json")

	resp, err := store.httpClient.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant: search status %s", resp.Status)
	}

	var out struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	points := make([]ScoredPoint, 0, len(out.Result))

	for _, hit := range out.Result {
		payload := hit.Payload

		if payload == nil {
			payload = map[string]any{}
		}

		points = append(points, ScoredPoint{
			ID:      pointID(hit.ID),
			Score:   hit.Score,
			Payload: payload,
		})
	}

	return points, nil
}

// Delete removes a point by ID. Deleting an ID that was never stored is
// not an error, which keeps the operation idempotent.
func (store *Store) Delete(ctx context.Context, id string) error {
	body := map[string]any{"points": []string{id}}

	b, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/delete", store.endpoint, store.collection),
		bytes.NewReader(b),
	)

	req.Header.Set("Content-Type", "application/json")

	resp, err := store.httpClient.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant: delete status %s", resp.Status)
	}

	return nil
}

// Ping checks that the endpoint answers at all.
func (store *Store) Ping(ctx context.Context) error {
	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		store.endpoint+"/collections",
		nil,
	)

	resp, err := store.httpClient.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant: ping status %s", resp.Status)
	}

	return nil
}
