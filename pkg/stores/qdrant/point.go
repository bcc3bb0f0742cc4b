package qdrant

import (
	"fmt"
	"strings"
)

// Distance metric names as Qdrant spells them. A collection's metric is
// fixed at creation and cannot be changed without recreating it.
const (
	DistanceCosine    = "Cosine"
	DistanceEuclid    = "Euclid"
	DistanceDot       = "Dot"
	DistanceManhattan = "Manhattan"
)

// filterKeys enumerates the payload fields Search accepts as equality
// filters on top of the mandatory user_id condition. Keys outside this set
// are skipped without error.
var filterKeys = []string{"status", "type", "slot"}

// ScoredPoint is one search hit: the point's ID, its similarity score
// under the collection's metric, and the stored payload. Vectors are never
// requested from the index and never appear here.
type ScoredPoint struct {
	ID      string         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// pointID renders a point identifier from the wire, where Qdrant returns
// either a UUID string or an unsigned integer.
func pointID(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", raw)
}

// NormalizeDistance maps a case-insensitive metric name to Qdrant's
// canonical spelling. Unrecognized names fall back to cosine rather than
// failing, matching how the store treats a missing configuration value.
func NormalizeDistance(name string) string {
	switch strings.ToLower(name) {
	case "euclid", "euclidean":
		return DistanceEuclid
	case "dot":
		return DistanceDot
	case "manhattan":
		return DistanceManhattan
	default:
		return DistanceCosine
	}
}
