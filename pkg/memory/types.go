package memory

import (
	"time"

	"github.com/theapemachine/recall/pkg/stores/qdrant"
)

// Fact categories as the extractor labels them.
const (
	CategoryProfile    = "profile"
	CategoryPreference = "preference"
	CategoryEvent      = "event"
	CategoryTempState  = "temp_state"
	CategoryOther      = "other"
)

// Lifecycle states a stored memory can be in.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Fact is one atomic, self-contained statement about the user, the unit an
// Extractor produces from a raw message.
type Fact struct {
	Text       string  `json:"text"`
	Category   string  `json:"category"`
	Slot       string  `json:"slot,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Record is a stored memory. Remember returns records without scores;
// Recall fills Score from the index.
type Record struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	Type       string    `json:"type"`
	Slot       string    `json:"slot,omitempty"`
	Status     string    `json:"status"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	Score      float32   `json:"score,omitempty"`
}

// RecallOptions narrow a Recall beyond the mandatory user scope. Zero
// values mean "no filter"; a zero Limit falls back to DefaultRecallLimit.
type RecallOptions struct {
	Limit  int    `json:"limit,omitempty"`
	Status string `json:"status,omitempty"`
	Type   string `json:"type,omitempty"`
	Slot   string `json:"slot,omitempty"`
}

func (options RecallOptions) filters() map[string]string {
	filters := map[string]string{}

	if options.Status != "" {
		filters["status"] = options.Status
	}

	if options.Type != "" {
		filters["type"] = options.Type
	}

	if options.Slot != "" {
		filters["slot"] = options.Slot
	}

	return filters
}

// payload renders the record the way it lives on an index point. Slot is
// omitted entirely when empty so a slot filter can never match a fact that
// has none.
func (record Record) payload() map[string]any {
	payload := map[string]any{
		"user_id":    record.UserID,
		"text":       record.Text,
		"type":       record.Type,
		"status":     record.Status,
		"confidence": record.Confidence,
		"created_at": record.CreatedAt.Format(time.RFC3339),
	}

	if record.Slot != "" {
		payload["slot"] = record.Slot
	}

	return payload
}

// recordFromPoint rebuilds a Record from a search hit. Fields the payload
// is missing stay at their zero values, so callers always get something
// usable out of a sparsely written point.
func recordFromPoint(point qdrant.ScoredPoint) Record {
	record := Record{
		ID:     point.ID,
		Score:  point.Score,
		UserID: stringField(point.Payload, "user_id"),
		Text:   stringField(point.Payload, "text"),
		Type:   stringField(point.Payload, "type"),
		Slot:   stringField(point.Payload, "slot"),
		Status: stringField(point.Payload, "status"),
	}

	if confidence, ok := point.Payload["confidence"].(float64); ok {
		record.Confidence = confidence
	}

	if raw := stringField(point.Payload, "created_at"); raw != "" {
		if createdAt, err := time.Parse(time.RFC3339, raw); err == nil {
			record.CreatedAt = createdAt
		}
	}

	return record
}

func stringField(payload map[string]any, key string) string {
	if value, ok := payload[key].(string); ok {
		return value
	}

	return ""
}
