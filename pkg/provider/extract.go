package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theapemachine/recall/pkg/memory"
	"github.com/theapemachine/recall/pkg/utils"
)

type factsEnvelope struct {
	Facts []memory.Fact `json:"facts"`
}

// parseFacts decodes the extraction contract shared by all extractors.
// Models occasionally wrap the JSON in a markdown fence, so fences are
// stripped first. Facts with an unknown category degrade to "other" and
// confidence is clamped into [0, 1]; facts without text are dropped.
func parseFacts(raw string) ([]memory.Fact, error) {
	var envelope factsEnvelope

	if err := json.Unmarshal([]byte(utils.StripCodeFence(raw)), &envelope); err != nil {
		return nil, fmt.Errorf("provider: malformed extraction response: %w", err)
	}

	facts := make([]memory.Fact, 0, len(envelope.Facts))

	for _, fact := range envelope.Facts {
		if strings.TrimSpace(fact.Text) == "" {
			continue
		}

		switch fact.Category {
		case memory.CategoryProfile, memory.CategoryPreference, memory.CategoryEvent,
			memory.CategoryTempState, memory.CategoryOther:
		default:
			fact.Category = memory.CategoryOther
		}

		if fact.Confidence < 0 {
			fact.Confidence = 0
		}

		if fact.Confidence > 1 {
			fact.Confidence = 1
		}

		facts = append(facts, fact)
	}

	return facts, nil
}
