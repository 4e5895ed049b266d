// Package catalog describes the intents the voice agent understands, in a
// form API consumers can use to build forms and prompts without hardcoding
// the label set.
package catalog

import (
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/decision"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/intent"
)

type IntentEntry struct {
	Name              string   `json:"name"`
	RequiredFields    []string `json:"requiredFields"`
	RecommendedFields []string `json:"recommendedFields"`
}

type Catalog struct {
	Version string        `json:"version"`
	Intents []IntentEntry `json:"intents"`
}

// Build assembles the catalog for the closed intent set, annotated with
// the entity fields each intent needs.
func Build(version string) *Catalog {
	c := &Catalog{Version: version}
	for _, name := range intent.Intents {
		entry := IntentEntry{Name: name}
		if required, recommended, ok := decision.Requirements(name); ok {
			entry.RequiredFields = required
			entry.RecommendedFields = recommended
		}
		c.Intents = append(c.Intents, entry)
	}
	return c
}
