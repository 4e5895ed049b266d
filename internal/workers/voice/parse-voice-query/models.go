package parsevoicequery

import (
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/decision"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/entity"
)

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Query      string              `json:"query"`
	Intent     string              `json:"intent"`
	Confidence float64             `json:"confidence"`
	Entities   *entity.Set         `json:"entities"`
	NextAction *decision.Directive `json:"nextAction"`
}
