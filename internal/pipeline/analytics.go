package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/database"
	commonErrors "github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/errors"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
)

// Sink writes one analytics document per parsed query into Elasticsearch.
// Writes happen off the request path with their own timeout; a slow or
// down cluster never delays a parse.
type Sink struct {
	es    *database.ElasticsearchClient
	index string
	log   logger.Logger
}

// NewSink creates an analytics sink against the given index.
func NewSink(es *database.ElasticsearchClient, index string, log logger.Logger) *Sink {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Sink{es: es, index: index, log: log}
}

type analyticsDoc struct {
	Query      string    `json:"query"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	NextAction string    `json:"next_action"`
	Timestamp  time.Time `json:"timestamp"`
}

// Record indexes the parse asynchronously.
func (s *Sink) Record(result *Result) {
	doc := analyticsDoc{
		Query:      result.Query,
		Intent:     result.Intent.Intent,
		Confidence: result.Intent.Confidence,
		NextAction: result.NextAction.NextAction,
		Timestamp:  time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		body, err := json.Marshal(doc)
		if err != nil {
			s.log.Warn("failed to encode analytics document", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}

		if err := s.es.Index(ctx, s.index, bytes.NewReader(body)); err != nil {
			s.log.WithError(commonErrors.NewAnalyticsIndexError(s.index, err)).Warn("failed to index analytics document", nil)
		}
	}()
}
