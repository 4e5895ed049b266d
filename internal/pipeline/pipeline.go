// Package pipeline composes the three NLU stages into a single parse:
// classify the intent, extract entities, then decide the next action. The
// pipeline owns the optional parse cache and the analytics sink, and holds
// the current model behind an atomic pointer so retrains swap in without
// blocking in-flight queries.
package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/metrics"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/observability"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/decision"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/entity"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/intent"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/textnorm"
)

// Result is the full parse output for one query.
type Result struct {
	Query      string              `json:"query"`
	Intent     intent.Prediction   `json:"intent"`
	Entities   *entity.Set         `json:"entities"`
	NextAction *decision.Directive `json:"next_action"`
}

// Pipeline runs queries through classification, extraction and decision.
type Pipeline struct {
	model     atomic.Pointer[intent.Model]
	extractor *entity.Extractor
	cache     *Cache
	analytics *Sink
	obs       *observability.Observability
	log       logger.Logger
}

// Options carries the optional collaborators; any of them may be nil.
type Options struct {
	Cache         *Cache
	Analytics     *Sink
	Observability *observability.Observability
	Logger        logger.Logger
}

// New builds a Pipeline around a model and an extractor. The model may be
// untrained; Parse then fails with intent.ErrNotTrained until a trained
// model is swapped in.
func New(model *intent.Model, extractor *entity.Extractor, opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	p := &Pipeline{
		extractor: extractor,
		cache:     opts.Cache,
		analytics: opts.Analytics,
		obs:       opts.Observability,
		log:       log,
	}
	p.model.Store(model)
	return p
}

// SwapModel publishes a new model. In-flight parses keep the model they
// started with.
func (p *Pipeline) SwapModel(m *intent.Model) {
	p.model.Store(m)
}

// Ready reports whether the current model can serve predictions.
func (p *Pipeline) Ready() bool {
	return p.model.Load().Trained()
}

// Parse runs the full pipeline on a query. Cache and analytics failures
// degrade silently; only an unusable model fails the parse.
func (p *Pipeline) Parse(ctx context.Context, text string) (*Result, error) {
	start := time.Now()
	cacheKey := textnorm.Normalize(text)

	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, cacheKey); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			metrics.ParseRequests.WithLabelValues("success").Inc()
			return cached, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	prediction, err := p.classify(ctx, text)
	if err != nil {
		metrics.ParseRequests.WithLabelValues("error").Inc()
		p.recordObservability(ctx, "error", time.Since(start))
		return nil, err
	}

	entities := p.extract(ctx, text)
	directive := p.decide(prediction.Intent, entities, prediction.Confidence)

	result := &Result{
		Query:      text,
		Intent:     prediction,
		Entities:   entities,
		NextAction: directive,
	}

	if p.cache != nil {
		p.cache.Put(ctx, cacheKey, result)
	}
	if p.analytics != nil {
		p.analytics.Record(result)
	}

	metrics.ParseRequests.WithLabelValues("success").Inc()
	p.recordObservability(ctx, "success", time.Since(start))
	return result, nil
}

// Classify runs only the intent stage.
func (p *Pipeline) Classify(ctx context.Context, text string) (intent.Prediction, error) {
	return p.classify(ctx, text)
}

// Extract runs only the entity stage.
func (p *Pipeline) Extract(ctx context.Context, text string) *entity.Set {
	return p.extract(ctx, text)
}

func (p *Pipeline) classify(ctx context.Context, text string) (intent.Prediction, error) {
	start := time.Now()
	prediction, err := p.model.Load().Predict(text)
	metrics.StageDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	if err != nil {
		return intent.Prediction{}, err
	}

	metrics.IntentPredictions.WithLabelValues(prediction.Intent).Inc()
	return prediction, nil
}

func (p *Pipeline) extract(ctx context.Context, text string) *entity.Set {
	start := time.Now()
	entities := p.extractor.Extract(ctx, text)
	metrics.StageDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	return entities
}

func (p *Pipeline) decide(intentName string, entities *entity.Set, confidence float64) *decision.Directive {
	start := time.Now()
	directive := decision.Decide(intentName, entities, confidence)
	metrics.StageDuration.WithLabelValues("decide").Observe(time.Since(start).Seconds())
	return directive
}

func (p *Pipeline) recordObservability(ctx context.Context, status string, elapsed time.Duration) {
	if p.obs == nil {
		return
	}
	p.obs.RecordParse(ctx, status)
	p.obs.RecordParseDuration(ctx, elapsed, status)
}
