// Package parsevoicequery is the Zeebe job worker that runs logistics
// queries arriving from a Camunda process through the parse pipeline and
// writes the directive back into the process variables.
package parsevoicequery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/intent"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/pipeline"
)

const (
	TaskType = "parse-voice-query"
)

var (
	ErrQueryMissing     = errors.New("QUERY_MISSING")
	ErrModelUnavailable = errors.New("MODEL_UNAVAILABLE")
)

// Parser is the slice of the pipeline the worker needs.
type Parser interface {
	Parse(ctx context.Context, text string) (*pipeline.Result, error)
}

// Escalator forwards directives that need a human to the alert channels.
// It decides for itself whether a result warrants an alert.
type Escalator interface {
	Escalate(ctx context.Context, result *pipeline.Result)
}

type Handler struct {
	parser    Parser
	escalator Escalator
	timeout   time.Duration
	logger    logger.Logger
}

// NewHandler creates the job handler. The escalator may be nil when
// escalation channels are not configured.
func NewHandler(parser Parser, escalator Escalator, timeout time.Duration, log logger.Logger) *Handler {
	return &Handler{
		parser:    parser,
		escalator: escalator,
		timeout:   timeout,
		logger: log.WithFields(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, fmt.Errorf("%w: %v", ErrQueryMissing, err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		retries := int32(0)
		if errors.Is(err, ErrModelUnavailable) {
			// Another instance may publish a trained model in the meantime.
			retries = 2
		}
		h.failJob(client, job, err, retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Query == "" {
		return nil, fmt.Errorf("%w: job variables carry no query", ErrQueryMissing)
	}

	result, err := h.parser.Parse(ctx, input.Query)
	if err != nil {
		if errors.Is(err, intent.ErrNotTrained) {
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		return nil, err
	}

	output := &Output{
		Query:      result.Query,
		Intent:     result.Intent.Intent,
		Confidence: result.Intent.Confidence,
		Entities:   result.Entities,
		NextAction: result.NextAction,
	}

	if h.escalator != nil {
		// The job context ends with the job; alerts get their own.
		go h.escalator.Escalate(context.Background(), result)
	}

	h.logger.Info("query parsed successfully", map[string]interface{}{
		"intent":     output.Intent,
		"confidence": output.Confidence,
		"nextAction": output.NextAction.NextAction,
	})

	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, retries int32) {
	errorCode := "UNKNOWN_ERROR"
	if errors.Is(err, ErrModelUnavailable) {
		errorCode = "MODEL_UNAVAILABLE"
	} else if errors.Is(err, ErrQueryMissing) {
		errorCode = "QUERY_MISSING"
	}

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": errorCode,
	})

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(errorCode + ": " + err.Error()).
		Send(context.Background())
}

// Execute runs the job body without a Zeebe client attached.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
