package parsevoicequery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/decision"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/entity"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/intent"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/pipeline"
)

type fakeParser struct {
	result *pipeline.Result
	err    error
	calls  int
}

func (f *fakeParser) Parse(ctx context.Context, text string) (*pipeline.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func parseResult(query, intentName string) *pipeline.Result {
	entities := &entity.Set{}
	return &pipeline.Result{
		Query:      query,
		Intent:     intent.Prediction{Intent: intentName, Confidence: 0.91},
		Entities:   entities,
		NextAction: decision.Decide(intentName, entities, 0.91),
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	parser := &fakeParser{result: parseResult("where is my order", "TRACK_ORDER")}
	handler := NewHandler(parser, nil, 5*time.Second, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "where is my order"})
	require.NoError(t, err)

	assert.Equal(t, "where is my order", output.Query)
	assert.Equal(t, "TRACK_ORDER", output.Intent)
	assert.Equal(t, 0.91, output.Confidence)
	require.NotNil(t, output.NextAction)
	assert.Equal(t, "ASK_TRACKING_INFO", output.NextAction.NextAction)
	assert.Equal(t, 1, parser.calls)
}

type fakeEscalator struct {
	called chan *pipeline.Result
}

func newFakeEscalator() *fakeEscalator {
	return &fakeEscalator{called: make(chan *pipeline.Result, 1)}
}

func (f *fakeEscalator) Escalate(ctx context.Context, result *pipeline.Result) {
	f.called <- result
}

func TestHandler_Execute_EscalatesAgentTransfers(t *testing.T) {
	parser := &fakeParser{result: parseResult("connect me to an agent", "CONNECT_TO_AGENT")}
	escalator := newFakeEscalator()
	handler := NewHandler(parser, escalator, 5*time.Second, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "connect me to an agent"})
	require.NoError(t, err)
	assert.Equal(t, "TRANSFER_TO_AGENT", output.NextAction.NextAction)

	select {
	case result := <-escalator.called:
		assert.Equal(t, "CONNECT_TO_AGENT", result.Intent.Intent)
	case <-time.After(2 * time.Second):
		t.Fatal("escalator was never invoked")
	}
}

func TestHandler_Execute_EmptyQuery(t *testing.T) {
	parser := &fakeParser{result: parseResult("", "TRACK_ORDER")}
	handler := NewHandler(parser, nil, 5*time.Second, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrQueryMissing)
	assert.Zero(t, parser.calls, "parser must not run for an empty query")
}

func TestHandler_Execute_UntrainedModel(t *testing.T) {
	parser := &fakeParser{err: intent.ErrNotTrained}
	handler := NewHandler(parser, nil, 5*time.Second, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Query: "track my order"})
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestHandler_Execute_ParserErrorPassesThrough(t *testing.T) {
	boom := errors.New("recognizer exploded")
	parser := &fakeParser{err: boom}
	handler := NewHandler(parser, nil, 5*time.Second, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Query: "track my order"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrModelUnavailable)
}
