package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	commonErrors "github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/errors"
)

// LocationRecognizer finds place names in raw query text. Implementations
// return spans in order of appearance.
type LocationRecognizer interface {
	Locations(ctx context.Context, text string) ([]string, error)
}

// NoopRecognizer finds nothing, leaving location extraction entirely to
// the gazetteer. Used when no NER service is configured.
type NoopRecognizer struct{}

func (NoopRecognizer) Locations(ctx context.Context, text string) ([]string, error) {
	return nil, nil
}

// HTTPRecognizer calls an external NER service for location spans. Failures
// after retries surface as errors so the caller can degrade to the
// gazetteer instead of dropping the query.
type HTTPRecognizer struct {
	baseURL    string
	maxRetries int
	client     *http.Client
}

// NewHTTPRecognizer creates a recognizer against the NER service at
// baseURL with a per-attempt timeout.
func NewHTTPRecognizer(baseURL string, timeout time.Duration, maxRetries int) *HTTPRecognizer {
	return &HTTPRecognizer{
		baseURL:    baseURL,
		maxRetries: maxRetries,
		client:     &http.Client{Timeout: timeout},
	}
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Locations []string `json:"locations"`
}

// Locations posts the text to the NER service and returns the recognized
// place names. Transient failures are retried with a short linear backoff.
func (r *HTTPRecognizer) Locations(ctx context.Context, text string) ([]string, error) {
	payload, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, commonErrors.NewNERServiceError(fmt.Errorf("failed to encode request: %w", err))
	}

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, commonErrors.NewNERServiceTimeoutError()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}

		locations, err := r.post(ctx, payload)
		if err == nil {
			return locations, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (r *HTTPRecognizer) post(ctx context.Context, payload []byte) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/ner", bytes.NewReader(payload))
	if err != nil {
		return nil, commonErrors.NewNERServiceError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, commonErrors.NewNERServiceTimeoutError()
		}
		return nil, commonErrors.NewNERServiceError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, commonErrors.NewNERServiceError(fmt.Errorf("ner service returned status %d", resp.StatusCode))
	}

	var body nerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, commonErrors.NewNERServiceError(fmt.Errorf("failed to decode response: %w", err))
	}
	return body.Locations, nil
}
