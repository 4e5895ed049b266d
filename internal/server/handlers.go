package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/config"
	commonErrors "github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/errors"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/intent"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/notify"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/pkg/catalog"
)

// parseRequestSchema validates the request body before any stage runs.
const parseRequestSchema = `{
	"type": "object",
	"required": ["text"],
	"properties": {
		"text": {"type": "string", "minLength": 1}
	}
}`

type parseRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error *commonErrors.StandardError `json:"error"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, reqID, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.pipeline.Parse(ctx, req.Text)
	if err != nil {
		s.writeParseError(w, reqID, err)
		return
	}

	if s.notifier != nil && notify.ShouldEscalate(result) {
		go s.notifier.Escalate(context.Background(), result)
	}

	s.log.Info("query parsed", map[string]interface{}{
		"request_id": reqID,
		"intent":     result.Intent.Intent,
		"confidence": result.Intent.Confidence,
		"action":     result.NextAction.NextAction,
	})
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleIntentOnly(w http.ResponseWriter, r *http.Request) {
	req, reqID, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	prediction, err := s.pipeline.Classify(ctx, req.Text)
	if err != nil {
		s.writeParseError(w, reqID, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":  req.Text,
		"intent": prediction,
	})
}

func (s *Server) handleEntitiesOnly(w http.ResponseWriter, r *http.Request) {
	req, _, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":    req.Text,
		"entities": s.pipeline.Extract(ctx, req.Text),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, http.StatusMethodNotAllowed, commonErrors.NewInvalidRequestError("only GET is supported"))
		return
	}
	s.writeJSON(w, http.StatusOK, catalog.Build(s.cfg.App.Version))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	status := "healthy"
	code := http.StatusOK
	if !s.pipeline.Ready() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	s.writeJSON(w, code, map[string]interface{}{
		"status":      status,
		"service":     s.cfg.App.Name,
		"version":     s.cfg.App.Version,
		"model_ready": s.pipeline.Ready(),
	})
}

// readRequest enforces the method, validates the body against the request
// schema and tags the response with a request id.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (parseRequest, string, bool) {
	reqID := uuid.NewString()
	w.Header().Set("X-Request-ID", reqID)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, commonErrors.NewInvalidRequestError("only POST is supported"))
		return parseRequest{}, reqID, false
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeError(w, http.StatusBadRequest, commonErrors.NewInvalidRequestError("request body is not valid JSON"))
		return parseRequest{}, reqID, false
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(parseRequestSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil || !result.Valid() {
		details := "request body failed validation"
		if err == nil && len(result.Errors()) > 0 {
			details = result.Errors()[0].String()
		}
		s.writeError(w, http.StatusBadRequest, commonErrors.NewInvalidRequestError(details))
		return parseRequest{}, reqID, false
	}

	var req parseRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, commonErrors.NewInvalidRequestError("request body is not valid JSON"))
		return parseRequest{}, reqID, false
	}
	return req, reqID, true
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := config.GetDuration(s.cfg.Server.RequestTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

func (s *Server) writeParseError(w http.ResponseWriter, reqID string, err error) {
	s.log.WithError(err).Error("parse failed", map[string]interface{}{
		"request_id": reqID,
	})

	switch {
	case errors.Is(err, intent.ErrNotTrained):
		s.writeError(w, http.StatusServiceUnavailable, commonErrors.NewModelNotTrainedError("train a model or restore one from disk"))
		return
	case errors.Is(err, intent.ErrCorruptModel):
		s.writeError(w, http.StatusServiceUnavailable, commonErrors.NewModelCorruptError(err))
		return
	case errors.Is(err, intent.ErrModelMissing):
		s.writeError(w, http.StatusServiceUnavailable, commonErrors.NewModelMissingError(s.cfg.Model.Path))
		return
	}

	var stdErr *commonErrors.StandardError
	if errors.As(err, &stdErr) {
		s.writeError(w, http.StatusInternalServerError, stdErr)
		return
	}
	s.writeError(w, http.StatusInternalServerError, commonErrors.NewExternalServiceError("pipeline", err))
}

func (s *Server) writeError(w http.ResponseWriter, status int, stdErr *commonErrors.StandardError) {
	s.writeJSON(w, status, errorResponse{Error: stdErr})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.WithError(err).Error("failed to write response", nil)
	}
}
