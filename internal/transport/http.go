// Package transport exposes the refinement job over HTTP.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/cgatting/RefScore/internal/engine"
	"github.com/cgatting/RefScore/internal/job"
)

// Submitter runs refinement jobs. *job.Orchestrator implements it.
type Submitter interface {
	Submit(ctx context.Context, req job.Request) (job.Result, error)
}

// RefineHandler handles POST /refine.
type RefineHandler struct {
	jobs   Submitter
	logger *zap.Logger
}

// NewRefineHandler creates the submit endpoint handler.
func NewRefineHandler(jobs Submitter, logger *zap.Logger) *RefineHandler {
	return &RefineHandler{jobs: jobs, logger: logger}
}

// errorBody mirrors the service's structured error shape.
type errorBody struct {
	Detail string `json:"detail"`
}

// ServeHTTP decodes the refine request, runs the job, and maps the error
// taxonomy onto status codes: engine unavailability is 503, a stage
// failure is 500, and malformed payloads are 400.
func (h *RefineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	var req job.Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.jobs.Submit(r.Context(), req)
	if err != nil {
		h.logger.Warn("refine request failed", zap.Error(err))

		var refErr *job.RefinementError
		switch {
		case errors.Is(err, engine.ErrUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.As(err, &refErr):
			writeError(w, http.StatusInternalServerError, refErr.Detail)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Warn("failed to write refine response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Detail: detail})
}
