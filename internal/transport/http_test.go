package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/cgatting/RefScore/internal/engine"
	"github.com/cgatting/RefScore/internal/job"
)

type stubSubmitter struct {
	result job.Result
	err    error
	last   job.Request
}

func (s *stubSubmitter) Submit(ctx context.Context, req job.Request) (job.Result, error) {
	s.last = req
	return s.result, s.err
}

func postRefine(t *testing.T, handler *RefineHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/refine", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRefine_ReturnsResult_When_RequestIsValid(t *testing.T) {
	submitter := &stubSubmitter{result: job.Result{
		ProcessedText:    "refined [1].",
		BibliographyText: "[1] Author. Title. Venue, 2020.\n",
		Bibtex:           "@misc{author2020}\n",
	}}
	handler := NewRefineHandler(submitter, zap.NewNop())

	body, _ := json.Marshal(map[string]any{
		"manuscriptText": "some text",
		"maxResults":     10,
		"noCache":        true,
	})
	rec := postRefine(t, handler, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp job.Result
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ProcessedText != "refined [1]." {
		t.Errorf("Unexpected processed text: %q", resp.ProcessedText)
	}

	if submitter.last.MaxResults == nil || *submitter.last.MaxResults != 10 {
		t.Errorf("maxResults override not forwarded: %+v", submitter.last.MaxResults)
	}
	if submitter.last.NoCache == nil || !*submitter.last.NoCache {
		t.Errorf("noCache override not forwarded: %+v", submitter.last.NoCache)
	}
}

func TestRefine_ReturnsMethodNotAllowed_When_RequestMethodIsGET(t *testing.T) {
	handler := NewRefineHandler(&stubSubmitter{}, zap.NewNop())

	req := httptest.NewRequest("GET", "/refine", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

func TestRefine_ReturnsBadRequest_When_BodyIsInvalidJSON(t *testing.T) {
	handler := NewRefineHandler(&stubSubmitter{}, zap.NewNop())

	rec := postRefine(t, handler, []byte("{invalid"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRefine_ReturnsServiceUnavailable_When_EngineConstructionFails(t *testing.T) {
	submitter := &stubSubmitter{err: engine.ErrUnavailable}
	handler := NewRefineHandler(submitter, zap.NewNop())

	rec := postRefine(t, handler, []byte(`{"manuscriptText":"text"}`))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", rec.Code)
	}

	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Detail == "" {
		t.Error("Expected a non-empty error detail")
	}
}

func TestRefine_ReturnsInternalError_When_RefinementFails(t *testing.T) {
	submitter := &stubSubmitter{err: &job.RefinementError{Detail: "stage three exploded"}}
	handler := NewRefineHandler(submitter, zap.NewNop())

	rec := postRefine(t, handler, []byte(`{"manuscriptText":"text"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rec.Code)
	}

	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Detail != "stage three exploded" {
		t.Errorf("Expected the failure detail, got %q", errResp.Detail)
	}
}
