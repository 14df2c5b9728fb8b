// Package job orchestrates one refinement request: validation, settings
// overrides, engine acquisition, stage sequencing, and failure mapping.
package job

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cgatting/RefScore/internal/refiner"
)

// Request is the submit payload. MaxResults and NoCache are optional
// overrides; invalid values are ignored rather than rejected.
type Request struct {
	ManuscriptText string `json:"manuscriptText"`
	MaxResults     *int   `json:"maxResults,omitempty"`
	NoCache        *bool  `json:"noCache,omitempty"`
}

// Result is the completed refinement artifact. The submit call returns the
// full triple or an error, never a partial result.
type Result struct {
	ProcessedText    string `json:"processedText"`
	BibliographyText string `json:"bibliographyText"`
	Bibtex           string `json:"bibtex"`
}

// Reporter receives job lifecycle events for broadcast. Calls never fail
// and never block the job.
type Reporter interface {
	Progress(percent float64, message string)
	Error(message string)
}

// EngineSource yields the shared engine. *engine.Cache implements it.
type EngineSource interface {
	GetOrCreate(ctx context.Context, settings refiner.Settings) (*refiner.Engine, error)
}

// Refiner is the per-job pipeline the orchestrator drives.
type Refiner interface {
	Refine(ctx context.Context, manuscript string) (string, error)
	BibliographyText() string
	BibTeX() string
}

// RefinerFactory builds the per-job pipeline. Swapped out in tests.
type RefinerFactory func(settings refiner.Settings, eng *refiner.Engine, view refiner.View) Refiner

// Orchestrator validates refinement requests and drives them to
// completion.
type Orchestrator struct {
	engines    EngineSource
	reporter   Reporter
	newRefiner RefinerFactory
	logger     *zap.Logger
}

// NewOrchestrator wires an orchestrator to the engine cache and the
// progress reporter.
func NewOrchestrator(engines EngineSource, reporter Reporter, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		engines:  engines,
		reporter: reporter,
		newRefiner: func(settings refiner.Settings, eng *refiner.Engine, view refiner.View) Refiner {
			return refiner.New(settings, eng, view)
		},
		logger: logger,
	}
}

// Submit runs one refinement job.
//
// Empty or whitespace-only manuscripts are valid input: they short-circuit
// to an all-empty result with no engine access and no progress events.
// Engine construction failure surfaces as engine.ErrUnavailable before any
// event is emitted; a stage failure is mirrored to the broadcast channel
// and returned as a *RefinementError.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.ManuscriptText) == "" {
		return Result{}, nil
	}

	settings := refiner.DefaultSettings()
	if req.MaxResults != nil && *req.MaxResults > 0 {
		settings.Search.MaxResults = *req.MaxResults
	}
	if req.NoCache != nil && *req.NoCache {
		settings.Privacy.CacheEnabled = false
	}

	eng, err := o.engines.GetOrCreate(ctx, settings)
	if err != nil {
		return Result{}, err
	}

	jobID := uuid.NewString()
	o.logger.Info("job started",
		zap.String("job_id", jobID),
		zap.Int("manuscript_bytes", len(req.ManuscriptText)),
		zap.Int("max_results", settings.Search.MaxResults),
		zap.Bool("cache_enabled", settings.Privacy.CacheEnabled))

	ref := o.newRefiner(settings, eng, o.reporter)

	o.reporter.Progress(0.0, "Starting DeepSearch refinement...")
	processed, err := ref.Refine(ctx, req.ManuscriptText)
	if err != nil {
		// Best-effort mirror to the stream; the caller gets the
		// original failure either way.
		o.reporter.Error("Refinement failed: " + err.Error())
		o.logger.Error("job failed", zap.String("job_id", jobID), zap.Error(err))
		return Result{}, &RefinementError{Detail: err.Error(), Err: err}
	}

	o.reporter.Progress(0.98, "Generating bibliography and BibTeX...")
	result := Result{
		ProcessedText:    processed,
		BibliographyText: ref.BibliographyText(),
		Bibtex:           ref.BibTeX(),
	}
	o.reporter.Progress(1.0, "DeepSearch complete")

	o.logger.Info("job complete", zap.String("job_id", jobID))
	return result, nil
}
