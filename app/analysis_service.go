// Package app wires domain logic to adapters: it runs analyses, persists
// them, and renders their reports.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"goenrich/adapters/stats"
	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
	"goenrich/internal"
	"goenrich/ports"
)

// AnalysisService orchestrates one enrichment workflow: resolve the gene set
// source, run the engine, fingerprint and persist the run.
type AnalysisService struct {
	engine *stats.Engine
	repo   ports.ResultRepository
	logger *internal.Logger // Logger for controlled verbosity
}

// AnalysisRequest defines the inputs for one analysis.
type AnalysisRequest struct {
	Query      genes.Set
	Universe   genes.Set
	Collection enrichment.GeneSetCollection
	Options    enrichment.Options
	Persist    bool
}

// NewAnalysisService creates an analysis service. The repository may be nil
// when persistence is not configured; runs are then only returned, not stored.
func NewAnalysisService(engine *stats.Engine, repo ports.ResultRepository) *AnalysisService {
	return &AnalysisService{
		engine: engine,
		repo:   repo,
		logger: internal.NewDefaultLogger(),
	}
}

// Analyze executes the engine and wraps the outcome in a persisted run.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*enrichment.Run, error) {
	startTime := time.Now()

	outcome, err := s.engine.Run(ctx, req.Query, req.Universe, req.Collection, req.Options)
	if err != nil {
		s.logger.Error("Analysis failed after %.2fms: %v", float64(time.Since(startTime).Nanoseconds())/1e6, err)
		return nil, err
	}
	for _, w := range outcome.Warnings {
		s.logger.Warn("%s: %s", w.Code, w.Message)
	}
	// Skip the per-row walk entirely unless someone asked for it.
	if s.logger.GetLevel() >= internal.LogLevelDebug {
		for _, row := range outcome.Table {
			s.logger.Debug("%s: a=%d p=%.3g adjusted=%.3g", row.TermID, row.OverlapCount, row.PValue, row.AdjustedP)
		}
	}

	run := &enrichment.Run{
		ID:           core.RunID(core.NewID()),
		Fingerprint:  fingerprintInputs(req),
		IDType:       req.Query.IDType,
		Options:      req.Options,
		QuerySize:    effectiveQuerySize(outcome, req.Query, req.Universe),
		UniverseSize: req.Universe.Len(),
		TermCount:    req.Collection.Len(),
		TestedTerms:  outcome.TestedTerms,
		Outcome:      *outcome,
		CreatedAt:    core.Now(),
	}

	if req.Persist && s.repo != nil {
		if err := s.repo.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to persist run %s: %w", run.ID, err)
		}
	}

	s.logger.Info("Run %s completed: %d/%d terms kept in %.2fms",
		run.ID, len(run.Outcome.Table), run.TestedTerms, float64(time.Since(startTime).Nanoseconds())/1e6)
	return run, nil
}

// AnalyzeFromSource resolves a collection from a gene set source before
// running the analysis.
func (s *AnalysisService) AnalyzeFromSource(ctx context.Context, source ports.GeneSetSource, query, universe genes.Set, opts enrichment.Options, persist bool) (*enrichment.Run, error) {
	collection, err := source.Collection(ctx, query.IDType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve gene set source: %w", err)
	}
	return s.Analyze(ctx, AnalysisRequest{
		Query:      query,
		Universe:   universe,
		Collection: collection,
		Options:    opts,
		Persist:    persist,
	})
}

// GetRun retrieves a persisted run.
func (s *AnalysisService) GetRun(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: run persistence is not configured", core.ErrRunNotFound)
	}
	return s.repo.GetRun(ctx, id)
}

// ListRuns retrieves recent persisted runs.
func (s *AnalysisService) ListRuns(ctx context.Context, filters ports.RunFilters) ([]enrichment.Run, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListRuns(ctx, filters)
}

// fingerprintInputs digests the query, universe, every term's membership and
// the options, so identical inputs always map to the same fingerprint.
func fingerprintInputs(req AnalysisRequest) core.Fingerprint {
	groups := [][]string{req.Query.Strings(), req.Universe.Strings()}
	for _, term := range req.Collection.Terms() {
		group := append([]string{term.String()}, req.Collection.Sets[term].Strings()...)
		groups = append(groups, group)
	}
	optsJSON, _ := json.Marshal(req.Options)
	groups = append(groups, []string{string(optsJSON)})
	return core.ComputeFingerprint(groups...)
}

// effectiveQuerySize reads the post-drop query size from the result table
// when available, falling back to the universe-restricted count.
func effectiveQuerySize(outcome *enrichment.Outcome, query, universe genes.Set) int {
	if len(outcome.Table) > 0 {
		return outcome.Table[0].QuerySize
	}
	return query.IntersectionSize(universe)
}
