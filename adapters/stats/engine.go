package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
)

// Engine runs over-representation analysis: per-term contingency tables and
// hypergeometric p-values, a single multiple-testing correction pass, and a
// deterministic ranked result table. Each invocation is a pure function of
// its arguments; the engine holds no per-call state and inputs are never
// mutated, so concurrent invocations do not interfere.
type Engine struct{}

// NewEngine creates a new enrichment engine.
func NewEngine() *Engine {
	return &Engine{}
}

// termStat is the per-term worker output, indexed by the term's position in
// the deterministic term order so completion order cannot leak into results.
type termStat struct {
	term     enrichment.TermID
	table    ContingencyTable
	overlap  []genes.GeneID
	termSize int // term genes in the universe (A+C)
	pvalue   float64
	skipped  bool // zero possible overlap with the universe
	err      error
}

// Run executes one analysis.
//
// Validation order: options, namespace tags, empty universe, empty
// collection, empty query - then query genes absent from the universe are
// dropped with a warning, and an empty post-filter query is fatal. Terms
// whose gene sets share nothing with the universe are skipped and do not
// count toward the corrector's m; terms failing the raw-p gate are likewise
// excluded from correction. The corrector runs exactly once over the gated
// population.
func (e *Engine) Run(ctx context.Context, query, universe genes.Set, collection enrichment.GeneSetCollection, opts enrichment.Options) (*enrichment.Outcome, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkNamespaces(query, universe, collection); err != nil {
		return nil, err
	}
	if universe.IsEmpty() {
		return nil, core.ErrEmptyUniverse
	}
	if collection.IsEmpty() {
		return nil, core.ErrEmptyCollection
	}
	if query.IsEmpty() {
		return nil, core.ErrEmptyQuerySet
	}

	var warnings []enrichment.Warning

	queryInUniverse := query.Intersect(universe)
	if dropped := query.Difference(universe); !dropped.IsEmpty() {
		warnings = append(warnings, enrichment.Warning{
			Code:    enrichment.WarningDroppedGenesNotInUniverse,
			Count:   dropped.Len(),
			Items:   dropped.Strings(),
			Message: fmt.Sprintf("%d query genes absent from the universe were dropped", dropped.Len()),
		})
	}
	if queryInUniverse.IsEmpty() {
		return nil, fmt.Errorf("%w: no query genes remain after universe filtering", core.ErrEmptyQuerySet)
	}

	terms := collection.Terms()
	stats, err := e.computeTermStats(ctx, terms, queryInUniverse, universe, collection, opts)
	if err != nil {
		return nil, err
	}

	// Zero-overlap terms are excluded from the correction population so
	// they cannot inflate m for the terms that were actually testable.
	skippedTerms := 0
	tested := make([]*termStat, 0, len(stats))
	for i := range stats {
		if stats[i].skipped {
			skippedTerms++
			continue
		}
		tested = append(tested, &stats[i])
	}
	if skippedTerms > 0 {
		warnings = append(warnings, enrichment.Warning{
			Code:    enrichment.WarningZeroOverlapTermsSkipped,
			Count:   skippedTerms,
			Message: fmt.Sprintf("%d terms had no possible overlap with the universe and were not tested", skippedTerms),
		})
	}

	// Raw-p gate, applied before correction: gated-out terms are not part
	// of the corrected family.
	gated := make([]*termStat, 0, len(tested))
	for _, ts := range tested {
		if ts.pvalue <= opts.GateCutoff {
			gated = append(gated, ts)
		}
	}

	pvalues := make([]float64, len(gated))
	for i, ts := range gated {
		pvalues[i] = ts.pvalue
	}
	adjusted := CorrectorFor(opts.Method).Adjust(pvalues)

	table := make(enrichment.ResultTable, 0, len(gated))
	for i, ts := range gated {
		row := enrichment.Result{
			TermID:       ts.term,
			Description:  collection.Description(ts.term),
			OverlapCount: ts.table.A,
			QuerySize:    queryInUniverse.Len(),
			TermSize:     ts.termSize,
			UniverseSize: universe.Len(),
			PValue:       ts.pvalue,
			AdjustedP:    adjusted[i],
			OverlapGenes: ts.overlap,
		}
		switch opts.FilterDimension {
		case enrichment.FilterOnRaw:
			if row.PValue > opts.FilterCutoff {
				continue
			}
		default:
			if row.AdjustedP > opts.FilterCutoff {
				continue
			}
		}
		table = append(table, row)
	}
	table.Sort()

	return &enrichment.Outcome{
		Table:       table,
		Warnings:    warnings,
		TestedTerms: len(gated),
	}, nil
}

// computeTermStats fans the per-term work out over a bounded worker pool.
// Results land in a slice indexed by term position, so the output is
// independent of worker completion order.
func (e *Engine) computeTermStats(ctx context.Context, terms []enrichment.TermID, queryInUniverse, universe genes.Set, collection enrichment.GeneSetCollection, opts enrichment.Options) ([]termStat, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sem := semaphore.NewWeighted(int64(workers))
	stats := make([]termStat, len(terms))
	var wg sync.WaitGroup

	for i, term := range terms {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(idx int, term enrichment.TermID) {
			defer wg.Done()
			defer sem.Release(1)
			stats[idx] = e.testTerm(term, queryInUniverse, universe, collection.Sets[term])
		}(i, term)
	}
	wg.Wait()

	for i := range stats {
		if stats[i].err != nil {
			return nil, stats[i].err
		}
	}
	return stats, nil
}

// testTerm computes one term's contingency table and raw p-value.
func (e *Engine) testTerm(term enrichment.TermID, queryInUniverse, universe, termGenes genes.Set) termStat {
	termInUniverse := termGenes.Intersect(universe)
	if termInUniverse.IsEmpty() {
		return termStat{term: term, skipped: true, pvalue: 1}
	}

	table, overlap, err := buildTermContingency(term, queryInUniverse, universe, termInUniverse)
	if err != nil {
		return termStat{term: term, err: err}
	}

	return termStat{
		term:     term,
		table:    table,
		overlap:  overlap.Members(),
		termSize: termInUniverse.Len(),
		pvalue:   UpperTailP(table),
	}
}

// checkNamespaces verifies the declared identifier tags agree. Tags are
// asserted by the caller; an unspecified tag is taken as an assertion of
// compatibility rather than grounds for inference.
func checkNamespaces(query, universe genes.Set, collection enrichment.GeneSetCollection) error {
	if !query.IDType.Compatible(universe.IDType) {
		return core.NewNamespaceMismatchError(string(universe.IDType), string(query.IDType))
	}
	if !collection.IDType.Compatible(universe.IDType) {
		return core.NewNamespaceMismatchError(string(universe.IDType), string(collection.IDType))
	}
	if !collection.IDType.Compatible(query.IDType) {
		return core.NewNamespaceMismatchError(string(query.IDType), string(collection.IDType))
	}
	return nil
}
