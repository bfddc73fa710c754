package app

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goenrich/adapters/stats"
	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
	"goenrich/ports"
)

// memoryRepo is an in-process ResultRepository for service tests.
type memoryRepo struct {
	mu   sync.Mutex
	runs map[core.RunID]*enrichment.Run
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{runs: make(map[core.RunID]*enrichment.Run)}
}

func (r *memoryRepo) SaveRun(ctx context.Context, run *enrichment.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *memoryRepo) GetRun(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	return run, nil
}

func (r *memoryRepo) ListRuns(ctx context.Context, filters ports.RunFilters) ([]enrichment.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]enrichment.Run, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, *run)
	}
	return out, nil
}

func serviceInputs() AnalysisRequest {
	universe := genes.NewSetFromStrings(genes.IdentifierSymbol,
		[]string{"G1", "G2", "G3", "G4", "G5", "G6", "G7", "G8", "G9", "G10"})
	query := genes.NewSetFromStrings(genes.IdentifierSymbol, []string{"G1", "G2", "G3"})

	collection := enrichment.NewGeneSetCollection(genes.IdentifierSymbol)
	collection.Add("T1", "G1", "G2", "G4", "G5")
	collection.Add("T2", "G6", "G7")

	opts := enrichment.DefaultOptions()
	opts.FilterCutoff = 1.0

	return AnalysisRequest{
		Query:      query,
		Universe:   universe,
		Collection: collection,
		Options:    opts,
		Persist:    true,
	}
}

func TestAnalysisService_AnalyzePersistsRun(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewAnalysisService(stats.NewEngine(), repo)

	run, err := svc.Analyze(context.Background(), serviceInputs())
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.NotEmpty(t, run.Fingerprint)
	assert.Equal(t, genes.IdentifierSymbol, run.IDType)
	assert.Equal(t, 3, run.QuerySize)
	assert.Equal(t, 10, run.UniverseSize)
	assert.Equal(t, 2, run.TermCount)
	assert.Equal(t, 2, run.TestedTerms)
	assert.False(t, run.CreatedAt.IsZero())

	stored, err := svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Fingerprint, stored.Fingerprint)
}

func TestAnalysisService_FingerprintStableAcrossRuns(t *testing.T) {
	svc := NewAnalysisService(stats.NewEngine(), nil)

	req := serviceInputs()
	req.Persist = false

	first, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	// Changing any input changes the fingerprint.
	req.Options.FilterCutoff = 0.5
	third, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)
}

func TestAnalysisService_NoPersistenceConfigured(t *testing.T) {
	svc := NewAnalysisService(stats.NewEngine(), nil)

	req := serviceInputs()
	run, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, run.Outcome.Table)

	_, err = svc.GetRun(context.Background(), run.ID)
	assert.ErrorIs(t, err, core.ErrRunNotFound)

	runs, err := svc.ListRuns(context.Background(), ports.RunFilters{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestAnalysisService_InputErrorsPropagate(t *testing.T) {
	svc := NewAnalysisService(stats.NewEngine(), newMemoryRepo())

	req := serviceInputs()
	req.Query = genes.NewSet(genes.IdentifierSymbol)

	_, err := svc.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, core.ErrEmptyQuerySet)
	assert.True(t, core.IsInputError(err))
}

func TestAnalysisService_AnalyzeFromSource(t *testing.T) {
	svc := NewAnalysisService(stats.NewEngine(), nil)
	req := serviceInputs()

	source := staticSource{collection: req.Collection}
	run, err := svc.AnalyzeFromSource(context.Background(), source, req.Query, req.Universe, req.Options, false)
	require.NoError(t, err)
	assert.Len(t, run.Outcome.Table, 2)
}

type staticSource struct {
	collection enrichment.GeneSetCollection
}

func (s staticSource) Collection(ctx context.Context, idType genes.IdentifierType) (enrichment.GeneSetCollection, error) {
	return s.collection, nil
}
