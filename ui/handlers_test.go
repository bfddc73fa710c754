package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goenrich/adapters/stats"
	"goenrich/app"
	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/ports"
)

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

func newTestApp() *App {
	return NewApp(app.NewAnalysisService(stats.NewEngine(), newMemoryRepo()))
}

func enrichBody(persist bool) []byte {
	opts := enrichment.DefaultOptions()
	opts.FilterCutoff = 1.0
	body, _ := json.Marshal(enrichRequest{
		IDType:   "symbol",
		Query:    []string{"G1", "G2", "G3"},
		Universe: []string{"G1", "G2", "G3", "G4", "G5", "G6", "G7", "G8", "G9", "G10"},
		Sets: map[string][]string{
			"T1": {"G1", "G2", "G4", "G5"},
			"T2": {"G6", "G7"},
		},
		Descriptions: map[string]string{"T1": "apoptosis"},
		Options:      &opts,
		Persist:      persist,
	})
	return body
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestApp().Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleEnrich(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", bytes.NewReader(enrichBody(false)))
	newTestApp().Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var run enrichment.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	require.Len(t, run.Outcome.Table, 2)
	assert.Equal(t, enrichment.TermID("T1"), run.Outcome.Table[0].TermID)
	assert.Equal(t, "apoptosis", run.Outcome.Table[0].Description)
	assert.InDelta(t, 1.0/3.0, run.Outcome.Table[0].PValue, 1e-12)
	assert.Equal(t, 2, run.TestedTerms)
}

func TestHandleEnrich_BadRequests(t *testing.T) {
	router := newTestApp().Router()

	t.Run("malformed JSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", bytes.NewReader([]byte("{nope")))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty query", func(t *testing.T) {
		body, _ := json.Marshal(enrichRequest{
			IDType:   "symbol",
			Universe: []string{"G1", "G2"},
			Sets:     map[string][]string{"T1": {"G1"}},
		})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", bytes.NewReader(body))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "query gene set is empty")
	})

	t.Run("invalid options", func(t *testing.T) {
		opts := enrichment.Options{GateCutoff: 2, FilterCutoff: 0.05, FilterDimension: enrichment.FilterOnAdjusted, Method: enrichment.CorrectionBH}
		body, _ := json.Marshal(enrichRequest{
			IDType:   "symbol",
			Query:    []string{"G1"},
			Universe: []string{"G1", "G2"},
			Sets:     map[string][]string{"T1": {"G1"}},
			Options:  &opts,
		})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", bytes.NewReader(body))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetRun_RoundTrip(t *testing.T) {
	testApp := newTestApp()
	router := testApp.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/enrich", bytes.NewReader(enrichBody(true))))
	require.Equal(t, http.StatusOK, rec.Code)

	var run enrichment.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+run.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored enrichment.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, run.ID, stored.ID)
	assert.Equal(t, run.Fingerprint, stored.Fingerprint)
}

func TestHandleGetRun_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestApp().Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListRuns(t *testing.T) {
	testApp := newTestApp()
	router := testApp.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/enrich", bytes.NewReader(enrichBody(true))))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []enrichment.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)
}

func TestHandleRunReport(t *testing.T) {
	testApp := newTestApp()
	router := testApp.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/enrich", bytes.NewReader(enrichBody(true))))
	require.Equal(t, http.StatusOK, rec.Code)

	var run enrichment.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+run.ID.String()+"/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Enrichment Report")
	assert.Contains(t, rec.Body.String(), "T1")
}
