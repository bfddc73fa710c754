package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"goenrich/app"
	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
	"goenrich/ports"
)

// enrichRequest is the JSON body of POST /api/v1/enrich.
type enrichRequest struct {
	IDType   string              `json:"id_type"`
	Query    []string            `json:"query"`
	Universe []string            `json:"universe"`
	Sets     map[string][]string `json:"sets"`
	// Descriptions optionally labels terms in Sets.
	Descriptions map[string]string   `json:"descriptions,omitempty"`
	Options      *enrichment.Options `json:"options,omitempty"`
	Persist      bool                `json:"persist"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	idType := genes.IdentifierType(req.IDType)
	collection := enrichment.NewGeneSetCollection(idType)
	for term, members := range req.Sets {
		ids := make([]genes.GeneID, len(members))
		for i, m := range members {
			ids[i] = genes.GeneID(m)
		}
		collection.Add(enrichment.TermID(term), ids...)
	}
	for term, desc := range req.Descriptions {
		collection.Describe(enrichment.TermID(term), desc)
	}

	opts := enrichment.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	run, err := a.analysis.Analyze(r.Context(), app.AnalysisRequest{
		Query:      genes.NewSetFromStrings(idType, req.Query),
		Universe:   genes.NewSetFromStrings(idType, req.Universe),
		Collection: collection,
		Options:    opts,
		Persist:    req.Persist,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	run, err := a.analysis.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filters := ports.RunFilters{}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filters.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filters.Offset = offset
		}
	}

	runs, err := a.analysis.ListRuns(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []enrichment.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (a *App) handleRunReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	run, err := a.analysis.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.reports.HTML(run)); err != nil {
		log.Printf("[ui] failed to write report for run %s: %v", id, err)
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	case core.IsInputError(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Printf("[ui] internal error: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ui] failed to encode response: %v", err)
	}
}
