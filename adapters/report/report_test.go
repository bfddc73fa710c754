package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
)

func sampleRun() *enrichment.Run {
	return &enrichment.Run{
		ID:           core.RunID("run-123"),
		IDType:       genes.IdentifierSymbol,
		Options:      enrichment.DefaultOptions(),
		QuerySize:    3,
		UniverseSize: 10,
		TermCount:    2,
		TestedTerms:  2,
		Outcome: enrichment.Outcome{
			Table: enrichment.ResultTable{
				{
					TermID: "PATH1", Description: "apoptosis",
					OverlapCount: 2, QuerySize: 3, TermSize: 4, UniverseSize: 10,
					PValue: 1.0 / 3.0, AdjustedP: 2.0 / 3.0,
					OverlapGenes: []genes.GeneID{"EGFR", "TP53"},
				},
			},
			Warnings: []enrichment.Warning{
				{Code: enrichment.WarningZeroOverlapTermsSkipped, Count: 1, Message: "1 term had no universe overlap"},
			},
			TestedTerms: 2,
		},
		CreatedAt: core.NewTimestamp(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)),
	}
}

func TestGenerator_Markdown(t *testing.T) {
	md := NewGenerator().Markdown(sampleRun())

	assert.Contains(t, md, "# Enrichment Report run-123")
	assert.Contains(t, md, "| Query genes in universe | 3 |")
	assert.Contains(t, md, "| Terms tested (m) | 2 |")
	assert.Contains(t, md, "ZERO_OVERLAP_TERMS_SKIPPED")
	assert.Contains(t, md, "| PATH1 | apoptosis | 2/3 |")
}

func TestGenerator_MarkdownEmptyTable(t *testing.T) {
	run := sampleRun()
	run.Outcome.Table = nil

	md := NewGenerator().Markdown(run)
	assert.Contains(t, md, "No terms passed the significance filter.")
}

func TestGenerator_TopNTruncation(t *testing.T) {
	run := sampleRun()
	run.Outcome.Table = nil
	for i := 0; i < 30; i++ {
		run.Outcome.Table = append(run.Outcome.Table, enrichment.Result{
			TermID: enrichment.TermID(strings.Repeat("T", i+1)),
			PValue: 0.01, AdjustedP: 0.05,
			OverlapCount: 1, QuerySize: 3, TermSize: 2, UniverseSize: 10,
		})
	}

	g := &Generator{TopN: 5}
	md := g.Markdown(run)
	assert.Contains(t, md, "25 further terms omitted.")
}

func TestGenerator_HTML(t *testing.T) {
	out := NewGenerator().HTML(sampleRun())
	doc := string(out)

	require.NotEmpty(t, doc)
	assert.Contains(t, doc, "<html>")
	assert.Contains(t, doc, "Enrichment Report run-123")
	assert.Contains(t, doc, "<table>")
	assert.Contains(t, doc, "PATH1")
}
