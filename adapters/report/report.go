// Package report renders finished analysis runs as markdown documents and
// converts them to standalone HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goenrich/domain/enrichment"
)

// Generator renders run reports. TopN bounds the result rows included in the
// document; zero means all rows.
type Generator struct {
	TopN int
}

// NewGenerator creates a report generator showing the top 25 terms.
func NewGenerator() *Generator {
	return &Generator{TopN: 25}
}

// Markdown renders a run as a markdown report.
func (g *Generator) Markdown(run *enrichment.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Enrichment Report %s\n\n", run.ID)
	fmt.Fprintf(&b, "Generated %s\n\n", run.CreatedAt.String())

	b.WriteString("## Inputs\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Identifier namespace | %s |\n", orUnspecified(string(run.IDType)))
	fmt.Fprintf(&b, "| Query genes in universe | %d |\n", run.QuerySize)
	fmt.Fprintf(&b, "| Universe size | %d |\n", run.UniverseSize)
	fmt.Fprintf(&b, "| Terms in collection | %d |\n", run.TermCount)
	fmt.Fprintf(&b, "| Terms tested (m) | %d |\n", run.TestedTerms)
	fmt.Fprintf(&b, "| Correction | %s |\n", run.Options.Method)
	fmt.Fprintf(&b, "| Filter | %s p <= %g |\n", run.Options.FilterDimension, run.Options.FilterCutoff)
	if run.Options.GateCutoff < 1 {
		fmt.Fprintf(&b, "| Raw p gate | %g |\n", run.Options.GateCutoff)
	}
	b.WriteString("\n")

	if len(run.Outcome.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range run.Outcome.Warnings {
			fmt.Fprintf(&b, "- **%s** (%d): %s\n", w.Code, w.Count, w.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Results\n\n")
	if len(run.Outcome.Table) == 0 {
		b.WriteString("No terms passed the significance filter.\n")
		return b.String()
	}

	b.WriteString("| Term | Description | Overlap | Gene ratio | Bg ratio | p | adjusted p |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	rows := run.Outcome.Table
	if g.TopN > 0 && len(rows) > g.TopN {
		rows = rows[:g.TopN]
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s | %d/%d | %.3f | %.3f | %.3g | %.3g |\n",
			row.TermID, row.Description, row.OverlapCount, row.QuerySize,
			row.GeneRatio(), row.BgRatio(), row.PValue, row.AdjustedP)
	}
	if g.TopN > 0 && len(run.Outcome.Table) > g.TopN {
		fmt.Fprintf(&b, "\n%d further terms omitted.\n", len(run.Outcome.Table)-g.TopN)
	}
	return b.String()
}

// HTML renders a run as a standalone HTML document.
func (g *Generator) HTML(run *enrichment.Run) []byte {
	md := []byte(g.Markdown(run))

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	return markdown.ToHTML(md, p, renderer)
}

func orUnspecified(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
