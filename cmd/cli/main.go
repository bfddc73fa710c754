package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"goenrich/adapters/report"
	"goenrich/adapters/stats"
	"goenrich/adapters/tabular"
	"goenrich/app"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
	"goenrich/internal/profiling"
	"goenrich/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goenrich",
		Short: "Over-representation analysis for gene sets",
	}

	rootCmd.AddCommand(
		newEnrichCmd(),
		newProfileCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type enrichFlags struct {
	queryFile    string
	universeFile string
	mappingFile  string
	idType       string
	method       string
	gate         float64
	cutoff       float64
	dimension    string
	workers      int
	xlsxOut      string
	reportOut    string
}

func newEnrichCmd() *cobra.Command {
	flags := enrichFlags{}

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Run an enrichment analysis from files",
		Long: `Run an over-representation analysis.

The query and universe files are one-column gene lists; the mapping file has
one term,gene pair per row with an optional description column. CSV, TSV and
XLSX are supported. Results go to stdout as TSV.

Example: goenrich enrich --query degs.csv --universe measured.csv --mapping pathways.tsv --id-type symbol`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd.Context(), flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.queryFile, "query", "", "gene list file for the query set (required)")
	cmd.Flags().StringVar(&flags.universeFile, "universe", "", "gene list file for the background universe (required)")
	cmd.Flags().StringVar(&flags.mappingFile, "mapping", "", "term-gene mapping file (required)")
	cmd.Flags().StringVar(&flags.idType, "id-type", "symbol", "identifier namespace (symbol|ensembl_gene|entrez|uniprot)")
	cmd.Flags().StringVar(&flags.method, "method", "BH", "correction method (BH|bonferroni|none)")
	cmd.Flags().Float64Var(&flags.gate, "gate", 1.0, "raw p-value gate applied before correction")
	cmd.Flags().Float64Var(&flags.cutoff, "cutoff", 0.05, "significance cutoff applied after correction")
	cmd.Flags().StringVar(&flags.dimension, "filter-on", "adjusted", "filter dimension (adjusted|raw)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "worker goroutines, 0 = GOMAXPROCS")
	cmd.Flags().StringVar(&flags.xlsxOut, "xlsx", "", "also write results to this Excel workbook")
	cmd.Flags().StringVar(&flags.reportOut, "report", "", "also write an HTML report to this path")
	cmd.MarkFlagRequired("query")
	cmd.MarkFlagRequired("universe")
	cmd.MarkFlagRequired("mapping")

	return cmd
}

func runEnrich(ctx context.Context, flags enrichFlags, out io.Writer) error {
	idType := genes.IdentifierType(flags.idType)

	query, err := tabular.NewReader(flags.queryFile).ReadGeneList(idType)
	if err != nil {
		return fmt.Errorf("failed to read query: %w", err)
	}
	universe, err := tabular.NewReader(flags.universeFile).ReadGeneList(idType)
	if err != nil {
		return fmt.Errorf("failed to read universe: %w", err)
	}
	collection, err := tabular.NewReader(flags.mappingFile).ReadMapping(idType)
	if err != nil {
		return fmt.Errorf("failed to read mapping: %w", err)
	}

	opts := enrichment.Options{
		GateCutoff:      flags.gate,
		FilterCutoff:    flags.cutoff,
		FilterDimension: enrichment.FilterDimension(flags.dimension),
		Method:          enrichment.CorrectionMethod(flags.method),
		Workers:         flags.workers,
	}

	service := app.NewAnalysisService(stats.NewEngine(), nil)
	run, err := service.Analyze(ctx, app.AnalysisRequest{
		Query:      query,
		Universe:   universe,
		Collection: collection,
		Options:    opts,
	})
	if err != nil {
		return err
	}

	for _, w := range run.Outcome.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}

	if err := tabular.WriteResultsTSV(out, run.Outcome.Table); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if flags.xlsxOut != "" {
		if err := tabular.WriteResultsXLSX(flags.xlsxOut, run.Outcome.Table); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
	}
	if flags.reportOut != "" {
		html := report.NewGenerator().HTML(run)
		if err := os.WriteFile(flags.reportOut, html, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	var mappingFile string
	var idType string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Summarize the shape of a term-gene mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := tabular.NewReader(mappingFile).ReadMapping(genes.IdentifierType(idType))
			if err != nil {
				return fmt.Errorf("failed to read mapping: %w", err)
			}
			profile, err := profiling.ProfileCollection(collection)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "terms:          %d\n", profile.TermCount)
			fmt.Fprintf(cmd.OutOrStdout(), "distinct genes: %d\n", profile.DistinctGenes)
			fmt.Fprintf(cmd.OutOrStdout(), "set sizes:      min %.0f / q25 %.1f / median %.1f / q75 %.1f / max %.0f\n",
				profile.SetSizes.Min, profile.SetSizes.Q25, profile.SetSizes.Median, profile.SetSizes.Q75, profile.SetSizes.Max)
			return nil
		},
	}

	cmd.Flags().StringVar(&mappingFile, "mapping", "", "term-gene mapping file (required)")
	cmd.Flags().StringVar(&idType, "id-type", "symbol", "identifier namespace")
	cmd.MarkFlagRequired("mapping")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the engine on seeded synthetic data with planted signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultGeneratorConfig()
			cfg.Seed = seed
			fixture := testkit.Generate(cfg)

			opts := enrichment.DefaultOptions()
			service := app.NewAnalysisService(stats.NewEngine(), nil)
			run, err := service.Analyze(cmd.Context(), app.AnalysisRequest{
				Query:      fixture.Query,
				Universe:   fixture.Universe,
				Collection: fixture.Collection,
				Options:    opts,
			})
			if err != nil {
				return err
			}

			planted := make([]string, len(fixture.Planted))
			for i, term := range fixture.Planted {
				planted[i] = term.String()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "planted terms: %s\n\n", strings.Join(planted, ", "))
			return tabular.WriteResultsTSV(cmd.OutOrStdout(), run.Outcome.Table)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "generator seed")
	return cmd
}
