package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goenrich/domain/enrichment"
)

var resultHeader = []string{
	"term_id", "description", "overlap", "query_size", "term_size", "universe_size",
	"gene_ratio", "bg_ratio", "p_value", "adjusted_p", "overlap_genes",
}

// WriteResultsTSV streams a result table as tab-separated rows with a header.
func WriteResultsTSV(w io.Writer, table enrichment.ResultTable) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(resultHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table {
		if err := cw.Write(resultRecord(row)); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row.TermID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultsXLSX writes a result table to an Excel workbook at path, one
// row per term on a "Results" sheet.
func WriteResultsXLSX(path string, table enrichment.ResultTable) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := make([]interface{}, len(resultHeader))
	for i, h := range resultHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		record := []interface{}{
			row.TermID.String(), row.Description,
			row.OverlapCount, row.QuerySize, row.TermSize, row.UniverseSize,
			row.GeneRatio(), row.BgRatio(), row.PValue, row.AdjustedP,
			joinGenes(row),
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row.TermID, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func resultRecord(row enrichment.Result) []string {
	return []string{
		row.TermID.String(),
		row.Description,
		strconv.Itoa(row.OverlapCount),
		strconv.Itoa(row.QuerySize),
		strconv.Itoa(row.TermSize),
		strconv.Itoa(row.UniverseSize),
		strconv.FormatFloat(row.GeneRatio(), 'g', 6, 64),
		strconv.FormatFloat(row.BgRatio(), 'g', 6, 64),
		strconv.FormatFloat(row.PValue, 'g', 6, 64),
		strconv.FormatFloat(row.AdjustedP, 'g', 6, 64),
		joinGenes(row),
	}
}

func joinGenes(row enrichment.Result) string {
	parts := make([]string, len(row.OverlapGenes))
	for i, g := range row.OverlapGenes {
		parts[i] = string(g)
	}
	return strings.Join(parts, "|")
}
