// Package tabular loads gene lists and term -> gene mappings from delimited
// files and Excel workbooks, and exports result tables back out. Formats are
// chosen by file extension.
package tabular

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
)

// Reader handles reading Excel, CSV and TSV files.
type Reader struct {
	filePath string
	fileType string // "xlsx", "csv" or "tsv"
}

// NewReader creates a reader that handles Excel and delimited files.
func NewReader(filePath string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	switch ext {
	case ".csv":
		fileType = "csv"
	case ".tsv", ".txt":
		fileType = "tsv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// ReadGeneList reads a one-column gene list into a set tagged with the given
// namespace. Blank lines are skipped; a leading "gene"/"gene_id" header row
// is tolerated and dropped.
func (r *Reader) ReadGeneList(idType genes.IdentifierType) (genes.Set, error) {
	rows, err := r.readRows()
	if err != nil {
		return genes.Set{}, err
	}

	ids := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		if i == 0 && isGeneHeader(cell) {
			continue
		}
		ids = append(ids, cell)
	}
	if len(ids) == 0 {
		return genes.Set{}, fmt.Errorf("no gene identifiers found in %s", r.filePath)
	}

	log.Printf("[Reader] Gene list loaded from %s (%d identifiers)", r.filePath, len(ids))
	return genes.NewSetFromStrings(idType, ids), nil
}

// ReadMapping reads a two-column term -> gene mapping into a collection
// tagged with the given namespace. An optional third column carries term
// descriptions. One row per (term, gene) pair.
func (r *Reader) ReadMapping(idType genes.IdentifierType) (enrichment.GeneSetCollection, error) {
	rows, err := r.readRows()
	if err != nil {
		return enrichment.GeneSetCollection{}, err
	}

	collection := enrichment.NewGeneSetCollection(idType)
	pairs := 0
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		term := strings.TrimSpace(row[0])
		gene := strings.TrimSpace(row[1])
		if term == "" || gene == "" {
			continue
		}
		if i == 0 && isMappingHeader(term, gene) {
			continue
		}
		collection.Add(enrichment.TermID(term), genes.GeneID(gene))
		if len(row) > 2 {
			if desc := strings.TrimSpace(row[2]); desc != "" {
				collection.Describe(enrichment.TermID(term), desc)
			}
		}
		pairs++
	}
	if collection.IsEmpty() {
		return enrichment.GeneSetCollection{}, fmt.Errorf("no term-gene pairs found in %s", r.filePath)
	}

	log.Printf("[Reader] Mapping loaded from %s (%d terms, %d pairs)", r.filePath, collection.Len(), pairs)
	return collection, nil
}

func (r *Reader) readRows() ([][]string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv", "tsv":
		return r.readDelimited()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *Reader) readDelimited() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(r.fileType), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if r.fileType == "tsv" {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", strings.ToUpper(r.fileType), err)
	}
	return rows, nil
}

func (r *Reader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func isGeneHeader(cell string) bool {
	switch strings.ToLower(cell) {
	case "gene", "gene_id", "geneid", "symbol", "identifier", "id":
		return true
	}
	return false
}

func isMappingHeader(term, gene string) bool {
	t := strings.ToLower(term)
	return (t == "term" || t == "term_id" || t == "termid" || t == "pathway" || t == "set") && isGeneHeader(gene)
}
