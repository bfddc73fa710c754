package stats

import (
	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
)

// ContingencyTable holds the 2x2 overlap counts for one term's gene set
// versus the query set, against a fixed background universe:
//
//	A = query genes in the term (hits)
//	B = query genes not in the term
//	C = term genes in the universe but not in the query
//	D = remaining universe genes
type ContingencyTable struct {
	A, B, C, D int
}

// Total returns the population size A+B+C+D.
func (t ContingencyTable) Total() int { return t.A + t.B + t.C + t.D }

// Valid reports whether all four counts are non-negative. A negative count
// means the universe does not actually contain the members it was claimed
// to, which is a data-integrity violation and never silently clamped.
func (t ContingencyTable) Valid() bool {
	return t.A >= 0 && t.B >= 0 && t.C >= 0 && t.D >= 0
}

// BuildContingency derives the contingency table for one term. Both the
// query and the term's gene set are restricted to the universe before
// counting, so the caller may pass sets that extend beyond it.
func BuildContingency(query, universe, termGenes genes.Set) (ContingencyTable, error) {
	queryInUniverse := query.Intersect(universe)
	termInUniverse := termGenes.Intersect(universe)
	hits := queryInUniverse.IntersectionSize(termInUniverse)

	table := ContingencyTable{
		A: hits,
		B: queryInUniverse.Len() - hits,
		C: termInUniverse.Len() - hits,
	}
	table.D = universe.Len() - table.A - table.B - table.C

	if !table.Valid() {
		return table, core.NewContingencyError("", table.A, table.B, table.C, table.D)
	}
	return table, nil
}

// buildTermContingency is the engine's internal fast path: query is already
// restricted to the universe, and the term's universe overlap has been
// computed. Returns the table plus the overlapping query genes.
func buildTermContingency(termID enrichment.TermID, queryInUniverse, universe, termInUniverse genes.Set) (ContingencyTable, genes.Set, error) {
	overlap := queryInUniverse.Intersect(termInUniverse)

	table := ContingencyTable{
		A: overlap.Len(),
		B: queryInUniverse.Len() - overlap.Len(),
		C: termInUniverse.Len() - overlap.Len(),
	}
	table.D = universe.Len() - table.A - table.B - table.C

	if !table.Valid() {
		return table, overlap, core.NewContingencyError(termID.String(), table.A, table.B, table.C, table.D)
	}
	return table, overlap, nil
}
