package enrichment

import (
	"fmt"
	"sort"

	"goenrich/domain/core"
	"goenrich/domain/genes"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// TermID uniquely identifies a gene set (pathway, ontology term, marker panel)
type TermID string

// String returns the string representation
func (t TermID) String() string { return string(t) }

// GeneSetCollection maps term identifiers to gene sets drawn from a single
// identifier namespace. The namespace tag is declared, never inferred.
type GeneSetCollection struct {
	IDType       genes.IdentifierType
	Sets         map[TermID]genes.Set
	Descriptions map[TermID]string // optional human-readable labels
}

// NewGeneSetCollection creates an empty collection for the given namespace.
func NewGeneSetCollection(idType genes.IdentifierType) GeneSetCollection {
	return GeneSetCollection{
		IDType:       idType,
		Sets:         make(map[TermID]genes.Set),
		Descriptions: make(map[TermID]string),
	}
}

// Add registers a term's gene set, merging with any existing members.
func (c GeneSetCollection) Add(term TermID, ids ...genes.GeneID) {
	set, ok := c.Sets[term]
	if !ok {
		set = genes.NewSet(c.IDType)
	}
	merged := append(set.Members(), ids...)
	c.Sets[term] = genes.NewSet(c.IDType, merged...)
}

// Describe attaches a human-readable label to a term.
func (c GeneSetCollection) Describe(term TermID, description string) {
	c.Descriptions[term] = description
}

// Description returns the label for a term, empty if none was registered.
func (c GeneSetCollection) Description(term TermID) string {
	return c.Descriptions[term]
}

// Len returns the number of terms.
func (c GeneSetCollection) Len() int { return len(c.Sets) }

// IsEmpty reports whether the collection holds no terms.
func (c GeneSetCollection) IsEmpty() bool { return len(c.Sets) == 0 }

// Terms returns term identifiers in lexical order for deterministic iteration.
func (c GeneSetCollection) Terms() []TermID {
	terms := make([]TermID, 0, len(c.Sets))
	for t := range c.Sets {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
	return terms
}

// ============================================================================
// OPTIONS
// ============================================================================

// CorrectionMethod selects the multiple-testing correction procedure.
type CorrectionMethod string

const (
	CorrectionBH         CorrectionMethod = "BH"         // Benjamini-Hochberg FDR (default)
	CorrectionBonferroni CorrectionMethod = "bonferroni" // family-wise error control
	CorrectionNone       CorrectionMethod = "none"       // adjusted = raw
)

// FilterDimension selects which p-value the post-correction filter applies to.
type FilterDimension string

const (
	FilterOnAdjusted FilterDimension = "adjusted"
	FilterOnRaw      FilterDimension = "raw"
)

// Options configures a single engine invocation.
//
// Two distinct cutoffs are exposed because they do different jobs:
//
//   - GateCutoff is a raw p-value gate applied BEFORE correction. Terms
//     whose raw p exceeds it are never handed to the corrector, so they do
//     not contribute to the number of tests m. The default of 1.0 gates
//     nothing; stringent gates (e.g. 1e-5) reproduce workflows that only
//     correct across strong candidates.
//   - FilterCutoff is applied AFTER correction, to the dimension named by
//     FilterDimension, and only affects which rows the ResultTable keeps.
type Options struct {
	GateCutoff      float64          `json:"gate_cutoff"`
	FilterCutoff    float64          `json:"filter_cutoff"`
	FilterDimension FilterDimension  `json:"filter_dimension"`
	Method          CorrectionMethod `json:"method"`
	Workers         int              `json:"workers"` // <=0 selects GOMAXPROCS
}

// DefaultOptions returns the reference configuration: no raw-p gate,
// BH correction, adjusted p <= 0.05 filter.
func DefaultOptions() Options {
	return Options{
		GateCutoff:      1.0,
		FilterCutoff:    0.05,
		FilterDimension: FilterOnAdjusted,
		Method:          CorrectionBH,
	}
}

// Validate checks option invariants.
func (o Options) Validate() error {
	if o.GateCutoff < 0 || o.GateCutoff > 1 {
		return core.NewValidationError("gate_cutoff", fmt.Sprintf("must be in [0,1], got %g", o.GateCutoff))
	}
	if o.FilterCutoff < 0 || o.FilterCutoff > 1 {
		return core.NewValidationError("filter_cutoff", fmt.Sprintf("must be in [0,1], got %g", o.FilterCutoff))
	}
	switch o.FilterDimension {
	case FilterOnAdjusted, FilterOnRaw:
	default:
		return core.NewValidationError("filter_dimension", fmt.Sprintf("unknown dimension %q", o.FilterDimension))
	}
	switch o.Method {
	case CorrectionBH, CorrectionBonferroni, CorrectionNone:
	default:
		return core.NewValidationError("method", fmt.Sprintf("unknown correction method %q", o.Method))
	}
	return nil
}

// ============================================================================
// WARNINGS (non-fatal, surfaced alongside a valid result)
// ============================================================================

// WarningCode represents structured warning types
type WarningCode string

const (
	WarningDroppedGenesNotInUniverse WarningCode = "DROPPED_GENES_NOT_IN_UNIVERSE"
	WarningZeroOverlapTermsSkipped   WarningCode = "ZERO_OVERLAP_TERMS_SKIPPED"
)

// Warning carries a structured non-fatal condition with supporting detail.
type Warning struct {
	Code    WarningCode `json:"code"`
	Count   int         `json:"count"`
	Items   []string    `json:"items,omitempty"` // offending identifiers, lexical order
	Message string      `json:"message"`
}

// ============================================================================
// RESULTS
// ============================================================================

// Result is one row of a result table: the outcome of testing a single term.
type Result struct {
	TermID       TermID         `json:"term_id"`
	Description  string         `json:"description,omitempty"`
	OverlapCount int            `json:"overlap_count"` // query genes in the term (a)
	QuerySize    int            `json:"query_size"`    // query genes in the universe (a+b)
	TermSize     int            `json:"term_size"`     // universe genes in the term (a+c)
	UniverseSize int            `json:"universe_size"` // a+b+c+d
	PValue       float64        `json:"p_value"`
	AdjustedP    float64        `json:"adjusted_p"`
	OverlapGenes []genes.GeneID `json:"overlap_genes"` // lexical order, copied from inputs
}

// GeneRatio returns overlap-count / query-size, the conventional
// interpretability ratio. Zero query size yields 0.
func (r Result) GeneRatio() float64 {
	if r.QuerySize == 0 {
		return 0
	}
	return float64(r.OverlapCount) / float64(r.QuerySize)
}

// BgRatio returns term-size / universe-size. Zero universe yields 0.
func (r Result) BgRatio() float64 {
	if r.UniverseSize == 0 {
		return 0
	}
	return float64(r.TermSize) / float64(r.UniverseSize)
}

// Validate checks row invariants.
func (r Result) Validate() error {
	if r.OverlapCount < 0 || r.OverlapCount > r.QuerySize || r.OverlapCount > r.TermSize {
		return core.NewValidationError("overlap_count",
			fmt.Sprintf("must satisfy 0 <= %d <= min(%d, %d)", r.OverlapCount, r.QuerySize, r.TermSize))
	}
	if r.PValue < 0 || r.PValue > 1 {
		return core.NewValidationError("p_value", fmt.Sprintf("must be in [0,1], got %g", r.PValue))
	}
	if r.AdjustedP+1e-12 < r.PValue {
		return core.NewValidationError("adjusted_p",
			fmt.Sprintf("must be >= raw p-value, got %g < %g", r.AdjustedP, r.PValue))
	}
	return nil
}

// ResultTable is an ordered sequence of results, sorted ascending by adjusted
// p-value with ties broken by raw p-value then term identifier. It is created
// fresh per engine invocation and never mutated after being returned.
type ResultTable []Result

// Sort orders the table deterministically regardless of how rows were
// produced: adjusted p ascending, then raw p, then term ID lexical.
func (t ResultTable) Sort() {
	sort.SliceStable(t, func(i, j int) bool {
		if t[i].AdjustedP != t[j].AdjustedP {
			return t[i].AdjustedP < t[j].AdjustedP
		}
		if t[i].PValue != t[j].PValue {
			return t[i].PValue < t[j].PValue
		}
		return t[i].TermID < t[j].TermID
	})
}

// Outcome bundles a valid result table with the non-fatal warnings raised
// while producing it. A fatal input error yields no Outcome at all.
type Outcome struct {
	Table       ResultTable `json:"table"`
	Warnings    []Warning   `json:"warnings,omitempty"`
	TestedTerms int         `json:"tested_terms"` // m handed to the corrector
}

// ============================================================================
// RUNS (persisted analysis metadata)
// ============================================================================

// Run captures one persisted engine invocation.
type Run struct {
	ID           core.RunID           `json:"id"`
	Fingerprint  core.Fingerprint     `json:"fingerprint"`
	IDType       genes.IdentifierType `json:"id_type"`
	Options      Options              `json:"options"`
	QuerySize    int                  `json:"query_size"`
	UniverseSize int                  `json:"universe_size"`
	TermCount    int                  `json:"term_count"`
	TestedTerms  int                  `json:"tested_terms"`
	Outcome      Outcome              `json:"outcome"`
	CreatedAt    core.Timestamp       `json:"created_at"`
}
