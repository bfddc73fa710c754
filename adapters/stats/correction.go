package stats

import (
	"sort"

	"goenrich/domain/enrichment"
	"goenrich/ports"
)

// BenjaminiHochberg applies the Benjamini-Hochberg false-discovery-rate
// procedure. Adjustments are returned in the input's original order, with
// the step-down monotonicity scan applied from the largest rank downwards
// and every value clamped to [0,1].
type BenjaminiHochberg struct{}

// Name returns the method label recorded alongside results.
func (BenjaminiHochberg) Name() string { return "BH" }

// Adjust implements ports.Corrector.
func (BenjaminiHochberg) Adjust(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return nil
	}

	idx := make([]int, m)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return pvalues[idx[i]] < pvalues[idx[j]]
	})

	adjusted := make([]float64, m)
	running := 1.0
	for i := m - 1; i >= 0; i-- {
		orig := idx[i]
		rank := i + 1
		q := pvalues[orig] * float64(m) / float64(rank)
		if q > 1 {
			q = 1
		}
		if q < running {
			running = q
		} else {
			q = running
		}
		adjusted[orig] = q
	}
	return adjusted
}

// Bonferroni controls the family-wise error rate: adjusted p = min(1, p*m).
type Bonferroni struct{}

// Name returns the method label recorded alongside results.
func (Bonferroni) Name() string { return "bonferroni" }

// Adjust implements ports.Corrector.
func (Bonferroni) Adjust(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return nil
	}
	adjusted := make([]float64, m)
	for i, p := range pvalues {
		q := p * float64(m)
		if q > 1 {
			q = 1
		}
		adjusted[i] = q
	}
	return adjusted
}

// NoCorrection passes raw p-values through unchanged.
type NoCorrection struct{}

// Name returns the method label recorded alongside results.
func (NoCorrection) Name() string { return "none" }

// Adjust implements ports.Corrector.
func (NoCorrection) Adjust(pvalues []float64) []float64 {
	if len(pvalues) == 0 {
		return nil
	}
	adjusted := make([]float64, len(pvalues))
	copy(adjusted, pvalues)
	return adjusted
}

// CorrectorFor maps a configured correction method to its implementation.
// Unknown methods fall back to BH, the default.
func CorrectorFor(method enrichment.CorrectionMethod) ports.Corrector {
	switch method {
	case enrichment.CorrectionBonferroni:
		return Bonferroni{}
	case enrichment.CorrectionNone:
		return NoCorrection{}
	default:
		return BenjaminiHochberg{}
	}
}
