package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// UpperTailP computes the one-sided over-representation p-value for a
// contingency table: P(X >= A) where X is hypergeometric with population
// size A+B+C+D, A+C success elements and sample size A+B. This equals a
// one-sided Fisher's exact test with the "greater" alternative.
//
// The tail is summed in log space so the result stays accurate near zero
// for stringent cutoffs; no normal approximation is involved.
func UpperTailP(t ContingencyTable) float64 {
	population := t.Total()
	successes := t.A + t.C // term genes in the universe
	draws := t.A + t.B     // query genes in the universe

	// Degenerate tables carry no evidence of over-representation.
	if t.A == 0 || draws == 0 || successes == 0 {
		return 1
	}

	upper := draws
	if successes < upper {
		upper = successes
	}

	lnDenom := combin.LogGeneralizedBinomial(float64(population), float64(draws))
	logTerms := make([]float64, 0, upper-t.A+1)
	maxLog := math.Inf(-1)
	for x := t.A; x <= upper; x++ {
		lp := combin.LogGeneralizedBinomial(float64(successes), float64(x)) +
			combin.LogGeneralizedBinomial(float64(population-successes), float64(draws-x)) -
			lnDenom
		logTerms = append(logTerms, lp)
		if lp > maxLog {
			maxLog = lp
		}
	}

	// log-sum-exp over the tail
	sum := 0.0
	for _, lp := range logTerms {
		sum += math.Exp(lp - maxLog)
	}
	p := math.Exp(maxLog) * sum

	// Guard against accumulated round-off at the interval edges.
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}
