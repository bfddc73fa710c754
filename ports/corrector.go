package ports

// Corrector adjusts a collection of raw p-values for multiple testing.
// Implementations are total functions over valid inputs: no errors, no
// panics, output length equals input length, and adjustments are returned
// in the input's original order.
type Corrector interface {
	Name() string
	Adjust(pvalues []float64) []float64
}
