// Package profiling summarizes the shape of analysis inputs and outputs:
// collection size distributions before a run, p-value distributions after.
package profiling

import (
	"github.com/montanaflynn/stats"

	"goenrich/domain/enrichment"
)

// SummaryStats holds the standard five-number-plus summary of a sample.
type SummaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// CollectionProfile describes a gene set collection before analysis.
type CollectionProfile struct {
	TermCount     int          `json:"term_count"`
	DistinctGenes int          `json:"distinct_genes"`
	SetSizes      SummaryStats `json:"set_sizes"`
}

// PValueProfile describes the p-value distribution of a finished run. A
// uniform raw distribution suggests no signal; mass near zero suggests
// genuine enrichment or an inflated test.
type PValueProfile struct {
	Raw           SummaryStats `json:"raw"`
	Adjusted      SummaryStats `json:"adjusted"`
	BelowPoint05  int          `json:"below_0_05"`
	BelowPoint001 int          `json:"below_0_001"`
}

// ProfileCollection computes summary statistics over a collection's set sizes.
func ProfileCollection(collection enrichment.GeneSetCollection) (CollectionProfile, error) {
	profile := CollectionProfile{TermCount: collection.Len()}

	distinct := make(map[string]struct{})
	sizes := make([]float64, 0, collection.Len())
	for _, term := range collection.Terms() {
		set := collection.Sets[term]
		sizes = append(sizes, float64(set.Len()))
		for _, id := range set.Members() {
			distinct[string(id)] = struct{}{}
		}
	}
	profile.DistinctGenes = len(distinct)

	summary, err := summarize(sizes)
	if err != nil {
		return profile, err
	}
	profile.SetSizes = summary
	return profile, nil
}

// ProfileTable computes p-value distribution statistics over a result table.
func ProfileTable(table enrichment.ResultTable) (PValueProfile, error) {
	profile := PValueProfile{}

	raw := make([]float64, len(table))
	adjusted := make([]float64, len(table))
	for i, row := range table {
		raw[i] = row.PValue
		adjusted[i] = row.AdjustedP
		if row.PValue < 0.05 {
			profile.BelowPoint05++
		}
		if row.PValue < 0.001 {
			profile.BelowPoint001++
		}
	}

	var err error
	if profile.Raw, err = summarize(raw); err != nil {
		return profile, err
	}
	if profile.Adjusted, err = summarize(adjusted); err != nil {
		return profile, err
	}
	return profile, nil
}

func summarize(data []float64) (SummaryStats, error) {
	if len(data) == 0 {
		return SummaryStats{}, nil
	}
	if len(data) == 1 {
		v := data[0]
		return SummaryStats{Count: 1, Mean: v, Min: v, Max: v, Median: v, Q25: v, Q75: v}, nil
	}

	summary := SummaryStats{Count: len(data)}
	var err error
	if summary.Mean, err = stats.Mean(data); err != nil {
		return summary, err
	}
	if summary.StdDev, err = stats.StandardDeviation(data); err != nil {
		return summary, err
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return summary, err
	}
	// Quartile splits on the median, so it stays defined for tiny samples
	// where Percentile would reject the rank.
	quartiles, err := stats.Quartile(data)
	if err != nil {
		return summary, err
	}
	summary.Q25 = quartiles.Q1
	summary.Q75 = quartiles.Q3
	return summary, nil
}
