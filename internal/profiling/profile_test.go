package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
)

func TestProfileCollection(t *testing.T) {
	collection := enrichment.NewGeneSetCollection(genes.IdentifierSymbol)
	collection.Add("T1", "G1", "G2", "G3", "G4")
	collection.Add("T2", "G3", "G4")
	collection.Add("T3", "G5", "G6")

	profile, err := ProfileCollection(collection)
	require.NoError(t, err)

	assert.Equal(t, 3, profile.TermCount)
	assert.Equal(t, 6, profile.DistinctGenes)
	assert.Equal(t, 3, profile.SetSizes.Count)
	assert.InDelta(t, 8.0/3.0, profile.SetSizes.Mean, 1e-12)
	assert.Equal(t, 2.0, profile.SetSizes.Min)
	assert.Equal(t, 4.0, profile.SetSizes.Max)
	assert.Equal(t, 2.0, profile.SetSizes.Median)
	assert.Equal(t, 2.0, profile.SetSizes.Q25)
	assert.Equal(t, 4.0, profile.SetSizes.Q75)
}

func TestProfileCollection_SingleTerm(t *testing.T) {
	collection := enrichment.NewGeneSetCollection(genes.IdentifierSymbol)
	collection.Add("T1", "G1", "G2", "G3")

	profile, err := ProfileCollection(collection)
	require.NoError(t, err)

	assert.Equal(t, 1, profile.TermCount)
	assert.Equal(t, 1, profile.SetSizes.Count)
	assert.Equal(t, 3.0, profile.SetSizes.Min)
	assert.Equal(t, 3.0, profile.SetSizes.Max)
	assert.Equal(t, 3.0, profile.SetSizes.Median)
	assert.Equal(t, 3.0, profile.SetSizes.Q25)
	assert.Equal(t, 3.0, profile.SetSizes.Q75)
	assert.Equal(t, 0.0, profile.SetSizes.StdDev)
}

func TestProfileCollection_TwoTerms(t *testing.T) {
	collection := enrichment.NewGeneSetCollection(genes.IdentifierSymbol)
	collection.Add("T1", "G1", "G2")
	collection.Add("T2", "G3", "G4", "G5", "G6", "G7", "G8")

	profile, err := ProfileCollection(collection)
	require.NoError(t, err)

	assert.Equal(t, 2, profile.SetSizes.Count)
	assert.Equal(t, 2.0, profile.SetSizes.Q25)
	assert.Equal(t, 4.0, profile.SetSizes.Median)
	assert.Equal(t, 6.0, profile.SetSizes.Q75)
}

func TestProfileCollection_Empty(t *testing.T) {
	profile, err := ProfileCollection(enrichment.NewGeneSetCollection(genes.IdentifierSymbol))
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TermCount)
	assert.Equal(t, 0, profile.SetSizes.Count)
}

func TestProfileTable(t *testing.T) {
	table := enrichment.ResultTable{
		{TermID: "T1", PValue: 0.0005, AdjustedP: 0.002},
		{TermID: "T2", PValue: 0.01, AdjustedP: 0.02},
		{TermID: "T3", PValue: 0.2, AdjustedP: 0.4},
		{TermID: "T4", PValue: 0.9, AdjustedP: 1.0},
	}

	profile, err := ProfileTable(table)
	require.NoError(t, err)

	assert.Equal(t, 4, profile.Raw.Count)
	assert.Equal(t, 2, profile.BelowPoint05)
	assert.Equal(t, 1, profile.BelowPoint001)
	assert.Equal(t, 0.0005, profile.Raw.Min)
	assert.Equal(t, 1.0, profile.Adjusted.Max)
	assert.GreaterOrEqual(t, profile.Adjusted.Mean, profile.Raw.Mean)
}

func TestProfileTable_TwoRows(t *testing.T) {
	table := enrichment.ResultTable{
		{TermID: "T1", PValue: 0.01, AdjustedP: 0.02},
		{TermID: "T2", PValue: 0.2, AdjustedP: 0.2},
	}

	profile, err := ProfileTable(table)
	require.NoError(t, err)

	assert.Equal(t, 2, profile.Raw.Count)
	assert.Equal(t, 0.01, profile.Raw.Q25)
	assert.InDelta(t, 0.105, profile.Raw.Median, 1e-12)
	assert.Equal(t, 0.2, profile.Raw.Q75)
	assert.Equal(t, 1, profile.BelowPoint05)
}
