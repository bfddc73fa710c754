// Package testkit generates deterministic synthetic analysis inputs: a gene
// universe, a gene set collection, and a query with known enriched terms
// planted in it. Everything is driven by a seed so fixtures are reproducible
// across test runs.
package testkit

import (
	"fmt"
	"math/rand"

	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
)

// GeneratorConfig controls the shape of the synthetic data.
type GeneratorConfig struct {
	Seed         int64
	UniverseSize int
	TermCount    int
	MinSetSize   int
	MaxSetSize   int
	QuerySize    int

	// PlantedTerms receive extra query members so they come out enriched.
	PlantedTerms    int
	PlantedFraction float64 // fraction of a planted term drawn into the query
}

// DefaultGeneratorConfig returns a medium-sized fixture: a 2000-gene
// universe, 100 terms, and 2 planted signals.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:            42,
		UniverseSize:    2000,
		TermCount:       100,
		MinSetSize:      10,
		MaxSetSize:      80,
		QuerySize:       100,
		PlantedTerms:    2,
		PlantedFraction: 0.5,
	}
}

// Fixture bundles generated inputs with the identifiers of the planted terms.
type Fixture struct {
	Universe   genes.Set
	Query      genes.Set
	Collection enrichment.GeneSetCollection
	Planted    []enrichment.TermID
}

// Generate builds a fixture from the config. The same config always yields
// the same fixture.
func Generate(cfg GeneratorConfig) Fixture {
	rng := rand.New(rand.NewSource(cfg.Seed))

	universeIDs := make([]string, cfg.UniverseSize)
	for i := range universeIDs {
		universeIDs[i] = fmt.Sprintf("SYN%05d", i)
	}
	universe := genes.NewSetFromStrings(genes.IdentifierSymbol, universeIDs)

	collection := enrichment.NewGeneSetCollection(genes.IdentifierSymbol)
	termMembers := make(map[enrichment.TermID][]genes.GeneID, cfg.TermCount)
	for t := 0; t < cfg.TermCount; t++ {
		term := enrichment.TermID(fmt.Sprintf("SYNSET%04d", t))
		size := cfg.MinSetSize
		if cfg.MaxSetSize > cfg.MinSetSize {
			size += rng.Intn(cfg.MaxSetSize - cfg.MinSetSize)
		}
		members := make([]genes.GeneID, 0, size)
		for _, idx := range rng.Perm(cfg.UniverseSize)[:size] {
			members = append(members, genes.GeneID(universeIDs[idx]))
		}
		termMembers[term] = members
		collection.Add(term, members...)
		collection.Describe(term, fmt.Sprintf("synthetic set %d", t))
	}

	// Seed the query with a slice of each planted term, then pad with
	// uniform draws from the universe.
	queryIDs := make(map[genes.GeneID]struct{}, cfg.QuerySize)
	planted := make([]enrichment.TermID, 0, cfg.PlantedTerms)
	for t := 0; t < cfg.PlantedTerms && t < cfg.TermCount; t++ {
		term := enrichment.TermID(fmt.Sprintf("SYNSET%04d", t))
		planted = append(planted, term)
		members := termMembers[term]
		take := int(float64(len(members)) * cfg.PlantedFraction)
		for _, id := range members[:take] {
			queryIDs[id] = struct{}{}
		}
	}
	for len(queryIDs) < cfg.QuerySize {
		queryIDs[genes.GeneID(universeIDs[rng.Intn(cfg.UniverseSize)])] = struct{}{}
	}

	queryList := make([]genes.GeneID, 0, len(queryIDs))
	for id := range queryIDs {
		queryList = append(queryList, id)
	}
	query := genes.NewSet(genes.IdentifierSymbol, queryList...)

	return Fixture{
		Universe:   universe,
		Query:      query,
		Collection: collection,
		Planted:    planted,
	}
}
