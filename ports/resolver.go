package ports

import (
	"context"

	"goenrich/domain/genes"
)

// AmbiguityPolicy controls how one-to-many identifier mappings are resolved.
type AmbiguityPolicy string

const (
	AmbiguityFirstMatch    AmbiguityPolicy = "first"
	AmbiguityAllMatches    AmbiguityPolicy = "all"
	AmbiguityDropAmbiguous AmbiguityPolicy = "drop"
)

// IdentifierResolver converts gene identifiers between namespaces. It is an
// external capability used by callers during pre-processing; the enrichment
// engine itself never converts identifiers.
type IdentifierResolver interface {
	// Resolve maps ids from one namespace to another, dropping entries
	// with no mapping. The policy decides how multi-target mappings are
	// handled; with AmbiguityAllMatches a source ID may map to several
	// targets.
	Resolve(ctx context.Context, ids []genes.GeneID, from, to genes.IdentifierType, policy AmbiguityPolicy) (map[genes.GeneID][]genes.GeneID, error)
}
