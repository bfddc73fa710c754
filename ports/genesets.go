package ports

import (
	"context"

	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
)

// GeneSetSource supplies term -> gene-set mappings in one identifier
// namespace. Implementations must emit collections whose IDType matches the
// requested tag or fail; the engine trusts the tag it is handed.
type GeneSetSource interface {
	// Collection resolves the source into a gene set collection using the
	// given identifier namespace.
	Collection(ctx context.Context, idType genes.IdentifierType) (enrichment.GeneSetCollection, error)
}

// TermMetadata describes a single term in a hierarchical source.
type TermMetadata struct {
	ID       enrichment.TermID
	Name     string
	Aspect   string // category/namespace within the source
	Parents  []enrichment.TermID
	Children []enrichment.TermID
}

// OntologySource is a GeneSetSource backed by a categorized hierarchical
// knowledge resource. Hierarchy links are exposed for downstream
// aggregation only; p-value computation never consumes them.
type OntologySource interface {
	// Aspects lists the independent categories the source is divided into.
	Aspects() []string

	// AspectCollection resolves one category into a gene set collection
	// using the given identifier namespace.
	AspectCollection(ctx context.Context, aspect string, idType genes.IdentifierType) (enrichment.GeneSetCollection, error)

	// Term returns metadata for a single term.
	Term(id enrichment.TermID) (TermMetadata, error)
}
