// Package ontology provides an in-memory hierarchical gene set source. Terms
// are organized into independent aspects (categories) and linked by
// parent/child relations forming a DAG; annotations are stored per gene
// identifier namespace so the emitted collections always carry a declared
// tag. Hierarchy links are metadata for downstream aggregation only - the
// enrichment engine never consumes them.
package ontology

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
	"goenrich/ports"
)

type termRecord struct {
	name   string
	aspect string
	node   int64
}

// Source is an in-memory ontology. Populate it with AddTerm, AddRelation and
// Annotate, then call Build once to validate the hierarchy before use.
type Source struct {
	name        string
	aspects     []string
	terms       map[enrichment.TermID]*termRecord
	annotations map[genes.IdentifierType]map[enrichment.TermID][]genes.GeneID
	dag         *simple.DirectedGraph
	byNode      map[int64]enrichment.TermID
	built       bool
}

// NewSource creates an empty ontology source.
func NewSource(name string) *Source {
	return &Source{
		name:        name,
		terms:       make(map[enrichment.TermID]*termRecord),
		annotations: make(map[genes.IdentifierType]map[enrichment.TermID][]genes.GeneID),
		dag:         simple.NewDirectedGraph(),
		byNode:      make(map[int64]enrichment.TermID),
	}
}

// Name returns the source's display name.
func (s *Source) Name() string { return s.name }

// AddTerm registers a term under an aspect. Re-registering an existing term
// is an error; ontology sources are loaded once, not merged.
func (s *Source) AddTerm(id enrichment.TermID, name, aspect string) error {
	if id == "" {
		return core.NewValidationError("term_id", "cannot be empty")
	}
	if _, exists := s.terms[id]; exists {
		return fmt.Errorf("term %s already registered", id)
	}
	node := s.dag.NewNode()
	s.dag.AddNode(node)
	s.terms[id] = &termRecord{name: name, aspect: aspect, node: node.ID()}
	s.byNode[node.ID()] = id

	if !containsString(s.aspects, aspect) {
		s.aspects = append(s.aspects, aspect)
		sort.Strings(s.aspects)
	}
	s.built = false
	return nil
}

// AddRelation links parent to child. Both terms must already be registered.
func (s *Source) AddRelation(parent, child enrichment.TermID) error {
	p, ok := s.terms[parent]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrTermNotFound, parent)
	}
	c, ok := s.terms[child]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrTermNotFound, child)
	}
	if parent == child {
		return fmt.Errorf("%w: %s relates to itself", core.ErrCyclicOntology, parent)
	}
	s.dag.SetEdge(s.dag.NewEdge(s.dag.Node(p.node), s.dag.Node(c.node)))
	s.built = false
	return nil
}

// Annotate attaches gene identifiers in the given namespace to a term.
func (s *Source) Annotate(term enrichment.TermID, idType genes.IdentifierType, ids ...genes.GeneID) error {
	if _, ok := s.terms[term]; !ok {
		return fmt.Errorf("%w: %s", core.ErrTermNotFound, term)
	}
	if idType == genes.IdentifierUnspecified {
		return core.NewValidationError("id_type", "annotations must declare their identifier namespace")
	}
	byTerm, ok := s.annotations[idType]
	if !ok {
		byTerm = make(map[enrichment.TermID][]genes.GeneID)
		s.annotations[idType] = byTerm
	}
	byTerm[term] = append(byTerm[term], ids...)
	return nil
}

// Build validates the hierarchy. The term graph must be a DAG; a cycle makes
// ancestor queries meaningless and is rejected up front.
func (s *Source) Build() error {
	if _, err := topo.Sort(s.dag); err != nil {
		return fmt.Errorf("%w: %v", core.ErrCyclicOntology, err)
	}
	s.built = true
	return nil
}

// Aspects lists the categories terms were registered under, sorted.
func (s *Source) Aspects() []string {
	out := make([]string, len(s.aspects))
	copy(out, s.aspects)
	return out
}

// Collection implements ports.GeneSetSource: every aspect merged into one
// collection in the requested namespace.
func (s *Source) Collection(ctx context.Context, idType genes.IdentifierType) (enrichment.GeneSetCollection, error) {
	return s.collect(idType, "")
}

// AspectCollection resolves a single aspect into a collection in the
// requested namespace. Namespace mismatch detection happens here: asking for
// a namespace the source holds no annotations in is an error, never an empty
// collection.
func (s *Source) AspectCollection(ctx context.Context, aspect string, idType genes.IdentifierType) (enrichment.GeneSetCollection, error) {
	if !containsString(s.aspects, aspect) {
		return enrichment.GeneSetCollection{}, fmt.Errorf("%w: aspect %q in source %s", core.ErrNotFound, aspect, s.name)
	}
	return s.collect(idType, aspect)
}

func (s *Source) collect(idType genes.IdentifierType, aspect string) (enrichment.GeneSetCollection, error) {
	if !s.built {
		return enrichment.GeneSetCollection{}, fmt.Errorf("source %s not built", s.name)
	}
	byTerm, ok := s.annotations[idType]
	if !ok || len(byTerm) == 0 {
		available := make([]string, 0, len(s.annotations))
		for t := range s.annotations {
			available = append(available, string(t))
		}
		sort.Strings(available)
		return enrichment.GeneSetCollection{}, fmt.Errorf("%w: source %s has no %s annotations (available: %v)",
			core.ErrNamespaceMismatch, s.name, idType, available)
	}

	collection := enrichment.NewGeneSetCollection(idType)
	for term, ids := range byTerm {
		rec := s.terms[term]
		if aspect != "" && rec.aspect != aspect {
			continue
		}
		collection.Add(term, ids...)
		collection.Describe(term, rec.name)
	}
	return collection, nil
}

// Term implements ports.OntologySource term metadata access.
func (s *Source) Term(id enrichment.TermID) (ports.TermMetadata, error) {
	rec, ok := s.terms[id]
	if !ok {
		return ports.TermMetadata{}, fmt.Errorf("%w: %s", core.ErrTermNotFound, id)
	}
	return ports.TermMetadata{
		ID:       id,
		Name:     rec.name,
		Aspect:   rec.aspect,
		Parents:  s.neighbors(rec.node, s.dag.To),
		Children: s.neighbors(rec.node, s.dag.From),
	}, nil
}

// Descendants returns every term reachable below id, in lexical order.
func (s *Source) Descendants(id enrichment.TermID) ([]enrichment.TermID, error) {
	rec, ok := s.terms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrTermNotFound, id)
	}
	var out []enrichment.TermID
	bfs := traverse.BreadthFirst{}
	bfs.Walk(s.dag, s.dag.Node(rec.node), func(n graph.Node, _ int) bool {
		if n.ID() != rec.node {
			out = append(out, s.byNode[n.ID()])
		}
		return false
	})
	sortTerms(out)
	return out, nil
}

// Ancestors returns every term reachable above id, in lexical order.
func (s *Source) Ancestors(id enrichment.TermID) ([]enrichment.TermID, error) {
	rec, ok := s.terms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrTermNotFound, id)
	}
	seen := map[int64]bool{rec.node: true}
	queue := []int64{rec.node}
	var out []enrichment.TermID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		parents := s.dag.To(cur)
		for parents.Next() {
			p := parents.Node().ID()
			if seen[p] {
				continue
			}
			seen[p] = true
			queue = append(queue, p)
			out = append(out, s.byNode[p])
		}
	}
	sortTerms(out)
	return out, nil
}

func (s *Source) neighbors(node int64, direction func(int64) graph.Nodes) []enrichment.TermID {
	var out []enrichment.TermID
	it := direction(node)
	for it.Next() {
		out = append(out, s.byNode[it.Node().ID()])
	}
	sortTerms(out)
	return out
}

func sortTerms(terms []enrichment.TermID) {
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
