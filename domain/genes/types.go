package genes

import (
	"sort"
)

// GeneID is a single gene identifier within one identifier namespace.
type GeneID string

// String returns the string representation
func (g GeneID) String() string { return string(g) }

// IdentifierType tags which identifier namespace a set of gene IDs is drawn
// from. Overlap arithmetic is only meaningful between sets carrying the same
// tag; the tag is declared by the caller, never inferred from the IDs.
type IdentifierType string

const (
	IdentifierSymbol      IdentifierType = "symbol"
	IdentifierEnsembl     IdentifierType = "ensembl_gene"
	IdentifierEntrez      IdentifierType = "entrez"
	IdentifierUniProt     IdentifierType = "uniprot"
	IdentifierUnspecified IdentifierType = ""
)

// Compatible reports whether two identifier tags may be overlapped. An
// unspecified tag is treated as an assertion by the caller that the
// namespace matches.
func (t IdentifierType) Compatible(other IdentifierType) bool {
	if t == IdentifierUnspecified || other == IdentifierUnspecified {
		return true
	}
	return t == other
}

// Set is an unordered collection of gene identifiers tagged with the
// namespace its members are drawn from.
type Set struct {
	IDType  IdentifierType
	members map[GeneID]struct{}
}

// NewSet creates a set from identifiers, deduplicating as it goes.
func NewSet(idType IdentifierType, ids ...GeneID) Set {
	members := make(map[GeneID]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		members[id] = struct{}{}
	}
	return Set{IDType: idType, members: members}
}

// NewSetFromStrings creates a set from raw string identifiers.
func NewSetFromStrings(idType IdentifierType, ids []string) Set {
	members := make(map[GeneID]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		members[GeneID(id)] = struct{}{}
	}
	return Set{IDType: idType, members: members}
}

// Len returns the number of members.
func (s Set) Len() int { return len(s.members) }

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool { return len(s.members) == 0 }

// Contains reports membership of id.
func (s Set) Contains(id GeneID) bool {
	_, ok := s.members[id]
	return ok
}

// Members returns the identifiers in lexical order. The returned slice is
// freshly allocated and safe for the caller to retain.
func (s Set) Members() []GeneID {
	ids := make([]GeneID, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Strings returns the identifiers in lexical order as plain strings.
func (s Set) Strings() []string {
	members := s.Members()
	out := make([]string, len(members))
	for i, id := range members {
		out[i] = string(id)
	}
	return out
}

// Intersect returns the members of s that are also in other, keeping s's
// identifier tag.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if large.Len() < small.Len() {
		small, large = large, small
	}
	members := make(map[GeneID]struct{})
	for id := range small.members {
		if large.Contains(id) {
			members[id] = struct{}{}
		}
	}
	return Set{IDType: s.IDType, members: members}
}

// IntersectionSize counts members shared with other without allocating a
// result set.
func (s Set) IntersectionSize(other Set) int {
	small, large := s, other
	if large.Len() < small.Len() {
		small, large = large, small
	}
	n := 0
	for id := range small.members {
		if large.Contains(id) {
			n++
		}
	}
	return n
}

// Difference returns the members of s not present in other.
func (s Set) Difference(other Set) Set {
	members := make(map[GeneID]struct{})
	for id := range s.members {
		if !other.Contains(id) {
			members[id] = struct{}{}
		}
	}
	return Set{IDType: s.IDType, members: members}
}

// IsSubsetOf reports whether every member of s is in other.
func (s Set) IsSubsetOf(other Set) bool {
	for id := range s.members {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}
