package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrRunNotFound    = fmt.Errorf("%w: analysis run", ErrNotFound)
	ErrTermNotFound   = fmt.Errorf("%w: term", ErrNotFound)
	ErrSourceNotFound = fmt.Errorf("%w: gene set source", ErrNotFound)

	// Input errors (fatal to an analysis call)
	ErrEmptyQuerySet         = errors.New("query gene set is empty")
	ErrEmptyUniverse         = errors.New("background universe is empty")
	ErrEmptyCollection       = errors.New("gene set collection is empty")
	ErrNamespaceMismatch     = errors.New("gene identifier namespace mismatch")
	ErrInvalidContingency    = errors.New("invalid contingency table")
	ErrUniverseNotConsistent = errors.New("universe does not cover declared set members")

	// Structural errors
	ErrCyclicOntology = errors.New("ontology hierarchy contains a cycle")

	// Validation errors
	ErrValidation = errors.New("validation failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

func NewNamespaceMismatchError(want, got string) error {
	return fmt.Errorf("%w: want %s, got %s", ErrNamespaceMismatch, want, got)
}

func NewContingencyError(termID string, a, b, c, d int) error {
	return fmt.Errorf("%w for term %s: counts a=%d b=%d c=%d d=%d", ErrInvalidContingency, termID, a, b, c, d)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInputError reports whether err is fatal to the analysis call rather
// than a downstream infrastructure failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyQuerySet) ||
		errors.Is(err, ErrEmptyUniverse) ||
		errors.Is(err, ErrEmptyCollection) ||
		errors.Is(err, ErrNamespaceMismatch) ||
		errors.Is(err, ErrInvalidContingency) ||
		errors.Is(err, ErrValidation)
}
