// Package evolution provides the selection strategies and mutation driver of
// a genetic algorithm over any entity that can reproduce and mutate.
package evolution

import (
	"math/rand/v2"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
)

// Reproducer is an entity that can sexually reproduce with another entity of
// the same kind. ReproduceWith must not modify either parent.
type Reproducer[E any] interface {
	ReproduceWith(other E, rng *rand.Rand) (E, error)
}

// Mutator is an entity whose genes can be replaced in place. Mutate must
// apply fn to at least one gene per call.
type Mutator[G any] interface {
	Mutate(fn MutationFunc[G], rng *rand.Rand) error
}

// Evolver is the full capability set of an evolvable entity with genes of
// type G.
type Evolver[E any, G any] interface {
	Reproducer[E]
	Mutator[G]
}

// Entity is a Reproducer that selection can tell apart from other entities
// with ==. For pointer types that is instance identity.
type Entity[E any] interface {
	Reproducer[E]
	comparable
}

// EvolvingEntity is an Evolver that can be told apart with ==.
type EvolvingEntity[E any, G any] interface {
	Evolver[E, G]
	comparable
}

// FitnessFunc scores an entity. It must be pure; which direction is better is
// declared by the caller with an Ordering.
type FitnessFunc[E any] func(entity E) float64

// MutationFunc maps one gene to its replacement.
type MutationFunc[G any] func(gene G) G

// Ordering declares which fitness direction is better for a call.
type Ordering int

const (
	// LowerIsBetter ranks ascending; 0 is typically a perfect score.
	LowerIsBetter Ordering = iota
	// HigherIsBetter ranks descending.
	HigherIsBetter
)

// String returns the ordering name
func (o Ordering) String() string {
	switch o {
	case LowerIsBetter:
		return "lower-is-better"
	case HigherIsBetter:
		return "higher-is-better"
	default:
		return "unknown"
	}
}

// Better reports whether score a ranks strictly ahead of score b.
func (o Ordering) Better(a, b float64) bool {
	if o == HigherIsBetter {
		return a > b
	}
	return a < b
}

// Error sentinels returned by this package, matched with errors.Is.
var (
	ErrInvalidInput           = evoerrors.ErrInvalidInput
	ErrDegenerateDistribution = evoerrors.ErrDegenerateDistribution
	ErrRetryExhausted         = evoerrors.ErrRetryExhausted
)
