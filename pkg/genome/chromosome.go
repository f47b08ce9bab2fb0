package genome

import (
	"fmt"
	"math/rand/v2"
	"strings"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
	"github.com/ducminhle1904/evolvers/pkg/evolution"
	"github.com/ducminhle1904/evolvers/pkg/sampling"
)

// Chromosome is an entity with a single fixed-length sequence of genes that
// reproduces by single-point crossover.
type Chromosome[G comparable] struct {
	genes []G
}

var _ evolution.Evolver[*Chromosome[int], int] = (*Chromosome[int])(nil)

// NewChromosome creates a chromosome owning a copy of genes
func NewChromosome[G comparable](genes []G) (*Chromosome[G], error) {
	if len(genes) == 0 {
		return nil, evoerrors.NewInvalidInputError("genome", "NewChromosome", "a chromosome needs at least one gene")
	}
	owned := make([]G, len(genes))
	copy(owned, genes)
	return &Chromosome[G]{genes: owned}, nil
}

// Len returns the number of genes
func (c *Chromosome[G]) Len() int {
	return len(c.genes)
}

// Genes returns a copy of the genes
func (c *Chromosome[G]) Genes() []G {
	out := make([]G, len(c.genes))
	copy(out, c.genes)
	return out
}

// Gene returns the gene at position i
func (c *Chromosome[G]) Gene(i int) G {
	return c.genes[i]
}

// Equal reports whether both chromosomes carry the same genes in order
func (c *Chromosome[G]) Equal(other *Chromosome[G]) bool {
	if other == nil || len(c.genes) != len(other.genes) {
		return false
	}
	for i := range c.genes {
		if c.genes[i] != other.genes[i] {
			return false
		}
	}
	return true
}

// ReproduceWith produces a child by single-point crossover.
//
// A split point k is drawn uniformly from [1, m) on every call and the child
// is c[k:] followed by other[:k], so it keeps length m. Neither parent is
// modified.
func (c *Chromosome[G]) ReproduceWith(other *Chromosome[G], rng *rand.Rand) (*Chromosome[G], error) {
	if other == nil {
		return nil, evoerrors.NewInvalidInputError("genome", "ReproduceWith", "partner chromosome is nil")
	}
	m := len(c.genes)
	if len(other.genes) != m {
		return nil, evoerrors.NewInvalidInputError("genome", "ReproduceWith", "chromosome lengths differ").
			WithContext("self", m).
			WithContext("other", len(other.genes))
	}
	if m < 2 {
		return nil, evoerrors.NewInvalidInputError("genome", "ReproduceWith", "crossover needs at least 2 genes").
			WithContext("length", m)
	}

	split := 1 + rng.IntN(m-1)
	child := make([]G, 0, m)
	child = append(child, c.genes[split:]...)
	child = append(child, other.genes[:split]...)

	return &Chromosome[G]{genes: child}, nil
}

// Mutate replaces at least one gene in place with fn(gene).
//
// The number of genes is drawn from Binomial(m, 1/m), redrawn while zero, and
// that many distinct positions are chosen uniformly.
func (c *Chromosome[G]) Mutate(fn evolution.MutationFunc[G], rng *rand.Rand) error {
	if fn == nil {
		return evoerrors.NewInvalidInputError("genome", "Mutate", "mutation function is required")
	}
	m := len(c.genes)

	count, err := sampling.PositiveBinomial(m, 1/float64(m), rng)
	if err != nil {
		return err
	}
	positions, err := sampling.WithoutReplacement(m, count, rng)
	if err != nil {
		return err
	}
	for _, pos := range positions {
		c.genes[pos] = fn(c.genes[pos])
	}
	return nil
}

// String renders the genes as "(g1,g2,...)"
func (c *Chromosome[G]) String() string {
	parts := make([]string, len(c.genes))
	for i, g := range c.genes {
		parts[i] = fmt.Sprint(g)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
