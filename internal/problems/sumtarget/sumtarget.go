// Package sumtarget is the demonstration problem: evolve integer genomes
// whose genes add up to a target.
package sumtarget

import (
	"math"
	"math/rand/v2"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
	"github.com/ducminhle1904/evolvers/pkg/evolution"
	"github.com/ducminhle1904/evolvers/pkg/genome"
)

// Genome is the entity type evolved by this problem.
type Genome = *genome.Chromosome[int]

// Problem describes the search space and the target sum
type Problem struct {
	GenomeLength int
	GeneMin      int
	GeneMax      int
	Target       int
}

// Default is 10 genes in [0, 50] summing to 170.
func Default() Problem {
	return Problem{
		GenomeLength: 10,
		GeneMin:      0,
		GeneMax:      50,
		Target:       170,
	}
}

// Validate checks the problem bounds
func (p Problem) Validate() error {
	if p.GenomeLength < 1 {
		return evoerrors.NewInvalidInputError("sumtarget", "Validate", "genome length must be positive").
			WithContext("length", p.GenomeLength)
	}
	if p.GeneMin > p.GeneMax {
		return evoerrors.NewInvalidInputError("sumtarget", "Validate", "gene range is empty").
			WithContext("min", p.GeneMin).
			WithContext("max", p.GeneMax)
	}
	return nil
}

// RandomGene draws a gene uniformly from [GeneMin, GeneMax].
func (p Problem) RandomGene(rng *rand.Rand) int {
	return p.GeneMin + rng.IntN(p.GeneMax-p.GeneMin+1)
}

// NewPopulation builds size random genomes.
func (p Problem) NewPopulation(size int, rng *rand.Rand) ([]Genome, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, evoerrors.NewInvalidInputError("sumtarget", "NewPopulation", "population size must be positive").
			WithContext("size", size)
	}

	population := make([]Genome, size)
	for i := range population {
		genes := make([]int, p.GenomeLength)
		for j := range genes {
			genes[j] = p.RandomGene(rng)
		}
		c, err := genome.NewChromosome(genes)
		if err != nil {
			return nil, err
		}
		population[i] = c
	}
	return population, nil
}

// Sum adds up the genes of g.
func Sum(g Genome) int {
	total := 0
	for _, gene := range g.Genes() {
		total += gene
	}
	return total
}

// Distance is |target - sum|. Lower is better and 0 is a perfect genome.
func (p Problem) Distance(g Genome) float64 {
	return math.Abs(float64(p.Target - Sum(g)))
}

// Closeness is 1/(1+Distance), in (0, 1]. Higher is better.
func (p Problem) Closeness(g Genome) float64 {
	return 1 / (1 + p.Distance(g))
}

// Fitness returns the fitness function matching ordering.
func (p Problem) Fitness(ordering evolution.Ordering) evolution.FitnessFunc[Genome] {
	if ordering == evolution.HigherIsBetter {
		return p.Closeness
	}
	return p.Distance
}

// Mutation operators by name
const (
	MutationStep  = "step"
	MutationReset = "reset"
)

// MutationOperator returns the named operator, unbound to a random source.
// StepMutation is the one that always changes the gene it is given.
func (p Problem) MutationOperator(name string) (func(*rand.Rand) evolution.MutationFunc[int], error) {
	switch name {
	case MutationStep, "":
		return p.StepMutation, nil
	case MutationReset:
		return p.ResetMutation, nil
	}
	return nil, evoerrors.NewInvalidInputError("sumtarget", "MutationOperator", "unknown mutation operator").
		WithContext("mutation", name)
}

// ResetMutation replaces a gene with a fresh random one. It may draw the
// value the gene already holds.
func (p Problem) ResetMutation(rng *rand.Rand) evolution.MutationFunc[int] {
	return func(int) int {
		return p.RandomGene(rng)
	}
}

// StepMutation nudges a gene by one in a random direction, reflecting at the
// range bounds, so the gene always changes unless the range is a single value.
func (p Problem) StepMutation(rng *rand.Rand) evolution.MutationFunc[int] {
	return func(gene int) int {
		if p.GeneMin == p.GeneMax {
			return gene
		}
		step := 1
		if rng.IntN(2) == 0 {
			step = -1
		}
		next := gene + step
		if next < p.GeneMin || next > p.GeneMax {
			next = gene - step
		}
		return next
	}
}
