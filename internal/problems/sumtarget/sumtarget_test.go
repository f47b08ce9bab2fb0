package sumtarget

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
	"github.com/ducminhle1904/evolvers/pkg/evolution"
	"github.com/ducminhle1904/evolvers/pkg/genome"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func mustGenome(t *testing.T, genes ...int) Genome {
	t.Helper()
	c, err := genome.NewChromosome(genes)
	require.NoError(t, err)
	return c
}

func TestNewPopulation(t *testing.T) {
	p := Default()
	population, err := p.NewPopulation(100, newRNG(1))
	require.NoError(t, err)
	require.Len(t, population, 100)

	for _, g := range population {
		require.Equal(t, 10, g.Len())
		for _, gene := range g.Genes() {
			assert.GreaterOrEqual(t, gene, 0)
			assert.LessOrEqual(t, gene, 50)
		}
	}
}

func TestNewPopulation_Invalid(t *testing.T) {
	_, err := Default().NewPopulation(0, newRNG(2))
	assert.ErrorIs(t, err, evoerrors.ErrInvalidInput)

	_, err = Problem{GenomeLength: 0, GeneMax: 5}.NewPopulation(10, newRNG(2))
	assert.ErrorIs(t, err, evoerrors.ErrInvalidInput)

	_, err = Problem{GenomeLength: 3, GeneMin: 9, GeneMax: 1}.NewPopulation(10, newRNG(2))
	assert.ErrorIs(t, err, evoerrors.ErrInvalidInput)
}

func TestFitness(t *testing.T) {
	p := Default()

	perfect := mustGenome(t, 17, 17, 17, 17, 17, 17, 17, 17, 17, 17)
	over := mustGenome(t, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20)
	under := mustGenome(t, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10)

	assert.Equal(t, 170, Sum(perfect))
	assert.Equal(t, 0.0, p.Distance(perfect))
	assert.Equal(t, 30.0, p.Distance(over))
	assert.Equal(t, 70.0, p.Distance(under))

	assert.Equal(t, 1.0, p.Closeness(perfect))
	assert.InDelta(t, 1.0/31, p.Closeness(over), 1e-12)

	assert.Equal(t, 30.0, p.Fitness(evolution.LowerIsBetter)(over))
	assert.InDelta(t, 1.0/71, p.Fitness(evolution.HigherIsBetter)(under), 1e-12)
}

func TestResetMutation_StaysInRange(t *testing.T) {
	p := Problem{GenomeLength: 4, GeneMin: -3, GeneMax: 3, Target: 0}
	mutate := p.ResetMutation(newRNG(3))

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		gene := mutate(0)
		require.GreaterOrEqual(t, gene, -3)
		require.LessOrEqual(t, gene, 3)
		seen[gene] = true
	}
	assert.Len(t, seen, 7)
}

func TestStepMutation(t *testing.T) {
	p := Default()
	mutate := p.StepMutation(newRNG(4))

	for i := 0; i < 200; i++ {
		assert.Equal(t, 1, mutate(0), "reflects at the lower bound")
		assert.Equal(t, 49, mutate(50), "reflects at the upper bound")

		next := mutate(25)
		assert.Contains(t, []int{24, 26}, next)
	}

	fixed := Problem{GenomeLength: 1, GeneMin: 7, GeneMax: 7}.StepMutation(newRNG(5))
	assert.Equal(t, 7, fixed(7))
}

func TestStepMutation_AlwaysChangesGenome(t *testing.T) {
	p := Default()
	rng := newRNG(7)
	mutate := p.StepMutation(rng)

	population, err := p.NewPopulation(20, rng)
	require.NoError(t, err)
	for _, g := range population {
		for i := 0; i < 50; i++ {
			before := g.Genes()
			require.NoError(t, g.Mutate(mutate, rng))
			assert.NotEqual(t, before, g.Genes())
		}
	}
}

func TestMutationOperator(t *testing.T) {
	p := Default()

	step, err := p.MutationOperator(MutationStep)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		assert.Contains(t, []int{24, 26}, step(newRNG(8))(25))
	}

	defaulted, err := p.MutationOperator("")
	require.NoError(t, err)
	assert.Equal(t, 1, defaulted(newRNG(9))(0))

	reset, err := p.MutationOperator(MutationReset)
	require.NoError(t, err)
	gene := reset(newRNG(10))(25)
	assert.GreaterOrEqual(t, gene, p.GeneMin)
	assert.LessOrEqual(t, gene, p.GeneMax)

	_, err = p.MutationOperator("flip")
	assert.ErrorIs(t, err, evoerrors.ErrInvalidInput)
}

func TestProportionalSelectionOnCloseness(t *testing.T) {
	p := Default()
	rng := newRNG(6)
	population, err := p.NewPopulation(50, rng)
	require.NoError(t, err)

	next, err := evolution.FitnessProportionalSelection(population, p.Closeness, rng)
	require.NoError(t, err)
	assert.Len(t, next, 50)
}
