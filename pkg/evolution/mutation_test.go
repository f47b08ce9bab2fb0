package evolution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ducminhle1904/evolvers/pkg/evolution"
)

func increment(g int) int { return g + 1 }

// TestMutatePopulation_BinomialCount compares the number of entities mutated
// per generation with Binomial(100, 0.01) over 10 000 generations.
func TestMutatePopulation_BinomialCount(t *testing.T) {
	rng := newTestRNG(20)
	const trials = 10000
	reference := distuv.Binomial{N: 100, P: 0.01}

	population := rangeTracers(100)
	counts := make([]float64, trials)
	freq := make(map[int]int)

	for i := 0; i < trials; i++ {
		before := make([]int, len(population))
		for j, entity := range population {
			before[j] = entity.mutated
		}

		_, report, err := evolution.MutatePopulation(population, 0.01, increment, rng)
		require.NoError(t, err)

		touched := 0
		for j, entity := range population {
			delta := entity.mutated - before[j]
			require.LessOrEqual(t, delta, 1, "an entity is mutated at most once per generation")
			touched += delta
		}
		require.Equal(t, report.Count, touched)
		require.Len(t, report.Slots, report.Count)

		counts[i] = float64(report.Count)
		freq[report.Count]++
	}

	assert.InDelta(t, 1.0, stat.Mean(counts, nil), 0.05)
	assert.InDelta(t, 0.366, float64(freq[0])/trials, 0.02)
	assert.InDelta(t, 0.370, float64(freq[1])/trials, 0.02)
	assert.InDelta(t, 0.185, float64(freq[2])/trials, 0.02)
	for k := 0; k <= 3; k++ {
		assert.InDelta(t, reference.Prob(float64(k)), float64(freq[k])/trials, 0.02, "P(%d)", k)
	}
}

func TestMutatePopulation_ReturnsSameSlice(t *testing.T) {
	rng := newTestRNG(21)
	population := rangeTracers(10)

	out, report, err := evolution.MutatePopulation(population, 1, increment, rng)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Count)
	require.Len(t, out, 10)
	assert.Same(t, &population[0], &out[0])
	for _, entity := range population {
		assert.Equal(t, 1, entity.mutated)
		assert.Equal(t, 1, entity.lastGene)
	}
}

func TestMutatePopulation_ZeroRateTouchesNothing(t *testing.T) {
	rng := newTestRNG(22)
	population := rangeTracers(50)

	for i := 0; i < 100; i++ {
		_, report, err := evolution.MutatePopulation(population, 0, increment, rng)
		require.NoError(t, err)
		assert.Zero(t, report.Count)
		assert.Empty(t, report.Slots)
	}
	for _, entity := range population {
		assert.Zero(t, entity.mutated)
	}
}

func TestMutatePopulation_InvalidInput(t *testing.T) {
	rng := newTestRNG(23)
	population := rangeTracers(5)

	for _, rate := range []float64{-0.1, 1.01} {
		_, _, err := evolution.MutatePopulation(population, rate, increment, rng)
		assert.ErrorIs(t, err, evolution.ErrInvalidInput, "rate=%f", rate)
	}

	_, _, err := evolution.MutatePopulation[*tracer, int](population, 0.5, nil, rng)
	assert.ErrorIs(t, err, evolution.ErrInvalidInput)
}
