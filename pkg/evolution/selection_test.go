package evolution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/evolvers/pkg/evolution"
)

func TestTruncationSelection_PreservesSize(t *testing.T) {
	rng := newTestRNG(1)

	tests := []struct {
		name  string
		size  int
		ratio int
	}{
		{"even size, default ratio", 100, 2},
		{"odd size, default ratio", 11, 2},
		{"divisible by ratio", 12, 3},
		{"not divisible by ratio", 10, 3},
		{"large ratio", 50, 25},
		{"ratio four with remainder", 23, 4},
		{"minimum population", 2, 2},
		{"three entities", 3, 0},
		{"one survivor by arithmetic", 5, 3},
		{"ratio equals size", 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			population := rangeTracers(tt.size)
			opts := evolution.TruncationOptions{Ratio: tt.ratio}

			next, err := evolution.TruncationSelection(population, tracerScore, opts, rng)
			require.NoError(t, err)
			assert.Len(t, next, tt.size)
		})
	}
}

func TestTruncationSelection_AnyValidRatio(t *testing.T) {
	rng := newTestRNG(2)

	for size := 4; size <= 30; size++ {
		for ratio := 2; ratio <= size; ratio++ {
			next, err := evolution.TruncationSelection(rangeTracers(size), tracerScore,
				evolution.TruncationOptions{Ratio: ratio}, rng)
			require.NoError(t, err, "size=%d ratio=%d", size, ratio)
			require.Len(t, next, size, "size=%d ratio=%d", size, ratio)
		}
	}
}

func TestTruncationSelection_NoSelfPairing(t *testing.T) {
	rng := newTestRNG(3)

	for round := 0; round < 200; round++ {
		next, err := evolution.TruncationSelection(rangeTracers(20), tracerScore,
			evolution.DefaultTruncationOptions(), rng)
		require.NoError(t, err)

		for _, child := range next {
			require.NotNil(t, child.mother)
			require.NotNil(t, child.father)
			assert.NotSame(t, child.mother, child.father)
		}
	}
}

func TestTruncationSelection_OnlySurvivorsBreed(t *testing.T) {
	rng := newTestRNG(4)
	population := rangeTracers(10) // scores 1..10

	lower, err := evolution.TruncationSelection(population, tracerScore,
		evolution.TruncationOptions{Ratio: 2, Ordering: evolution.LowerIsBetter}, rng)
	require.NoError(t, err)
	for _, child := range lower {
		assert.LessOrEqual(t, child.mother.score, 5.0)
		assert.LessOrEqual(t, child.father.score, 5.0)
	}

	higher, err := evolution.TruncationSelection(population, tracerScore,
		evolution.TruncationOptions{Ratio: 2, Ordering: evolution.HigherIsBetter}, rng)
	require.NoError(t, err)
	for _, child := range higher {
		assert.Greater(t, child.mother.score, 5.0)
		assert.Greater(t, child.father.score, 5.0)
	}
}

func TestTruncationSelection_EachSurvivorBreedsRatioTimes(t *testing.T) {
	rng := newTestRNG(5)
	population := rangeTracers(12)

	next, err := evolution.TruncationSelection(population, tracerScore,
		evolution.TruncationOptions{Ratio: 3}, rng)
	require.NoError(t, err)

	// 4 survivors, each the first parent of its own 3 children in alternation
	// with its spouse: 2 children as mother, 1 as father.
	asMother := make(map[*tracer]int)
	appearances := make(map[*tracer]int)
	for _, child := range next {
		asMother[child.mother]++
		appearances[child.mother]++
		appearances[child.father]++
	}
	assert.Len(t, appearances, 4)
	for parent, n := range appearances {
		assert.Equal(t, 6, n, "survivor %d", parent.id)
	}
	total := 0
	for _, n := range asMother {
		total += n
	}
	assert.Equal(t, 12, total)
}

func TestTruncationSelection_TopUpFromLastPair(t *testing.T) {
	rng := newTestRNG(6)
	population := rangeTracers(10)

	next, err := evolution.TruncationSelection(population, tracerScore,
		evolution.TruncationOptions{Ratio: 3}, rng)
	require.NoError(t, err)
	require.Len(t, next, 10)

	// 3 survivors x 3 children, then one top-up child of the third pair
	lastPair := []*tracer{next[6].mother, next[6].father}
	for _, child := range next[6:] {
		assert.ElementsMatch(t, lastPair, []*tracer{child.mother, child.father})
	}
	// the top-up child continues the pair's alternation
	assert.Same(t, next[6].mother, next[8].mother)
	assert.Same(t, next[7].mother, next[9].mother)
}

func TestTruncationSelection_TwoEntities(t *testing.T) {
	rng := newTestRNG(7)
	population := newTracers(3, 1)

	next, err := evolution.TruncationSelection(population, tracerScore,
		evolution.DefaultTruncationOptions(), rng)
	require.NoError(t, err)
	require.Len(t, next, 2)

	for _, child := range next {
		assert.ElementsMatch(t, population, []*tracer{child.mother, child.father})
	}
	assert.Same(t, next[0].mother, next[1].father)
	assert.Same(t, next[0].father, next[1].mother)
}

func TestTruncationSelection_DoesNotModifyInput(t *testing.T) {
	rng := newTestRNG(8)
	population := newTracers(5, 3, 9, 1, 7, 2)
	before := append([]*tracer(nil), population...)

	_, err := evolution.TruncationSelection(population, tracerScore, evolution.DefaultTruncationOptions(), rng)
	require.NoError(t, err)

	assert.Equal(t, before, population)
	for i, entity := range population {
		assert.Equal(t, i, entity.id)
		assert.Nil(t, entity.mother)
	}
}

func TestTruncationSelection_InvalidInput(t *testing.T) {
	rng := newTestRNG(9)

	tests := []struct {
		name       string
		population []*tracer
		ratio      int
	}{
		{"empty population", nil, 2},
		{"single entity", rangeTracers(1), 2},
		{"ratio one", rangeTracers(10), 1},
		{"negative ratio", rangeTracers(10), -3},
		{"ratio above size", rangeTracers(5), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := evolution.TruncationSelection(tt.population, tracerScore,
				evolution.TruncationOptions{Ratio: tt.ratio}, rng)
			assert.ErrorIs(t, err, evolution.ErrInvalidInput)
			assert.Nil(t, next)
		})
	}
}

func TestTruncationSelection_AliasedSurvivorsNeverSelfPair(t *testing.T) {
	rng := newTestRNG(14)
	b, c, d, a := &tracer{id: 1, score: 1}, &tracer{id: 2, score: 2}, &tracer{id: 3, score: 3}, &tracer{id: 0, score: 9}
	population := []*tracer{a, b, c, b, a, c, d, d}

	for round := 0; round < 200; round++ {
		next, err := evolution.TruncationSelection(population, tracerScore, evolution.DefaultTruncationOptions(), rng)
		require.NoError(t, err)
		require.Len(t, next, len(population))

		for _, child := range next {
			assert.NotSame(t, child.mother, child.father)
			assert.NotSame(t, a, child.mother)
			assert.NotSame(t, a, child.father)
		}
	}
}

func TestTruncationSelection_SurvivorsOfOneEntity(t *testing.T) {
	rng := newTestRNG(15)
	a, b := &tracer{id: 0, score: 9}, &tracer{id: 1, score: 1}

	next, err := evolution.TruncationSelection([]*tracer{a, a, b, b}, tracerScore, evolution.DefaultTruncationOptions(), rng)
	assert.ErrorIs(t, err, evolution.ErrInvalidInput)
	assert.Nil(t, next)
}

func TestFitnessProportionalSelection_AliasedEntityNeverSelfPairs(t *testing.T) {
	rng := newTestRNG(16)
	a, b := &tracer{id: 0, score: 5}, &tracer{id: 1, score: 1}
	population := []*tracer{a, a, b}

	for round := 0; round < 200; round++ {
		next, err := evolution.FitnessProportionalSelection(population, tracerScore, rng)
		require.NoError(t, err)
		require.Len(t, next, 3)
		for _, child := range next {
			assert.ElementsMatch(t, []*tracer{a, b}, []*tracer{child.mother, child.father})
		}
	}

	_, err := evolution.FitnessProportionalSelection([]*tracer{a, a, a}, tracerScore, rng)
	assert.ErrorIs(t, err, evolution.ErrDegenerateDistribution)
}

func TestFitnessProportionalSelection_DistinctParents(t *testing.T) {
	rng := newTestRNG(10)

	for round := 0; round < 100; round++ {
		population := rangeTracers(15)
		next, err := evolution.FitnessProportionalSelection(population, tracerScore, rng)
		require.NoError(t, err)
		require.Len(t, next, 15)

		for _, child := range next {
			assert.NotSame(t, child.mother, child.father)
		}
	}
}

func TestFitnessProportionalSelection_FavoursFitterEntities(t *testing.T) {
	rng := newTestRNG(11)
	population := newTracers(1, 1, 1, 7)

	picks := make(map[int]int)
	for round := 0; round < 500; round++ {
		next, err := evolution.FitnessProportionalSelection(population, tracerScore, rng)
		require.NoError(t, err)
		for _, child := range next {
			picks[child.mother.id]++
		}
	}

	// entity 3 holds 70% of the fitness
	share := float64(picks[3]) / 2000
	assert.InDelta(t, 0.7, share, 0.05)
}

func TestFitnessProportionalSelection_TwoEntities(t *testing.T) {
	rng := newTestRNG(12)
	population := newTracers(1, 2)

	next, err := evolution.FitnessProportionalSelection(population, tracerScore, rng)
	require.NoError(t, err)
	require.Len(t, next, 2)
	for _, child := range next {
		assert.ElementsMatch(t, population, []*tracer{child.mother, child.father})
	}
}

func TestFitnessProportionalSelection_Degenerate(t *testing.T) {
	rng := newTestRNG(13)

	_, err := evolution.FitnessProportionalSelection(newTracers(0, 0, 0), tracerScore, rng)
	assert.ErrorIs(t, err, evolution.ErrDegenerateDistribution)

	_, err = evolution.FitnessProportionalSelection(newTracers(0, 5, 0), tracerScore, rng)
	assert.ErrorIs(t, err, evolution.ErrDegenerateDistribution)

	_, err = evolution.FitnessProportionalSelection(newTracers(-1, -2), tracerScore, rng)
	assert.ErrorIs(t, err, evolution.ErrDegenerateDistribution)

	_, err = evolution.FitnessProportionalSelection(newTracers(4), tracerScore, rng)
	assert.ErrorIs(t, err, evolution.ErrInvalidInput)
}

func TestOrdering(t *testing.T) {
	assert.True(t, evolution.LowerIsBetter.Better(1, 2))
	assert.False(t, evolution.LowerIsBetter.Better(2, 2))
	assert.True(t, evolution.HigherIsBetter.Better(2, 1))
	assert.Equal(t, "lower-is-better", evolution.LowerIsBetter.String())
	assert.Equal(t, "higher-is-better", evolution.HigherIsBetter.String())
}
