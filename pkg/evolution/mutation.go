package evolution

import (
	"math"
	"math/rand/v2"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
	"github.com/ducminhle1904/evolvers/pkg/sampling"
)

// MutationReport describes what a MutatePopulation call did
type MutationReport struct {
	// Count is the Binomial(n, rate) draw for this generation.
	Count int
	// Slots are the population indices that were mutated.
	Slots []int
}

// MutatePopulation mutates a Binomial(len(population), rate) number of
// distinct entities chosen uniformly at random, in place.
//
// Drawing the count directly is equivalent to flipping a Bernoulli(rate) coin
// per entity. A count of zero leaves every entity untouched. The returned
// slice is population itself.
func MutatePopulation[E Mutator[G], G any](population []E, rate float64, fn MutationFunc[G], rng *rand.Rand) ([]E, MutationReport, error) {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return nil, MutationReport{}, evoerrors.NewInvalidInputError("evolution", "MutatePopulation", "mutation rate must be in [0, 1]").
			WithContext("rate", rate)
	}
	if fn == nil {
		return nil, MutationReport{}, evoerrors.NewInvalidInputError("evolution", "MutatePopulation", "mutation function is required")
	}

	count, err := sampling.Binomial(len(population), rate, rng)
	if err != nil {
		return nil, MutationReport{}, err
	}

	report := MutationReport{Count: count}
	if count == 0 {
		return population, report, nil
	}

	slots, err := sampling.WithoutReplacement(len(population), count, rng)
	if err != nil {
		return nil, MutationReport{}, err
	}
	for _, slot := range slots {
		if err := population[slot].Mutate(fn, rng); err != nil {
			return nil, MutationReport{}, err
		}
	}
	report.Slots = slots

	return population, report, nil
}

// MutationOptions configures the mutation step of TruncationWithMutation
type MutationOptions[G any] struct {
	Rate float64
	Func MutationFunc[G]
}

// TruncationWithMutation runs TruncationSelection and then MutatePopulation
// on the new generation.
func TruncationWithMutation[E EvolvingEntity[E, G], G any](population []E, fitness FitnessFunc[E], opts TruncationOptions, mutation MutationOptions[G], rng *rand.Rand) ([]E, MutationReport, error) {
	next, err := TruncationSelection(population, fitness, opts, rng)
	if err != nil {
		return nil, MutationReport{}, err
	}
	return MutatePopulation(next, mutation.Rate, mutation.Func, rng)
}
