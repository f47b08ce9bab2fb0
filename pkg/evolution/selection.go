package evolution

import (
	"math"
	"math/rand/v2"
	"sort"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
	"github.com/ducminhle1904/evolvers/pkg/sampling"
)

// DefaultTruncationRatio keeps the fitter half of a population as breeders.
const DefaultTruncationRatio = 2

// TruncationOptions configures TruncationSelection
type TruncationOptions struct {
	// Ratio is population size over survivor count, and the number of
	// children each breeding pair produces. Zero means DefaultTruncationRatio.
	Ratio int
	// Ordering declares the fitness direction. The zero value is LowerIsBetter.
	Ordering Ordering
	// MaxDerangeAttempts caps the pairing shuffle. Zero means no cap.
	MaxDerangeAttempts int
}

// DefaultTruncationOptions returns ratio 2 with lower fitness ranked first
func DefaultTruncationOptions() TruncationOptions {
	return TruncationOptions{
		Ratio:    DefaultTruncationRatio,
		Ordering: LowerIsBetter,
	}
}

// scored pairs an entity with its fitness.
type scored[E any] struct {
	entity  E
	fitness float64
}

// TruncationSelection breeds the next generation from the fittest
// floor(n/ratio) entities, and never fewer than two.
//
// Survivors are paired with a derangement of themselves so no entity breeds
// with itself, even when it occupies several slots; survivors in which one
// entity fills more than half of the slots cannot be paired and are rejected
// as invalid input. Each pair produces ratio children with the parents' argument
// order alternating between children. When n is not a multiple of ratio the
// last pair keeps breeding until the new generation has exactly n entities.
// Neither the population nor its members are modified.
func TruncationSelection[E Entity[E]](population []E, fitness FitnessFunc[E], opts TruncationOptions, rng *rand.Rand) ([]E, error) {
	ratio := opts.Ratio
	if ratio == 0 {
		ratio = DefaultTruncationRatio
	}
	size := len(population)

	if ratio < 2 {
		return nil, evoerrors.NewInvalidInputError("evolution", "TruncationSelection", "ratio must be at least 2").
			WithContext("ratio", ratio)
	}
	if size < 2 {
		return nil, evoerrors.NewInvalidInputError("evolution", "TruncationSelection", "population must hold at least 2 entities").
			WithContext("population", size)
	}

	if ratio > size {
		return nil, evoerrors.NewInvalidInputError("evolution", "TruncationSelection", "ratio must not exceed the population size").
			WithContext("population", size).
			WithContext("ratio", ratio)
	}

	// A pair needs two breeders; with ratio above size/2 the two fittest
	// breed and the generation is cut off at size.
	numSurvivors := max(size/ratio, 2)

	ranked := rank(population, fitness, opts.Ordering)
	survivors := make([]E, numSurvivors)
	for i := range survivors {
		survivors[i] = ranked[i].entity
	}

	spouses, err := sampling.DerangeWithLimit(survivors, rng, opts.MaxDerangeAttempts)
	if err != nil {
		return nil, err
	}

	next := make([]E, 0, size)
	breed := func(survivor, spouse E, child int) error {
		first, second := survivor, spouse
		if child%2 == 1 {
			first, second = second, first
		}
		offspring, err := first.ReproduceWith(second, rng)
		if err != nil {
			return err
		}
		next = append(next, offspring)
		return nil
	}

	for i, survivor := range survivors {
		for child := 0; child < ratio && len(next) < size; child++ {
			if err := breed(survivor, spouses[i], child); err != nil {
				return nil, err
			}
		}
	}

	// Rounding policy: top up from the last pair, continuing its alternation.
	last := len(survivors) - 1
	for child := ratio; len(next) < size; child++ {
		if err := breed(survivors[last], spouses[last], child); err != nil {
			return nil, err
		}
	}

	return next, nil
}

// FitnessProportionalSelection breeds one child per slot from two parents
// drawn with probability proportional to their share of the total fitness.
//
// Higher fitness is assumed to be better and fitness must not be negative;
// passing a lower-is-better function gives meaningless results. A parent is
// drawn by picking a uniform candidate and accepting it with probability
// fitness/total; the second parent is redrawn until it is a different entity
// from the first, compared with ==. An entity stored in several slots is
// weighted once per slot. A total fitness of zero, or fewer than two distinct
// entities with positive fitness, is a degenerate distribution.
func FitnessProportionalSelection[E Entity[E]](population []E, fitness FitnessFunc[E], rng *rand.Rand) ([]E, error) {
	size := len(population)
	if size < 2 {
		return nil, evoerrors.NewInvalidInputError("evolution", "FitnessProportionalSelection", "population must hold at least 2 entities").
			WithContext("population", size)
	}

	candidates := make([]scored[E], size)
	totalFitness := 0.0
	positive := make(map[E]struct{}, size)
	for i, entity := range population {
		f := fitness(entity)
		candidates[i] = scored[E]{entity: entity, fitness: f}
		totalFitness += f
		if f > 0 {
			positive[entity] = struct{}{}
		}
	}

	if totalFitness == 0 {
		return nil, evoerrors.NewDegenerateDistributionError("evolution", "FitnessProportionalSelection", "total fitness is zero")
	}
	if math.IsNaN(totalFitness) || math.IsInf(totalFitness, 0) || totalFitness < 0 {
		return nil, evoerrors.NewDegenerateDistributionError("evolution", "FitnessProportionalSelection", "total fitness must be finite and positive").
			WithContext("total", totalFitness)
	}
	if len(positive) < 2 {
		return nil, evoerrors.NewDegenerateDistributionError("evolution", "FitnessProportionalSelection", "need two distinct entities with positive fitness to form a pair").
			WithContext("positive", len(positive))
	}

	draw := func() E {
		for {
			candidate := candidates[rng.IntN(size)]
			if rng.Float64() < candidate.fitness/totalFitness {
				return candidate.entity
			}
		}
	}

	next := make([]E, size)
	for i := range next {
		first := draw()
		second := draw()
		for second == first {
			second = draw()
		}

		child, err := first.ReproduceWith(second, rng)
		if err != nil {
			return nil, err
		}
		next[i] = child
	}

	return next, nil
}

// rank scores every entity once and sorts best first, keeping input order
// between equal scores.
func rank[E any](population []E, fitness FitnessFunc[E], ordering Ordering) []scored[E] {
	ranked := make([]scored[E], len(population))
	for i, entity := range population {
		ranked[i] = scored[E]{entity: entity, fitness: fitness(entity)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ordering.Better(ranked[i].fitness, ranked[j].fitness)
	})
	return ranked
}
