package experiment

import (
	"context"
	"math/rand/v2"
	"time"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
	"github.com/ducminhle1904/evolvers/internal/monitoring"
	"github.com/ducminhle1904/evolvers/pkg/evolution"
	"github.com/ducminhle1904/evolvers/pkg/reporting"
)

// Runner drives a population through generations of selection and mutation
type Runner[E evolution.EvolvingEntity[E, G], G any] struct {
	opts Options[E, G]
	rng  *rand.Rand
}

// Result is the outcome of Run
type Result[E any] struct {
	Population  []E
	Evaluation  *evolution.Evaluation[E]
	Generations int
	Converged   bool
	Initial     evolution.Stats
	Final       evolution.Stats
	History     []reporting.GenerationRecord
	Snapshots   []string
	Duration    time.Duration
}

// NewRunner validates opts and binds them to rng
func NewRunner[E evolution.EvolvingEntity[E, G], G any](opts Options[E, G], rng *rand.Rand) (*Runner[E, G], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, evoerrors.NewInvalidInputError("experiment", "NewRunner", "random source is required")
	}
	opts.applyDefaults()
	return &Runner[E, G]{opts: opts, rng: rng}, nil
}

// Run breeds generations from population until the convergence predicate
// holds or MaxGenerations is reached.
//
// Each generation is selected, mutated and evaluated once; metrics, logs,
// progress and snapshots are updated from that evaluation. An error from
// selection or mutation stops the run and is returned with the partial
// result. A failed snapshot is logged and the run continues. A cancelled
// context stops the run between generations.
func (r *Runner[E, G]) Run(ctx context.Context, population []E) (*Result[E], error) {
	opts := r.opts
	start := time.Now()

	eval := evolution.Evaluate(population, opts.Fitness, opts.Ordering)
	result := &Result[E]{
		Population: population,
		Evaluation: eval,
		Initial:    eval.Stats(),
	}
	result.Final = result.Initial

	for gen := 1; gen <= opts.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		next, report, err := r.step(result.Population)
		if err != nil {
			r.fail(err)
			result.Duration = time.Since(start)
			return result, err
		}

		eval = evolution.Evaluate(next, opts.Fitness, opts.Ordering)
		stats := eval.Stats()

		result.Population = next
		result.Evaluation = eval
		result.Generations = gen
		result.Final = stats
		result.History = append(result.History, reporting.GenerationRecord{
			Generation: gen,
			Best:       stats.Best,
			Worst:      stats.Worst,
			Mean:       stats.Mean,
			StdDev:     stats.StdDev,
			Mutations:  report.Count,
		})

		monitoring.RecordGeneration(string(opts.Strategy), report.Count)
		monitoring.UpdateFitness(opts.Name, stats.Best, stats.Mean)
		opts.Logger.LogGeneration(gen, stats.Best, stats.Mean, stats.StdDev, report.Count)
		if opts.Progress != nil {
			opts.Progress.UpdateGeneration(gen, stats.Best, stats.Mean)
		}
		for _, hook := range opts.Hooks {
			hook(gen, eval, report)
		}

		result.Converged = opts.Converged(stats)
		last := result.Converged || gen == opts.MaxGenerations
		if opts.SnapshotEvery > 0 && (gen%opts.SnapshotEvery == 0 || last) {
			r.snapshot(gen, eval, result)
		}
		if result.Converged {
			break
		}
	}

	opts.Logger.LogConvergence(result.Converged, result.Generations, result.Final.Mean)
	if opts.Progress != nil {
		opts.Progress.Finish(result.Converged)
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner[E, G]) step(population []E) ([]E, evolution.MutationReport, error) {
	opts := r.opts

	var next []E
	var err error
	switch opts.Strategy {
	case StrategyProportional:
		next, err = evolution.FitnessProportionalSelection(population, opts.Fitness, r.rng)
	default:
		next, err = evolution.TruncationSelection(population, opts.Fitness, evolution.TruncationOptions{
			Ratio:              opts.TruncationRatio,
			Ordering:           opts.Ordering,
			MaxDerangeAttempts: opts.MaxDerangeAttempts,
		}, r.rng)
	}
	if err != nil {
		return nil, evolution.MutationReport{}, err
	}

	if opts.MutationRate == 0 {
		return next, evolution.MutationReport{}, nil
	}
	return evolution.MutatePopulation(next, opts.MutationRate, opts.Mutation, r.rng)
}

func (r *Runner[E, G]) snapshot(gen int, eval *evolution.Evaluation[E], result *Result[E]) {
	path, err := r.opts.Snapshots.WriteSnapshot(gen, EntityRecords(eval, r.opts.Format))
	if err != nil {
		ioErr := evoerrors.NewIOError("experiment", "WriteSnapshot", err).WithContext("generation", gen)
		r.opts.Logger.LogError("snapshot", ioErr)
		monitoring.RecordError(string(ioErr.Category))
		return
	}
	result.Snapshots = append(result.Snapshots, path)
}

func (r *Runner[E, G]) fail(err error) {
	r.opts.Logger.LogError("generation", err)
	monitoring.RecordError(string(evoerrors.CategoryOf(err)))
	if r.opts.Progress != nil {
		r.opts.Progress.RecordError(err)
	}
}

// EntityRecords renders an evaluated population ranked best first
func EntityRecords[E any](eval *evolution.Evaluation[E], format func(E) string) []reporting.EntityRecord {
	ranked := eval.Ranked()
	records := make([]reporting.EntityRecord, len(ranked))
	for i, slot := range ranked {
		records[i] = reporting.EntityRecord{
			Rank:   i + 1,
			Score:  eval.Scores[slot],
			Genome: format(eval.Entities[slot]),
		}
	}
	return records
}

// Summary describes the run for reporting
func (r *Runner[E, G]) Summary(result *Result[E], seed uint64) reporting.RunSummary {
	summary := reporting.RunSummary{
		Experiment:     r.opts.Name,
		Strategy:       string(r.opts.Strategy),
		Ordering:       r.opts.Ordering.String(),
		PopulationSize: len(result.Population),
		MaxGenerations: r.opts.MaxGenerations,
		MutationRate:   r.opts.MutationRate,
		Seed:           seed,
		Generations:    result.Generations,
		Converged:      result.Converged,
		Duration:       result.Duration,
	}
	if n := len(result.History); n > 0 {
		summary.Final = result.History[n-1]
	} else {
		summary.Final = reporting.GenerationRecord{
			Best:   result.Final.Best,
			Worst:  result.Final.Worst,
			Mean:   result.Final.Mean,
			StdDev: result.Final.StdDev,
		}
	}
	if best, _, ok := result.Evaluation.Best(); ok {
		summary.BestGenome = r.opts.Format(best)
	}
	return summary
}

// Format renders an entity with the runner's formatter
func (r *Runner[E, G]) Format(e E) string {
	return r.opts.Format(e)
}
