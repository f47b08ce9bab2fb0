package experiment

import (
	"fmt"
	"math/rand/v2"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
	"github.com/ducminhle1904/evolvers/pkg/evolution"
	"github.com/ducminhle1904/evolvers/pkg/reporting"
)

// Strategy names a selection strategy
type Strategy string

const (
	StrategyTruncation   Strategy = "truncation"
	StrategyProportional Strategy = "proportional"
)

// ParseStrategy maps a configuration value to a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyTruncation, StrategyProportional:
		return Strategy(s), nil
	}
	return "", evoerrors.NewConfigurationError("experiment", "ParseStrategy", "unknown selection strategy").
		WithContext("strategy", s)
}

// Logger receives run progress. *logger.Logger satisfies it.
type Logger interface {
	LogGeneration(generation int, best, mean, stddev float64, mutations int)
	LogConvergence(converged bool, generations int, mean float64)
	LogError(context string, err error)
}

// ProgressTracker receives run progress for health reporting.
// *monitoring.HealthChecker satisfies it.
type ProgressTracker interface {
	UpdateGeneration(generation int, best, mean float64)
	Finish(converged bool)
	RecordError(err error)
}

// ConvergenceFunc reports whether a generation is good enough to stop
type ConvergenceFunc func(evolution.Stats) bool

// MeanBelow converges once mean fitness drops under threshold.
func MeanBelow(threshold float64) ConvergenceFunc {
	return func(s evolution.Stats) bool { return s.Mean < threshold }
}

// MeanAbove converges once mean fitness rises over threshold.
func MeanAbove(threshold float64) ConvergenceFunc {
	return func(s evolution.Stats) bool { return s.Mean > threshold }
}

// GenerationHook is called after every generation is evaluated
type GenerationHook[E any] func(generation int, eval *evolution.Evaluation[E], mutations evolution.MutationReport)

// Options configures a Runner
type Options[E, G any] struct {
	Name     string
	Strategy Strategy
	Fitness  evolution.FitnessFunc[E]
	Ordering evolution.Ordering

	// TruncationRatio is only used by StrategyTruncation. Zero means 2.
	TruncationRatio int
	// MaxDerangeAttempts caps survivor pairing. Zero means no cap.
	MaxDerangeAttempts int

	// Mutation is skipped entirely when MutationRate is zero.
	MutationRate float64
	Mutation     evolution.MutationFunc[G]

	MaxGenerations int
	Converged      ConvergenceFunc

	// SnapshotEvery dumps every Nth generation and the last one. Zero
	// disables snapshots.
	SnapshotEvery int
	Snapshots     *reporting.SnapshotWriter
	// Format renders an entity for snapshots and reports. Defaults to fmt.Sprint.
	Format func(E) string

	Logger   Logger
	Progress ProgressTracker
	Hooks    []GenerationHook[E]
}

func (o *Options[E, G]) validate() error {
	fail := func(message string) error {
		return evoerrors.NewInvalidInputError("experiment", "NewRunner", message)
	}

	if o.Fitness == nil {
		return fail("fitness function is required")
	}
	if o.MaxGenerations < 1 {
		return fail("at least one generation is required")
	}
	if o.MutationRate != 0 && o.Mutation == nil {
		return fail("mutation function is required when mutation rate is set")
	}
	if o.SnapshotEvery < 0 {
		return fail("snapshot interval must not be negative")
	}
	if o.SnapshotEvery > 0 && o.Snapshots == nil {
		return fail("snapshot writer is required when snapshots are enabled")
	}
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	return nil
}

func (o *Options[E, G]) applyDefaults() {
	if o.Name == "" {
		o.Name = "experiment"
	}
	if o.Format == nil {
		o.Format = func(e E) string { return fmt.Sprint(e) }
	}
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
	if o.Converged == nil {
		o.Converged = func(evolution.Stats) bool { return false }
	}
}

type nopLogger struct{}

func (nopLogger) LogGeneration(int, float64, float64, float64, int) {}
func (nopLogger) LogConvergence(bool, int, float64)                 {}
func (nopLogger) LogError(string, error)                            {}

// NewRNG returns a PCG-backed generator for seed. A zero seed is replaced by
// a random one; the seed actually used is returned so the run can be repeated.
func NewRNG(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed
}
