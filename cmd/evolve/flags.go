package main

import (
	"flag"
	"io"

	"github.com/ducminhle1904/evolvers/internal/config"
)

// Flags holds all command-line flag values
type Flags struct {
	EnvFile     *string
	Strategy    *string
	Generations *int
	Population  *int
	Rate        *float64
	Mutation    *string
	Ratio       *int
	Seed        *uint64
	Runs        *int
	Workers     *int
	Snapshots   *int
	Excel       *bool
	MetricsPort *int
	Verbose     *bool
	Version     *bool

	set map[string]bool
}

// ParseFlags defines and parses command-line flags from args
func ParseFlags(args []string, output io.Writer) (*Flags, error) {
	fs := flag.NewFlagSet("evolve", flag.ContinueOnError)
	fs.SetOutput(output)

	flags := &Flags{
		EnvFile:     fs.String("env", ".env", "Path to environment file"),
		Strategy:    fs.String("strategy", "", "Selection strategy: truncation or proportional (overrides STRATEGY)"),
		Generations: fs.Int("generations", 0, "Maximum number of generations (overrides MAX_GENERATIONS)"),
		Population:  fs.Int("population", 0, "Population size (overrides POPULATION_SIZE)"),
		Rate:        fs.Float64("rate", 0, "Per-entity mutation rate in [0, 1] (overrides MUTATION_RATE)"),
		Mutation:    fs.String("mutation", "", "Gene mutation: step or reset (overrides MUTATION)"),
		Ratio:       fs.Int("ratio", 0, "Truncation ratio (overrides TRUNCATION_RATIO)"),
		Seed:        fs.Uint64("seed", 0, "Random seed, 0 picks one (overrides SEED)"),
		Runs:        fs.Int("runs", 0, "Repeat the experiment with consecutive seeds (overrides RUNS)"),
		Workers:     fs.Int("workers", 0, "Parallel workers for -runs, 0 uses every CPU (overrides WORKERS)"),
		Snapshots:   fs.Int("snapshots", 0, "Dump the population every N generations, 0 disables (overrides SNAPSHOT_EVERY)"),
		Excel:       fs.Bool("excel", false, "Write an Excel report of the run (overrides EXCEL_REPORT)"),
		MetricsPort: fs.Int("metrics-port", 0, "Serve /metrics and /health on this port, 0 disables (overrides PROMETHEUS_PORT)"),
		Verbose:     fs.Bool("verbose", false, "Log every generation (sets LOG_LEVEL=debug)"),
		Version:     fs.Bool("version", false, "Show version and exit"),
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	flags.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		flags.set[f.Name] = true
	})
	return flags, nil
}

// IsSet reports whether a flag was given on the command line
func (f *Flags) IsSet(name string) bool {
	return f.set[name]
}

// ApplyTo overrides configuration values with flags given on the command line
func (f *Flags) ApplyTo(cfg *config.Config) {
	if f.IsSet("strategy") {
		cfg.Evolution.Strategy = *f.Strategy
	}
	if f.IsSet("generations") {
		cfg.Evolution.MaxGenerations = *f.Generations
	}
	if f.IsSet("population") {
		cfg.Evolution.PopulationSize = *f.Population
	}
	if f.IsSet("rate") {
		cfg.Evolution.MutationRate = *f.Rate
	}
	if f.IsSet("mutation") {
		cfg.Evolution.Mutation = *f.Mutation
	}
	if f.IsSet("ratio") {
		cfg.Evolution.TruncationRatio = *f.Ratio
	}
	if f.IsSet("seed") {
		cfg.Evolution.Seed = *f.Seed
	}
	if f.IsSet("runs") {
		cfg.Evolution.Runs = *f.Runs
	}
	if f.IsSet("workers") {
		cfg.Evolution.Workers = *f.Workers
	}
	if f.IsSet("snapshots") {
		cfg.Output.SnapshotEvery = *f.Snapshots
	}
	if f.IsSet("excel") {
		cfg.Output.ExcelReport = *f.Excel
	}
	if f.IsSet("metrics-port") {
		cfg.Monitoring.PrometheusPort = *f.MetricsPort
	}
	if *f.Verbose {
		cfg.LogLevel = "debug"
	}
}

// Validate checks flag combinations the configuration cannot see
func (f *Flags) Validate() error {
	if f.IsSet("env") && *f.EnvFile == "" {
		return &ValidationError{
			Field:   "env",
			Message: "env file path must not be empty",
		}
	}
	return nil
}

// ValidationError represents a flag validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
