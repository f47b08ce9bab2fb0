package config

import (
	"os"
	"strconv"
	"strings"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
)

// Selection strategies understood by the experiment driver
const (
	StrategyTruncation   = "truncation"
	StrategyProportional = "proportional"
)

// Gene mutation operators of the sum-target problem
const (
	MutationStep  = "step"
	MutationReset = "reset"
)

// Config holds everything a run needs, read from the environment
type Config struct {
	Environment    string
	LogLevel       string
	ExperimentName string

	Problem    ProblemConfig
	Evolution  EvolutionConfig
	Output     OutputConfig
	Monitoring MonitoringConfig
}

// ProblemConfig describes the sum-target search space
type ProblemConfig struct {
	GenomeLength int
	GeneMin      int
	GeneMax      int
	TargetSum    int
}

// EvolutionConfig controls the generation loop
type EvolutionConfig struct {
	PopulationSize   int
	MaxGenerations   int
	FitnessThreshold float64
	Strategy         string
	TruncationRatio  int
	MutationRate     float64
	Mutation         string
	Seed             uint64
	// Runs > 1 repeats the experiment with seeds Seed, Seed+1, ... on Workers goroutines.
	Runs             int
	Workers          int
}

// OutputConfig controls snapshots and reports
type OutputConfig struct {
	LogDir        string
	ResultsDir    string
	SnapshotDir   string
	SnapshotEvery int
	ExcelReport   bool
}

type MonitoringConfig struct {
	PrometheusPort int
}

// Load reads the configuration from environment variables, falling back to
// the defaults of the 170-sum demonstration.
func Load() *Config {
	return &Config{
		Environment:    getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ExperimentName: getEnv("EXPERIMENT_NAME", "sum170"),

		Problem: ProblemConfig{
			GenomeLength: getEnvInt("GENOME_LENGTH", 10),
			GeneMin:      getEnvInt("GENE_MIN", 0),
			GeneMax:      getEnvInt("GENE_MAX", 50),
			TargetSum:    getEnvInt("TARGET_SUM", 170),
		},

		Evolution: EvolutionConfig{
			PopulationSize:   getEnvInt("POPULATION_SIZE", 100),
			MaxGenerations:   getEnvInt("MAX_GENERATIONS", 1000),
			FitnessThreshold: getEnvFloat("FITNESS_THRESHOLD", 1),
			Strategy:         strings.ToLower(getEnv("STRATEGY", StrategyTruncation)),
			TruncationRatio:  getEnvInt("TRUNCATION_RATIO", 2),
			MutationRate:     getEnvFloat("MUTATION_RATE", 0),
			Mutation:         strings.ToLower(getEnv("MUTATION", MutationStep)),
			Seed:             getEnvUint("SEED", 0),
			Runs:             getEnvInt("RUNS", 1),
			Workers:          getEnvInt("WORKERS", 0),
		},

		Output: OutputConfig{
			LogDir:        getEnv("LOG_DIR", "logs"),
			ResultsDir:    getEnv("RESULTS_DIR", ""),
			SnapshotDir:   getEnv("SNAPSHOT_DIR", ""),
			SnapshotEvery: getEnvInt("SNAPSHOT_EVERY", 0),
			ExcelReport:   getEnvBool("EXCEL_REPORT", false),
		},

		Monitoring: MonitoringConfig{
			PrometheusPort: getEnvInt("PROMETHEUS_PORT", 0),
		},
	}
}

// Validate checks the values Load produced, after any flag overrides.
func (c *Config) Validate() error {
	fail := func(field, message string, value interface{}) error {
		return evoerrors.NewConfigurationError("config", "Validate", message).
			WithContext("field", field).
			WithContext("value", value)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fail("LOG_LEVEL", "log level must be debug, info, warn or error", c.LogLevel)
	}
	if strings.TrimSpace(c.ExperimentName) == "" {
		return fail("EXPERIMENT_NAME", "experiment name is required", c.ExperimentName)
	}

	if c.Problem.GenomeLength < 2 {
		return fail("GENOME_LENGTH", "genomes need at least 2 genes to reproduce", c.Problem.GenomeLength)
	}
	if c.Problem.GeneMin > c.Problem.GeneMax {
		return fail("GENE_MIN", "gene minimum exceeds gene maximum", c.Problem.GeneMin)
	}

	e := c.Evolution
	if e.PopulationSize < 2 {
		return fail("POPULATION_SIZE", "population must hold at least 2 entities", e.PopulationSize)
	}
	if e.MaxGenerations < 1 {
		return fail("MAX_GENERATIONS", "at least one generation is required", e.MaxGenerations)
	}
	if e.FitnessThreshold < 0 {
		return fail("FITNESS_THRESHOLD", "fitness threshold must not be negative", e.FitnessThreshold)
	}
	switch e.Strategy {
	case StrategyTruncation:
		if e.TruncationRatio < 2 || e.TruncationRatio > e.PopulationSize {
			return fail("TRUNCATION_RATIO", "truncation ratio must be in [2, population size]", e.TruncationRatio)
		}
	case StrategyProportional:
	default:
		return fail("STRATEGY", "strategy must be truncation or proportional", e.Strategy)
	}
	if e.MutationRate < 0 || e.MutationRate > 1 {
		return fail("MUTATION_RATE", "mutation rate must be in [0, 1]", e.MutationRate)
	}
	switch e.Mutation {
	case MutationStep, MutationReset:
	default:
		return fail("MUTATION", "mutation must be step or reset", e.Mutation)
	}
	if e.Runs < 1 {
		return fail("RUNS", "at least one run is required", e.Runs)
	}
	if e.Workers < 0 {
		return fail("WORKERS", "worker count must not be negative", e.Workers)
	}

	if c.Output.SnapshotEvery < 0 {
		return fail("SNAPSHOT_EVERY", "snapshot interval must not be negative", c.Output.SnapshotEvery)
	}
	if c.Monitoring.PrometheusPort < 0 || c.Monitoring.PrometheusPort > 65535 {
		return fail("PROMETHEUS_PORT", "port out of range", c.Monitoring.PrometheusPort)
	}
	return nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvUint(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
