package reporting

import (
	"time"
)

// Package reporting provides output generation for evolution runs

// GenerationRecord is the fitness summary of one generation
type GenerationRecord struct {
	Generation int     `json:"generation"`
	Best       float64 `json:"best"`
	Worst      float64 `json:"worst"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"stddev"`
	Mutations  int     `json:"mutations"`
}

// EntityRecord is one scored entity of a population, rendered as text
type EntityRecord struct {
	Rank   int     `json:"rank"`
	Score  float64 `json:"score"`
	Genome string  `json:"genome"`
}

// RunSummary describes a finished run
type RunSummary struct {
	Experiment     string           `json:"experiment"`
	Strategy       string           `json:"strategy"`
	Ordering       string           `json:"ordering"`
	PopulationSize int              `json:"population_size"`
	MaxGenerations int              `json:"max_generations"`
	MutationRate   float64          `json:"mutation_rate"`
	Seed           uint64           `json:"seed"`
	Generations    int              `json:"generations"`
	Converged      bool             `json:"converged"`
	Final          GenerationRecord `json:"final"`
	BestGenome     string           `json:"best_genome"`
	Duration       time.Duration    `json:"duration"`
}

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	PrintConfig(title string, rows [][2]string)
	PrintSummary(summary RunSummary)
	PrintTopEntities(entities []EntityRecord, limit int)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteHistoryCSV(history []GenerationRecord, path string) error
	WriteRunXLSX(summary RunSummary, history []GenerationRecord, population []EntityRecord, path string) error
	WriteSummaryJSON(summary RunSummary, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(experiment, strategy string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	BaseStyle    int
	NumberStyle  int
	BestStyle    int
	SummaryStyle int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	EnableFiles     bool
	OutputDirectory string
	ExcelEnabled    bool
	CSVEnabled      bool
	JSONEnabled     bool
}
