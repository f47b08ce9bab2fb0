package reporting

import (
	"path/filepath"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter() *DefaultReporter {
	return NewReporterWithConsole(NewDefaultConsoleReporter())
}

// NewReporterWithConsole creates a reporter around a given console reporter
func NewReporterWithConsole(console *DefaultConsoleReporter) *DefaultReporter {
	return &DefaultReporter{
		console: console,
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		paths:   NewDefaultPathManager(),
	}
}

// Console output methods
func (r *DefaultReporter) PrintConfig(title string, rows [][2]string) {
	r.console.PrintConfig(title, rows)
}

func (r *DefaultReporter) PrintSummary(summary RunSummary) {
	r.console.PrintSummary(summary)
}

func (r *DefaultReporter) PrintTopEntities(entities []EntityRecord, limit int) {
	r.console.PrintTopEntities(entities, limit)
}

// File output methods
func (r *DefaultReporter) WriteHistoryCSV(history []GenerationRecord, path string) error {
	return r.csv.WriteHistoryCSV(history, path)
}

func (r *DefaultReporter) WriteRunXLSX(summary RunSummary, history []GenerationRecord, population []EntityRecord, path string) error {
	return r.excel.WriteRunXLSX(summary, history, population, path)
}

func (r *DefaultReporter) WriteSummaryJSON(summary RunSummary, path string) error {
	return WriteSummaryJSON(summary, path)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(experiment, strategy string) string {
	return r.paths.GetDefaultOutputDir(experiment, strategy)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	reporter Reporter
	config   ReportingConfig
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig) *ReportingManager {
	return NewReportingManagerWith(NewDefaultReporter(), config)
}

// NewReportingManagerWith creates a reporting manager around reporter
func NewReportingManagerWith(reporter Reporter, config ReportingConfig) *ReportingManager {
	return &ReportingManager{
		reporter: reporter,
		config:   config,
	}
}

// OutputDir returns the configured output directory, or the default for the run
func (m *ReportingManager) OutputDir(summary RunSummary) string {
	if m.config.OutputDirectory != "" {
		return m.config.OutputDirectory
	}
	return m.reporter.GetDefaultOutputDir(summary.Experiment, summary.Strategy)
}

// ReportRun outputs a finished run according to configuration and returns
// the files written.
func (m *ReportingManager) ReportRun(summary RunSummary, history []GenerationRecord, population []EntityRecord) ([]string, error) {
	if m.config.EnableConsole {
		m.reporter.PrintSummary(summary)
		m.reporter.PrintTopEntities(population, 10)
	}

	if !m.config.EnableFiles {
		return nil, nil
	}

	outputDir := m.OutputDir(summary)
	var written []string

	if m.config.CSVEnabled {
		csvPath := filepath.Join(outputDir, "history.csv")
		if err := m.reporter.WriteHistoryCSV(history, csvPath); err != nil {
			return written, err
		}
		written = append(written, csvPath)
	}

	if m.config.ExcelEnabled {
		xlsxPath := filepath.Join(outputDir, "run.xlsx")
		if err := m.reporter.WriteRunXLSX(summary, history, population, xlsxPath); err != nil {
			return written, err
		}
		written = append(written, xlsxPath)
	}

	if m.config.JSONEnabled {
		jsonPath := filepath.Join(outputDir, "summary.json")
		if err := m.reporter.WriteSummaryJSON(summary, jsonPath); err != nil {
			return written, err
		}
		written = append(written, jsonPath)
	}

	return written, nil
}
