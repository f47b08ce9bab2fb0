package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// WriteHistoryCSV writes one row per generation
func (r *DefaultCSVReporter) WriteHistoryCSV(history []GenerationRecord, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{"Generation", "Best", "Worst", "Mean", "StdDev", "Mutations"}); err != nil {
		f.Close()
		return err
	}
	for _, rec := range history {
		row := []string{
			strconv.Itoa(rec.Generation),
			strconv.FormatFloat(rec.Best, 'f', 6, 64),
			strconv.FormatFloat(rec.Worst, 'f', 6, 64),
			strconv.FormatFloat(rec.Mean, 'f', 6, 64),
			strconv.FormatFloat(rec.StdDev, 'f', 6, 64),
			strconv.Itoa(rec.Mutations),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write generation %d: %w", rec.Generation, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
