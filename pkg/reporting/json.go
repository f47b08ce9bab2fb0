package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FormatSummary formats a run summary as indented JSON
func FormatSummary(summary RunSummary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}

// WriteSummaryJSON writes a run summary to a JSON file
func WriteSummaryJSON(summary RunSummary, path string) error {
	data, err := FormatSummary(summary)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}
