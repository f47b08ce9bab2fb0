package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns results/<experiment>_<strategy>
func (p *DefaultPathManager) GetDefaultOutputDir(experiment, strategy string) string {
	e := sanitize(experiment)
	s := strings.ToLower(strings.TrimSpace(strategy))
	if e == "" {
		e = "experiment"
	}
	if s == "" {
		s = "unknown"
	}

	return filepath.Join("results", fmt.Sprintf("%s_%s", e, s))
}

// EnsureDirectoryExists creates the parent directory of path
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func sanitize(name string) string {
	name = strings.TrimSpace(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, name)
}

// Package-level convenience function
func DefaultOutputDir(experiment, strategy string) string {
	return NewDefaultPathManager().GetDefaultOutputDir(experiment, strategy)
}
