package reporting

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// createFile opens a report file for writing
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// SnapshotWriter dumps populations to text files, one file per generation
type SnapshotWriter struct {
	dir string
}

// NewSnapshotWriter creates a writer for dir. The directory is created on
// the first write.
func NewSnapshotWriter(dir string) *SnapshotWriter {
	return &SnapshotWriter{dir: dir}
}

// Dir returns the snapshot directory
func (w *SnapshotWriter) Dir() string {
	return w.dir
}

// SnapshotPath returns the file a generation is written to
func (w *SnapshotWriter) SnapshotPath(generation int) string {
	return filepath.Join(w.dir, fmt.Sprintf("generation_%05d.txt", generation))
}

// WriteSnapshot writes one "score<TAB>genome" line per entity, in the order
// given. Callers pass entities ranked best first.
func (w *SnapshotWriter) WriteSnapshot(generation int, entities []EntityRecord) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory %s: %w", w.dir, err)
	}

	path := w.SnapshotPath(generation)
	f, err := createFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}

	buf := bufio.NewWriter(f)
	for _, e := range entities {
		buf.WriteString(strconv.FormatFloat(e.Score, 'g', -1, 64))
		buf.WriteByte('\t')
		buf.WriteString(e.Genome)
		buf.WriteByte('\n')
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close snapshot %s: %w", path, err)
	}

	return path, nil
}
