package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CSVExporter appends rows to a local file. Writes are serialized so the
// worker can fan out handlers later without corrupting the file.
type CSVExporter struct {
	mu   sync.Mutex
	path string
}

func NewCSVExporter(path string) (*CSVExporter, error) {
	if path == "" {
		return nil, fmt.Errorf("csv export path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
	}
	return &CSVExporter{path: path}, nil
}

func (e *CSVExporter) Export(ctx context.Context, row Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row.values()); err != nil {
		return fmt.Errorf("write export row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export row: %w", err)
	}
	return nil
}
