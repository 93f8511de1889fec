package sink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	coresink "github.com/kilianp07/bikecast/core/sink"
	"github.com/kilianp07/bikecast/infra/logger"
	"github.com/kilianp07/bikecast/pkg/export"
)

// FileSink writes the dataset to a local file in one of the export formats.
type FileSink struct {
	path   string
	format string
	log    logger.Logger
}

// NewFileSink creates a FileSink. An empty format is derived from the path.
func NewFileSink(path, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("file sink: path is required")
	}
	if format == "" {
		format = export.FormatFromPath(path)
	}
	switch format {
	case export.FormatCSV, export.FormatJSONL, export.FormatXLSX:
	default:
		return nil, fmt.Errorf("file sink: unsupported format %s", format)
	}
	return &FileSink{path: path, format: format, log: logger.New("file-sink")}, nil
}

// Path returns the destination file.
func (s *FileSink) Path() string { return s.path }

// WriteBatch creates the parent directory and replaces the file atomically,
// so a failed write never leaves a partial dataset behind.
func (s *FileSink) WriteBatch(_ context.Context, b coresink.Batch) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmp)
	if err := export.Write(w, s.format, b.Rows); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return err
	}
	s.log.Debugw("dataset written", map[string]any{"path": s.path, "format": s.format, "rows": len(b.Rows), "run_id": b.RunID})
	return nil
}

func (s *FileSink) Close() error { return nil }
