package exporter

import (
	"log/slog"
	"os"
	"path/filepath"

	apperrors "insarmap/internal/errors"
)

// Writer writes export files below an optional base directory.
type Writer struct {
	baseDir string
	logger  *slog.Logger
}

// NewWriter creates a writer. An empty baseDir resolves relative paths
// against the working directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, logger: slog.Default()}
}

// WithLogger returns a copy of w that logs to logger.
func (w *Writer) WithLogger(logger *slog.Logger) *Writer {
	cp := *w
	if logger != nil {
		cp.logger = logger
	}
	return &cp
}

// ResolvePath returns the path a file would be written to.
func (w *Writer) ResolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}

// create opens fullPath for writing, creating its directory first.
func (w *Writer) create(fullPath string) (*os.File, error) {
	if dir := filepath.Dir(fullPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.NewWriteError(fullPath, err)
		}
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, apperrors.NewWriteError(fullPath, err)
	}
	return file, nil
}

// WriteFile writes data to an already resolved path.
func (w *Writer) WriteFile(fullPath string, data []byte) error {
	file, err := w.create(fullPath)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return apperrors.NewWriteError(fullPath, err)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewWriteError(fullPath, err)
	}
	return nil
}
