// Package validation checks input and output paths before a run touches them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "insarmap/internal/errors"
)

// ExcelExtensions are the workbook formats the loader can open.
var ExcelExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

// FileValidator provides file validation for the CLI
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewFileReadError(path, fmt.Errorf("file %s does not exist", path))
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewFileReadError(path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewFileReadError(path, fmt.Errorf("%s is a directory, not a file", path))
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewFileReadError(path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks if a file is a workbook the loader can open
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range ExcelExtensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		v.logger.Error("File is not an Excel workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewFileReadError(path,
			fmt.Errorf("unsupported extension %q (want one of %s)", ext, strings.Join(ExcelExtensions, ", ")))
	}

	// Check it's not an Office lock file
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return apperrors.NewFileReadError(path, fmt.Errorf("%s is a temporary Excel file", path))
	}

	return nil
}

// ValidateOutputDirectory checks that dir could hold output files. Missing
// directories are not created here: the nearest existing ancestor must be a
// writable directory, and the writers create the rest when they write.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if dir == "" {
		dir = "."
	}
	existing, err := nearestExisting(dir)
	if err != nil {
		v.logger.Error("Output directory is not usable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewWriteError(dir, err)
	}

	// Verify it's writable by creating a scratch file
	file, err := os.CreateTemp(existing, ".insarmap_write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("writable_parent", existing),
			slog.String("error", err.Error()))
		return apperrors.NewWriteError(dir, err)
	}
	name := file.Name()
	file.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir),
		slog.String("writable_parent", existing))
	return nil
}

// nearestExisting walks up from dir to the first path that exists and
// returns it. It fails when that path is not a directory.
func nearestExisting(dir string) (string, error) {
	current := filepath.Clean(dir)
	for {
		info, err := os.Stat(current)
		switch {
		case err == nil && info.IsDir():
			return current, nil
		case err == nil:
			return "", fmt.Errorf("%s is not a directory", current)
		case !os.IsNotExist(err):
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing parent for %s", dir)
		}
		current = parent
	}
}

// ValidateOutputPath checks that path could be written: its directory is
// writable and path itself is not a directory. An empty path is skipped.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if path == "" {
		return nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory",
			slog.String("path", path))
		return apperrors.NewWriteError(path, fmt.Errorf("%s is a directory", path))
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}
