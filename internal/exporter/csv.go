package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"

	"insarmap/internal/dataprocessing"
	apperrors "insarmap/internal/errors"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to a CSV file, replacing any existing file.
func (w *Writer) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.ResolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	file, err := w.create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewWriteError(fullPath, fmt.Errorf("failed to write BOM: %w", err))
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewWriteError(fullPath, fmt.Errorf("failed to write headers: %w", err))
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewWriteError(fullPath, fmt.Errorf("failed to write record %d: %w", i, err))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewWriteError(fullPath, err)
	}
	return file.Close()
}

// WriteTableCSV writes t with its header row and no index column.
func (w *Writer) WriteTableCSV(filePath string, t *dataprocessing.Table, bom bool) error {
	rows := t.Rows()
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string(r)
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   t.Columns(),
		Records:   records,
		BOMPrefix: bom,
	})
}
