package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "insarmap/internal/errors"
)

const (
	// DefaultSheet is the worksheet holding the target records.
	DefaultSheet = "insarTargets"
	// DefaultHeaderRow is the 1-based sheet row promoted to the header. The
	// target database carries a nominal header in row 1 that is discarded.
	DefaultHeaderRow = 2
)

// TargetColumns are the columns the mapper always works with.
var TargetColumns = []string{
	"instrClass", "owner", "siteId", "countryCode", "insarStart", "insarEnd",
	"lookDir", "latitude", "longitude", "refFrame", "valid", "satSys",
}

// LoadOptions controls how a workbook is turned into a Table.
type LoadOptions struct {
	Sheet     string
	HeaderRow int
	Logger    *slog.Logger
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Sheet == "" {
		o.Sheet = DefaultSheet
	}
	if o.HeaderRow < 1 {
		o.HeaderRow = DefaultHeaderRow
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// LoadTargets reads the target sheet of an Excel workbook into a Table and,
// when columns is non-empty, projects it onto exactly those columns.
func LoadTargets(filePath string, columns []string, opts LoadOptions) (*Table, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	logger.Info("Reading InSAR database",
		slog.String("file", filePath),
		slog.String("sheet", opts.Sheet))

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewFileReadError(filePath, err)
	}
	defer f.Close()

	rows, kinds, err := readSheet(f, opts.Sheet)
	if err != nil {
		return nil, apperrors.NewFileReadError(filePath, err).WithContext("sheet", opts.Sheet)
	}

	table, err := tableFromRows(rows, kinds, opts.HeaderRow)
	if err != nil {
		return nil, apperrors.NewFileReadError(filePath, err).WithContext("sheet", opts.Sheet)
	}

	if len(columns) > 0 {
		table, err = table.Select(columns)
		if err != nil {
			return nil, err
		}
		logger.Info("Selected columns", slog.Int("count", len(columns)))
	}

	logger.Info("Data loaded",
		slog.Int("records", table.Len()),
		slog.Int("columns", len(table.Columns())))

	return table, nil
}

// readSheet returns the stored cell values of sheet, unaffected by number
// formats, together with each cell's storage kind. Boolean cells are
// rewritten from their stored 1/0 to TRUE/FALSE.
func readSheet(f *excelize.File, sheet string) ([][]string, [][]CellKind, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, err
	}

	kinds := make([][]CellKind, len(rows))
	for i, row := range rows {
		kinds[i] = make([]CellKind, len(row))
		for j, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, nil, err
			}
			cellType, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, nil, err
			}
			switch cellType {
			case excelize.CellTypeBool:
				kinds[i][j] = KindBool
				if ParseBool(value) {
					row[j] = "TRUE"
				} else {
					row[j] = "FALSE"
				}
			case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
				kinds[i][j] = KindString
			}
		}
	}
	return rows, kinds, nil
}

// tableFromRows promotes sheet row headerRow (1-based) to the header and keeps
// every non-empty row after it as data. Rows above the header are dropped.
// kinds may be nil when the storage kinds are unknown.
func tableFromRows(rows [][]string, kinds [][]CellKind, headerRow int) (*Table, error) {
	if len(rows) < headerRow {
		return nil, fmt.Errorf("sheet has %d rows, header expected on row %d", len(rows), headerRow)
	}

	header := make([]string, len(rows[headerRow-1]))
	for i, h := range rows[headerRow-1] {
		header[i] = strings.TrimSpace(h)
	}

	data := make([]Row, 0, len(rows)-headerRow)
	var dataKinds [][]CellKind
	for i := headerRow; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		data = append(data, Row(rows[i]))
		if i < len(kinds) {
			dataKinds = append(dataKinds, kinds[i])
		} else {
			dataKinds = append(dataKinds, nil)
		}
	}
	if kinds == nil {
		return NewTable(header, data), nil
	}
	return newTypedTable(header, data, dataKinds), nil
}

func isBlank(r []string) bool {
	for _, cell := range r {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
