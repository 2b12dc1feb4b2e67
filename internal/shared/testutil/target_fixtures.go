package testutil

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
)

// TargetHeader is the column layout of the target database sheet.
var TargetHeader = []string{
	"instrClass", "owner", "siteId", "countryCode", "insarStart", "insarEnd",
	"lookDir", "latitude", "longitude", "refFrame", "valid", "satSys",
}

// TargetDescriptions is the nominal first header row the database ships with.
var TargetDescriptions = []string{
	"Instrument class", "Owner", "Site identifier", "Country code", "InSAR start", "InSAR end",
	"Look direction", "Latitude [deg]", "Longitude [deg]", "Reference frame", "Valid", "Satellite systems",
}

// SampleTargets returns a small, mixed set of target records aligned to TargetHeader.
func SampleTargets() [][]string {
	return [][]string{
		{"CR", "TUD", "HENGELO", "NLD", "20190101", "99999999", "A,D", "52.2659", "6.7931", "ITRF2014", "TRUE", "S1A,RS2"},
		{"CR", "TUD", "DELFT01", "NLD", "20180301", "99999999", "A", "51.9986", "4.3755", "ITRF2014", "TRUE", "All"},
		{"IGRS", "KADASTER", "ZEGVELD", "NLD", "20200615", "99999999", "D", "52.134", "4.8385", "ETRF2000", "TRUE", "S1A"},
		{"TR", "NGI", "OOSTENDE", "BEL", "20170101", "20211231", "A", "51.23", "2.92", "ITRF2014", "TRUE", "TSX"},
		{"CR123", "ROB", "BRUSSEL", "BEL", "20190501", "99999999", "A,D", "50.8", "4.35", "ITRF2014", "FALSE", "S1B"},
		{"CR", "DLR", "OBERPF", "DEU", "20160101", "99999999", "E", "48.08", "11.28", "ITRF2014", "TRUE", "TSX"},
	}
}

// WriteWorkbook writes rows to sheet of a new workbook in t.TempDir and returns
// its path. Cells that look like booleans or numbers are stored typed, the way
// the real database stores them.
func WriteWorkbook(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = typedCell(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatalf("write row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(t.TempDir(), "InSAR_designated_Target_Database.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// WriteTargetWorkbook writes the database layout: a nominal description row,
// the column key row, then the records.
func WriteTargetWorkbook(t *testing.T, records [][]string) string {
	t.Helper()

	rows := make([][]string, 0, len(records)+2)
	rows = append(rows, TargetDescriptions, TargetHeader)
	rows = append(rows, records...)
	return WriteWorkbook(t, "insarTargets", rows)
}

// WriteStoredTargetWorkbook writes the database layout with records given as
// stored Go values: a string is always a text cell, even "0042". Every float
// cell is shown through the built-in number format numFmt (e.g. 2 for "0.00"),
// so its display text differs from the stored value.
func WriteStoredTargetWorkbook(t *testing.T, records [][]interface{}, numFmt int) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "insarTargets"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
	if err != nil {
		t.Fatalf("new style: %v", err)
	}

	rows := make([][]interface{}, 0, len(records)+2)
	for _, header := range [][]string{TargetDescriptions, TargetHeader} {
		row := make([]interface{}, len(header))
		for j, v := range header {
			row[j] = v
		}
		rows = append(rows, row)
	}
	rows = append(rows, records...)

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("write %s: %v", cell, err)
			}
			if _, isFloat := v.(float64); isFloat {
				if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
					t.Fatalf("style %s: %v", cell, err)
				}
			}
		}
	}

	path := filepath.Join(t.TempDir(), "InSAR_designated_Target_Database.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// StoredTarget is a target record as stored Go values, aligned to TargetHeader.
// Its coordinates carry more decimals than a "0.00" format displays and its
// site identifier is zero-padded text.
func StoredTarget() []interface{} {
	return []interface{}{
		"CR", "TUD", "0042", "NLD", 20190101, 99999999, "A,D",
		52.26591234, 6.79312345, "ITRF2014", true, "S1A",
	}
}

func typedCell(v string) interface{} {
	switch v {
	case "":
		return nil
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
