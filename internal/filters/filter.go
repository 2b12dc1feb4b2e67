// Package filters provides the row predicates applied to the target table.
// Each filter consumes a table and returns a new, reduced table; none of them
// modify their input.
package filters

import (
	"fmt"

	"insarmap/internal/dataprocessing"
)

// Default column names in the target database.
const (
	ColumnValid      = "valid"
	ColumnCountry    = "countryCode"
	ColumnInsarEnd   = "insarEnd"
	ColumnSatSystem  = "satSys"
	ColumnInstrClass = "instrClass"
	ColumnOwner      = "owner"
	ColumnSite       = "siteId"
	ColumnLookDir    = "lookDir"
)

// ActiveSentinel is the insarEnd value of a target that is still operating.
const ActiveSentinel = 99999999

// Filter reduces a table.
type Filter interface {
	// Name is a short label used in logs and stats, e.g. "Country filter".
	Name() string
	// Describe renders the filter's parameters for logging.
	Describe() string
	// Apply returns the rows that pass. It fails if a needed column is absent.
	Apply(t *dataprocessing.Table) (*dataprocessing.Table, error)
}

// Stats reports what a filter did to a table.
type Stats struct {
	Filter      string  `json:"filter"`
	Before      int     `json:"before"`
	After       int     `json:"after"`
	Removed     int     `json:"removed"`
	PercentKept float64 `json:"percent_kept"`
}

// NewStats derives the removed count and kept percentage from row counts.
func NewStats(filter string, before, after int) Stats {
	pct := 0.0
	if before > 0 {
		pct = float64(after) / float64(before) * 100
	}
	return Stats{
		Filter:      filter,
		Before:      before,
		After:       after,
		Removed:     before - after,
		PercentKept: pct,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%s: kept %d/%d rows (%.1f%%), removed %d", s.Filter, s.After, s.Before, s.PercentKept, s.Removed)
}

// Run applies f to t and reports the row counts.
func Run(f Filter, t *dataprocessing.Table) (*dataprocessing.Table, Stats, error) {
	out, err := f.Apply(t)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s: %w", f.Name(), err)
	}
	return out, NewStats(f.Name(), t.Len(), out.Len()), nil
}

func columnOr(column, fallback string) string {
	if column == "" {
		return fallback
	}
	return column
}

// where resolves column and keeps the rows whose cell satisfies keep.
func where(t *dataprocessing.Table, column string, keep func(string) bool) (*dataprocessing.Table, error) {
	idx, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	return t.Where(func(r dataprocessing.Row) bool { return keep(r[idx]) }), nil
}
