package filters

import (
	"fmt"
	"strings"

	"insarmap/internal/dataprocessing"
)

// ValidFilter keeps rows whose validity flag is true.
type ValidFilter struct {
	Column string
}

func (f ValidFilter) Name() string     { return "Valid filter" }
func (f ValidFilter) Describe() string { return columnOr(f.Column, ColumnValid) + " == true" }

func (f ValidFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	return where(t, columnOr(f.Column, ColumnValid), dataprocessing.ParseBool)
}

// ActiveFilter keeps rows whose survey end epoch is the open-ended sentinel.
type ActiveFilter struct {
	Column string
}

func (f ActiveFilter) Name() string { return "Active targets filter" }
func (f ActiveFilter) Describe() string {
	return fmt.Sprintf("%s == %d", columnOr(f.Column, ColumnInsarEnd), ActiveSentinel)
}

func (f ActiveFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	return where(t, columnOr(f.Column, ColumnInsarEnd), func(v string) bool {
		end, err := dataprocessing.ParseFloat(v)
		return err == nil && end == ActiveSentinel
	})
}

// membershipFilter keeps rows whose cell is exactly one of a set of values.
type membershipFilter struct {
	name   string
	column string
	values []string
}

func (f membershipFilter) Name() string { return f.name }
func (f membershipFilter) Describe() string {
	return fmt.Sprintf("%s in %v", f.column, f.values)
}

func (f membershipFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	set := make(map[string]struct{}, len(f.values))
	for _, v := range f.values {
		set[v] = struct{}{}
	}
	return where(t, f.column, func(v string) bool {
		_, ok := set[v]
		return ok
	})
}

// CountryFilter keeps rows whose country code is in Countries.
type CountryFilter struct {
	Countries []string
	Column    string
}

func (f CountryFilter) membership() membershipFilter {
	return membershipFilter{name: "Country filter", column: columnOr(f.Column, ColumnCountry), values: f.Countries}
}

func (f CountryFilter) Name() string     { return f.membership().Name() }
func (f CountryFilter) Describe() string { return f.membership().Describe() }
func (f CountryFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	return f.membership().Apply(t)
}

// OwnerFilter keeps rows whose owner is in Owners.
type OwnerFilter struct {
	Owners []string
	Column string
}

func (f OwnerFilter) membership() membershipFilter {
	return membershipFilter{name: "Owner filter", column: columnOr(f.Column, ColumnOwner), values: f.Owners}
}

func (f OwnerFilter) Name() string     { return f.membership().Name() }
func (f OwnerFilter) Describe() string { return f.membership().Describe() }
func (f OwnerFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	return f.membership().Apply(t)
}

// SiteFilter keeps rows whose site identifier is in Sites.
type SiteFilter struct {
	Sites  []string
	Column string
}

func (f SiteFilter) membership() membershipFilter {
	return membershipFilter{name: "Site ID filter", column: columnOr(f.Column, ColumnSite), values: f.Sites}
}

func (f SiteFilter) Name() string     { return f.membership().Name() }
func (f SiteFilter) Describe() string { return f.membership().Describe() }
func (f SiteFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	return f.membership().Apply(t)
}

// SatSystemFilter keeps rows that list "All" (any case) or any of Systems.
type SatSystemFilter struct {
	Systems []string
	Column  string
}

func (f SatSystemFilter) Name() string { return "Satellite system filter" }
func (f SatSystemFilter) Describe() string {
	return fmt.Sprintf("%s contains All or any of %v", columnOr(f.Column, ColumnSatSystem), f.Systems)
}

func (f SatSystemFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	return where(t, columnOr(f.Column, ColumnSatSystem), func(v string) bool {
		return strings.Contains(strings.ToLower(v), "all") || containsAny(v, f.Systems)
	})
}

// LookDirectionFilter keeps rows whose look direction contains any of Directions.
type LookDirectionFilter struct {
	Directions []string
	Column     string
}

func (f LookDirectionFilter) Name() string { return "Look direction filter" }
func (f LookDirectionFilter) Describe() string {
	return fmt.Sprintf("%s contains any of %v", columnOr(f.Column, ColumnLookDir), f.Directions)
}

func (f LookDirectionFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	return where(t, columnOr(f.Column, ColumnLookDir), func(v string) bool {
		return containsAny(v, f.Directions)
	})
}

// InstrumentClassFilter keeps rows by instrument class. Strict mode requires
// an exact match. Otherwise a row is kept when its class contains any of
// Types, and the kept row's class is rewritten to the first such type.
type InstrumentClassFilter struct {
	Types  []string
	Strict bool
	Column string
}

func (f InstrumentClassFilter) Name() string { return "Instrument class filter" }
func (f InstrumentClassFilter) Describe() string {
	return fmt.Sprintf("%s %v (strict=%t)", columnOr(f.Column, ColumnInstrClass), f.Types, f.Strict)
}

func (f InstrumentClassFilter) Apply(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	column := columnOr(f.Column, ColumnInstrClass)
	if f.Strict {
		return membershipFilter{name: f.Name(), column: column, values: f.Types}.Apply(t)
	}

	kept, err := where(t, column, func(v string) bool { return containsAny(v, f.Types) })
	if err != nil {
		return nil, err
	}
	return kept.MapColumn(column, f.normalize)
}

func (f InstrumentClassFilter) normalize(class string) string {
	if match, ok := firstContained(class, f.Types); ok {
		return match
	}
	return class
}

func containsAny(v string, subs []string) bool {
	_, ok := firstContained(v, subs)
	return ok
}

func firstContained(v string, subs []string) (string, bool) {
	for _, s := range subs {
		if strings.Contains(v, s) {
			return s, true
		}
	}
	return "", false
}
