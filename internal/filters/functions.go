package filters

import "insarmap/internal/dataprocessing"

// Shorthands over Run for callers that apply a single filter with default columns.

func FilterValid(t *dataprocessing.Table) (*dataprocessing.Table, Stats, error) {
	return Run(ValidFilter{}, t)
}

func FilterActive(t *dataprocessing.Table) (*dataprocessing.Table, Stats, error) {
	return Run(ActiveFilter{}, t)
}

func FilterCountry(t *dataprocessing.Table, countries []string) (*dataprocessing.Table, Stats, error) {
	return Run(CountryFilter{Countries: countries}, t)
}

func FilterOwner(t *dataprocessing.Table, owners []string) (*dataprocessing.Table, Stats, error) {
	return Run(OwnerFilter{Owners: owners}, t)
}

func FilterSite(t *dataprocessing.Table, sites []string) (*dataprocessing.Table, Stats, error) {
	return Run(SiteFilter{Sites: sites}, t)
}

func FilterSatSystem(t *dataprocessing.Table, systems []string) (*dataprocessing.Table, Stats, error) {
	return Run(SatSystemFilter{Systems: systems}, t)
}

func FilterLookDirection(t *dataprocessing.Table, directions []string) (*dataprocessing.Table, Stats, error) {
	return Run(LookDirectionFilter{Directions: directions}, t)
}

func FilterInstrumentClass(t *dataprocessing.Table, types []string, strict bool) (*dataprocessing.Table, Stats, error) {
	return Run(InstrumentClassFilter{Types: types, Strict: strict}, t)
}
