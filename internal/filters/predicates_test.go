package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insarmap/internal/dataprocessing"
	apperrors "insarmap/internal/errors"
	"insarmap/internal/shared/testutil"
)

func targets() *dataprocessing.Table {
	return dataprocessing.FromStrings(testutil.TargetHeader, testutil.SampleTargets())
}

func sites(t *testing.T, table *dataprocessing.Table) []string {
	t.Helper()
	values, err := table.Values(ColumnSite)
	require.NoError(t, err)
	return values
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		wantSites []string
	}{
		{
			name:      "valid",
			filter:    ValidFilter{},
			wantSites: []string{"HENGELO", "DELFT01", "ZEGVELD", "OOSTENDE", "OBERPF"},
		},
		{
			name:      "active",
			filter:    ActiveFilter{},
			wantSites: []string{"HENGELO", "DELFT01", "ZEGVELD", "BRUSSEL", "OBERPF"},
		},
		{
			name:      "country",
			filter:    CountryFilter{Countries: []string{"BEL", "DEU"}},
			wantSites: []string{"OOSTENDE", "BRUSSEL", "OBERPF"},
		},
		{
			name:      "owner",
			filter:    OwnerFilter{Owners: []string{"TUD"}},
			wantSites: []string{"HENGELO", "DELFT01"},
		},
		{
			name:      "site",
			filter:    SiteFilter{Sites: []string{"HENGELO", "NOWHERE"}},
			wantSites: []string{"HENGELO"},
		},
		{
			name:      "look direction substring",
			filter:    LookDirectionFilter{Directions: []string{"D"}},
			wantSites: []string{"HENGELO", "ZEGVELD", "BRUSSEL"},
		},
		{
			name:      "satellite system keeps All and listed codes",
			filter:    SatSystemFilter{Systems: []string{"S1A"}},
			wantSites: []string{"HENGELO", "DELFT01", "ZEGVELD"},
		},
		{
			name:      "instrument class strict",
			filter:    InstrumentClassFilter{Types: []string{"CR"}, Strict: true},
			wantSites: []string{"HENGELO", "DELFT01", "OBERPF"},
		},
		{
			name:      "instrument class non-strict",
			filter:    InstrumentClassFilter{Types: []string{"CR"}},
			wantSites: []string{"HENGELO", "DELFT01", "BRUSSEL", "OBERPF"},
		},
		{
			name:      "empty set keeps nothing",
			filter:    CountryFilter{},
			wantSites: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := targets()
			out, err := tt.filter.Apply(input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSites, sites(t, out))
			assert.LessOrEqual(t, out.Len(), input.Len())
			assert.Equal(t, targets().Rows(), input.Rows(), "input must not change")
		})
	}
}

func TestFilters_MissingColumn(t *testing.T) {
	bare := dataprocessing.FromStrings([]string{"siteId"}, [][]string{{"HENGELO"}})

	all := []Filter{
		ValidFilter{},
		ActiveFilter{},
		CountryFilter{Countries: []string{"NLD"}},
		OwnerFilter{Owners: []string{"TUD"}},
		SatSystemFilter{Systems: []string{"S1A"}},
		InstrumentClassFilter{Types: []string{"CR"}},
		InstrumentClassFilter{Types: []string{"CR"}, Strict: true},
		LookDirectionFilter{Directions: []string{"A"}},
		SiteFilter{Sites: []string{"X"}, Column: "site"},
	}

	for _, f := range all {
		t.Run(f.Name(), func(t *testing.T) {
			out, _, err := Run(f, bare)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumn), err.Error())
		})
	}
}

func TestFilters_Idempotent(t *testing.T) {
	idempotent := []Filter{
		ActiveFilter{},
		ValidFilter{},
		OwnerFilter{Owners: []string{"TUD", "NGI"}},
		SiteFilter{Sites: []string{"HENGELO", "OOSTENDE"}},
		CountryFilter{Countries: []string{"NLD"}},
	}

	for _, f := range idempotent {
		t.Run(f.Name(), func(t *testing.T) {
			once, err := f.Apply(targets())
			require.NoError(t, err)
			twice, err := f.Apply(once)
			require.NoError(t, err)
			assert.Equal(t, once.Rows(), twice.Rows())
		})
	}
}

func TestInstrumentClass_StrictIsSubsetOfNonStrict(t *testing.T) {
	typeSets := [][]string{
		{"CR"},
		{"CR", "IGRS", "TR"},
		{"TR"},
		{"CR123"},
		{"R"},
	}

	for _, types := range typeSets {
		strict, err := InstrumentClassFilter{Types: types, Strict: true}.Apply(targets())
		require.NoError(t, err)
		loose, err := InstrumentClassFilter{Types: types}.Apply(targets())
		require.NoError(t, err)

		looseSites := sites(t, loose)
		for _, site := range sites(t, strict) {
			assert.Contains(t, looseSites, site, "types %v", types)
		}
	}
}

func TestInstrumentClass_NonStrictNormalizesIntoTypeSet(t *testing.T) {
	types := []string{"CR", "IGRS", "TR"}

	out, err := InstrumentClassFilter{Types: types}.Apply(targets())
	require.NoError(t, err)

	classes, err := out.Values(ColumnInstrClass)
	require.NoError(t, err)
	for _, c := range classes {
		assert.Contains(t, types, c)
	}
}

func TestInstrumentClass_RewritesToFirstMatch(t *testing.T) {
	table := dataprocessing.FromStrings([]string{ColumnInstrClass}, [][]string{{"CR123"}, {"TR"}})

	out, err := InstrumentClassFilter{Types: []string{"CR"}}.Apply(table)
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.Equal(t, dataprocessing.Row{"CR"}, out.Row(0))
	assert.Equal(t, "CR123", table.Row(0)[0], "input keeps the original class")

	mixed := dataprocessing.FromStrings([]string{ColumnInstrClass}, [][]string{{"CR/TR"}})
	out, err = InstrumentClassFilter{Types: []string{"TR", "CR"}}.Apply(mixed)
	require.NoError(t, err)
	assert.Equal(t, "TR", out.Row(0)[0], "order of the type set decides the match")
}

func TestSatSystem(t *testing.T) {
	table := dataprocessing.FromStrings([]string{ColumnSatSystem}, [][]string{
		{"All"}, {"all"}, {"S1A,RS2"}, {"TSX"}, {""},
	})

	tests := []struct {
		name    string
		systems []string
		want    []string
	}{
		{name: "All kept without request", systems: nil, want: []string{"All", "all"}},
		{name: "listed code", systems: []string{"S1A"}, want: []string{"All", "all", "S1A,RS2"}},
		{name: "second listed code", systems: []string{"RS2"}, want: []string{"All", "all", "S1A,RS2"}},
		{name: "unrelated code", systems: []string{"CSK"}, want: []string{"All", "all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := SatSystemFilter{Systems: tt.systems}.Apply(table)
			require.NoError(t, err)
			got, err := out.Values(ColumnSatSystem)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActive_NumericForms(t *testing.T) {
	table := dataprocessing.FromStrings([]string{ColumnInsarEnd}, [][]string{
		{"99999999"}, {"99999999.0"}, {"20211231"}, {""}, {"open"},
	})

	out, err := ActiveFilter{}.Apply(table)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestCustomColumn(t *testing.T) {
	table := dataprocessing.FromStrings([]string{"country"}, [][]string{{"NLD"}, {"BEL"}})

	out, err := CountryFilter{Countries: []string{"BEL"}, Column: "country"}.Apply(table)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestDescribe_NamesConfiguredColumn(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		want    string
		notWant string
	}{
		{name: "satellite system default", filter: SatSystemFilter{Systems: []string{"S1A"}}, want: "satSys contains"},
		{name: "satellite system custom", filter: SatSystemFilter{Systems: []string{"S1A"}, Column: "sats"}, want: "sats contains", notWant: "satSys"},
		{name: "look direction default", filter: LookDirectionFilter{Directions: []string{"A"}}, want: "lookDir contains"},
		{name: "look direction custom", filter: LookDirectionFilter{Directions: []string{"A"}, Column: "orbit"}, want: "orbit contains", notWant: "lookDir"},
		{name: "instrument class custom", filter: InstrumentClassFilter{Types: []string{"CR"}, Column: "kind"}, want: "kind [CR]", notWant: "instrClass"},
		{name: "valid custom", filter: ValidFilter{Column: "ok"}, want: "ok == true", notWant: "valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Describe()
			assert.Contains(t, got, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, got, tt.notWant)
			}
		})
	}
}
