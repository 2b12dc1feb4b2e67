package dataprocessing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "insarmap/internal/errors"
	"insarmap/internal/shared/testutil"
)

func TestLoadTargets(t *testing.T) {
	path := testutil.WriteTargetWorkbook(t, testutil.SampleTargets())
	logger, logs := testutil.NewTestLogger(t)

	table, err := LoadTargets(path, TargetColumns, LoadOptions{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, TargetColumns, table.Columns())
	assert.Equal(t, len(testutil.SampleTargets()), table.Len())

	first := table.Row(0)
	assert.Equal(t, "CR", first[0])
	assert.Equal(t, "HENGELO", first[2])
	assert.Equal(t, "99999999", first[5])
	assert.Equal(t, "52.2659", first[7])
	assert.Equal(t, "TRUE", first[10])

	invalid, err := table.Value(4, "valid")
	require.NoError(t, err)
	assert.Equal(t, "FALSE", invalid)

	assert.True(t, logs.ContainsAttr("records", int64(table.Len())))
	testutil.AssertNoErrors(t, logs)
}

func TestLoadTargets_DiscardsNominalHeader(t *testing.T) {
	path := testutil.WriteTargetWorkbook(t, testutil.SampleTargets())

	table, err := LoadTargets(path, nil, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, testutil.TargetHeader, table.Columns())
	assert.False(t, table.HasColumn("Instrument class"), "description row must not become the header")
	for _, r := range table.Rows() {
		assert.NotEqual(t, "instrClass", r[0], "key row must not appear as data")
	}
}

func TestLoadTargets_SingleHeaderRow(t *testing.T) {
	rows := append([][]string{testutil.TargetHeader}, testutil.SampleTargets()...)
	path := testutil.WriteWorkbook(t, "insarTargets", rows)

	table, err := LoadTargets(path, nil, LoadOptions{HeaderRow: 1})
	require.NoError(t, err)

	assert.Equal(t, testutil.TargetHeader, table.Columns())
	assert.Equal(t, len(testutil.SampleTargets()), table.Len())
}

func TestLoadTargets_ProjectsInRequestedOrder(t *testing.T) {
	path := testutil.WriteTargetWorkbook(t, testutil.SampleTargets())

	table, err := LoadTargets(path, []string{"longitude", "latitude", "siteId"}, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"longitude", "latitude", "siteId"}, table.Columns())
	assert.Equal(t, Row{"6.7931", "52.2659", "HENGELO"}, table.Row(0))
}

func TestLoadTargets_Errors(t *testing.T) {
	good := testutil.WriteTargetWorkbook(t, testutil.SampleTargets())

	tests := []struct {
		name     string
		path     string
		columns  []string
		opts     LoadOptions
		wantType apperrors.ErrorType
	}{
		{
			name:     "missing file",
			path:     filepath.Join(t.TempDir(), "nope.xlsx"),
			wantType: apperrors.ErrTypeFileRead,
		},
		{
			name:     "missing sheet",
			path:     good,
			opts:     LoadOptions{Sheet: "otherSheet"},
			wantType: apperrors.ErrTypeFileRead,
		},
		{
			name:     "missing requested column",
			path:     good,
			columns:  []string{"owner", "heightAboveEllipsoid"},
			wantType: apperrors.ErrTypeMissingColumn,
		},
		{
			name:     "header row beyond sheet",
			path:     good,
			opts:     LoadOptions{HeaderRow: 50},
			wantType: apperrors.ErrTypeFileRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadTargets(tt.path, tt.columns, tt.opts)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}
}

func TestTableFromRows_SkipsBlankAndPadsShortRows(t *testing.T) {
	rows := [][]string{
		{"nominal"},
		{"a", "b", "c"},
		{"1", "2", "3"},
		{"", " ", ""},
		{"4"},
	}

	table, err := tableFromRows(rows, nil, 2)
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, Row{"4", "", ""}, table.Row(1))
}

func TestLoadTargets_ReadsStoredValuesNotDisplayText(t *testing.T) {
	// Format 2 displays floats as "0.00"
	path := testutil.WriteStoredTargetWorkbook(t, [][]interface{}{testutil.StoredTarget()}, 2)

	table, err := LoadTargets(path, TargetColumns, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	lat, err := table.Value(0, "latitude")
	require.NoError(t, err)
	assert.Equal(t, "52.26591234", lat)
	lon, err := table.Value(0, "longitude")
	require.NoError(t, err)
	assert.Equal(t, "6.79312345", lon)

	valid, err := table.Value(0, "valid")
	require.NoError(t, err)
	assert.Equal(t, "TRUE", valid, "boolean cells read as TRUE/FALSE")

	rec := table.Record(0)
	assert.Equal(t, 52.26591234, rec["latitude"])
	assert.Equal(t, int64(99999999), rec["insarEnd"])
	assert.Equal(t, true, rec["valid"])
	assert.Equal(t, "0042", rec["siteId"], "text cells stay text")
	assert.Equal(t, "ITRF2014", rec["refFrame"])
}

func TestLoadTargets_CellKindsSurviveTransforms(t *testing.T) {
	path := testutil.WriteStoredTargetWorkbook(t, [][]interface{}{testutil.StoredTarget()}, 2)

	table, err := LoadTargets(path, nil, LoadOptions{})
	require.NoError(t, err)

	kept := table.Where(func(Row) bool { return true })
	mapped, err := kept.MapColumn("instrClass", func(s string) string { return s })
	require.NoError(t, err)
	projected, err := mapped.Select([]string{"siteId", "latitude"})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"siteId":   "0042",
		"latitude": 52.26591234,
	}, projected.Record(0))
}
