package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insarmap/internal/dataprocessing"
	apperrors "insarmap/internal/errors"
	"insarmap/internal/shared/testutil"
)

func TestWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"siteId", "owner"},
				Records: [][]string{
					{"HENGELO", "TUD"},
					{"ZEGVELD", "KADASTER"},
				},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3)
				assert.Equal(t, "siteId,owner", lines[0])
				assert.Equal(t, "HENGELO,TUD", lines[1])
				assert.Equal(t, "ZEGVELD,KADASTER", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"siteId"},
				Records:   [][]string{{"DELFT01"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
				lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
				assert.Equal(t, "siteId", lines[0])
			},
		},
		{
			name:     "quoted multi-value cells",
			filePath: "nested/dir/test_quoted.csv",
			options: WriteOptions{
				Headers: []string{"lookDir"},
				Records: [][]string{{"A,D"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "lookDir\n\"A,D\"\n", string(content))
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options:  WriteOptions{Headers: []string{"Col1", "Col2"}},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Col1,Col2\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			w := NewWriter(dir)

			require.NoError(t, w.WriteCSV(tt.filePath, tt.options))

			content, err := os.ReadFile(filepath.Join(dir, tt.filePath))
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestWriter_WriteTableCSV(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	table := dataprocessing.FromStrings(testutil.TargetHeader, testutil.SampleTargets())
	path := filepath.Join(t.TempDir(), "insar_filtered.csv")

	require.NoError(t, NewWriter("").WithLogger(logger).WriteTableCSV(path, table, false))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, table.Len()+1)
	assert.Equal(t, testutil.TargetHeader, records[0], "no index column")
	assert.Equal(t, testutil.SampleTargets()[0], records[1])
	assert.True(t, logs.ContainsAttr("record_count", int64(table.Len())))
}

func TestWriter_WriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	table := dataprocessing.FromStrings([]string{"a"}, [][]string{{"1"}})
	err := NewWriter(blocker).WriteTableCSV("out.csv", table, false)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWrite))
}

func TestWriter_ResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "a.csv")

	assert.Equal(t, "a.csv", NewWriter("").ResolvePath("a.csv"))
	assert.Equal(t, filepath.Join("out", "a.csv"), NewWriter("out").ResolvePath("a.csv"))
	assert.Equal(t, abs, NewWriter("out").ResolvePath(abs))
}
