package dataprocessing

import (
	apperrors "insarmap/internal/errors"
)

// Row is one record, with cells aligned to the owning table's columns.
type Row []string

// Table is an ordered set of rows sharing a named column list.
// Tables are treated as immutable: every transform returns a new Table.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
	// kinds, when set, holds the workbook storage kind of every cell,
	// aligned to rows. Tables built from plain strings leave it nil.
	kinds [][]CellKind
}

// NewTable builds a table from a header and rows. Rows shorter than the header
// are padded with empty cells, longer rows are truncated. The rows are copied.
func NewTable(columns []string, rows []Row) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    make([]Row, 0, len(rows)),
	}
	for i, c := range t.columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	for _, r := range rows {
		t.rows = append(t.rows, normalizeRow(r, len(t.columns)))
	}
	return t
}

// FromStrings is NewTable for plain string rows.
func FromStrings(columns []string, rows [][]string) *Table {
	converted := make([]Row, len(rows))
	for i, r := range rows {
		converted[i] = Row(r)
	}
	return NewTable(columns, converted)
}

// newTypedTable is NewTable for rows whose cell kinds are known.
func newTypedTable(columns []string, rows []Row, kinds [][]CellKind) *Table {
	t := NewTable(columns, rows)
	t.kinds = make([][]CellKind, len(rows))
	for i := range rows {
		k := make([]CellKind, len(t.columns))
		if i < len(kinds) {
			copy(k, kinds[i])
		}
		t.kinds[i] = k
	}
	return t
}

func normalizeRow(r Row, width int) Row {
	out := make(Row, width)
	copy(out, r)
	return out
}

// kind returns the storage kind of cell (i, j), KindAuto when unknown.
func (t *Table) kind(i, j int) CellKind {
	if t.kinds == nil || j >= len(t.kinds[i]) {
		return KindAuto
	}
	return t.kinds[i][j]
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns a copy of the i-th row.
func (t *Table) Row(i int) Row {
	return append(Row(nil), t.rows[i]...)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column resolves a column name to its index.
func (t *Table) Column(name string) (int, error) {
	idx, ok := t.index[name]
	if !ok {
		return -1, apperrors.NewMissingColumnError(name)
	}
	return idx, nil
}

// Value returns the cell at row i for the named column.
func (t *Table) Value(i int, column string) (string, error) {
	idx, err := t.Column(column)
	if err != nil {
		return "", err
	}
	return t.rows[i][idx], nil
}

// Values returns every cell of the named column in row order.
func (t *Table) Values(column string) ([]string, error) {
	idx, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Rows returns copies of all rows.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// Where returns a new table holding copies of the rows for which keep returns true.
func (t *Table) Where(keep func(Row) bool) *Table {
	out := &Table{columns: t.columns, index: t.index, rows: make([]Row, 0, len(t.rows))}
	for i, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, append(Row(nil), r...))
			if t.kinds != nil {
				out.kinds = append(out.kinds, t.kinds[i])
			}
		}
	}
	return out
}

// MapColumn returns a new table in which every cell of column is replaced by fn(cell).
func (t *Table) MapColumn(column string, fn func(string) string) (*Table, error) {
	idx, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	out := &Table{columns: t.columns, index: t.index, rows: make([]Row, len(t.rows)), kinds: t.kinds}
	for i, r := range t.rows {
		row := append(Row(nil), r...)
		row[idx] = fn(row[idx])
		out.rows[i] = row
	}
	return out, nil
}

// Select projects the table onto the given columns, in the given order.
func (t *Table) Select(columns []string) (*Table, error) {
	indexes := make([]int, len(columns))
	for i, c := range columns {
		idx, err := t.Column(c)
		if err != nil {
			return nil, err
		}
		indexes[i] = idx
	}

	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		projected := make(Row, len(indexes))
		for j, idx := range indexes {
			projected[j] = r[idx]
		}
		rows[i] = projected
	}
	if t.kinds == nil {
		return NewTable(columns, rows), nil
	}

	kinds := make([][]CellKind, len(t.rows))
	for i := range t.rows {
		projected := make([]CellKind, len(indexes))
		for j, idx := range indexes {
			projected[j] = t.kind(i, idx)
		}
		kinds[i] = projected
	}
	return newTypedTable(columns, rows, kinds), nil
}

// Records returns each row as a column-name keyed map of typed cell values.
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, len(t.rows))
	for i := range t.rows {
		out[i] = t.Record(i)
	}
	return out
}

// Record returns row i as a column-name keyed map of typed cell values.
// Cells loaded from a workbook keep their storage type: text stays text.
func (t *Table) Record(i int) map[string]interface{} {
	rec := make(map[string]interface{}, len(t.columns))
	for j, c := range t.columns {
		rec[c] = TypedAs(t.rows[i][j], t.kind(i, j))
	}
	return rec
}
