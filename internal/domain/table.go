package domain

import (
	"maps"
	"slices"
)

// Row maps column names to cell values.
type Row map[string]Value

// Get returns the cell for a column and whether the column exists in the row.
func (r Row) Get(column string) (Value, bool) {
	v, ok := r[column]
	return v, ok
}

// Table is an in-memory dataset: ordered column names and rows keyed by them.
// Every row is expected to carry every column; a missing key means the column
// is absent from that row.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) Table {
	return Table{Columns: slices.Clone(columns)}
}

// AppendRow adds a row built positionally from cells. Missing trailing cells
// are null; extra cells are dropped.
func (t *Table) AppendRow(cells ...Value) {
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(cells) {
			row[col] = cells[i]
		} else {
			row[col] = Null()
		}
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table declares the column.
func (t Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Cell returns the value at (row, column) and whether it exists.
func (t Table) Cell(row int, column string) (Value, bool) {
	if row < 0 || row >= len(t.Rows) {
		return Value{}, false
	}
	return t.Rows[row].Get(column)
}

// SetCell writes a value at (row, column). Out-of-range rows are ignored.
func (t *Table) SetCell(row int, column string, v Value) {
	if row < 0 || row >= len(t.Rows) {
		return
	}
	if t.Rows[row] == nil {
		t.Rows[row] = Row{}
	}
	t.Rows[row][column] = v
}

// Column returns every value of a column in row order, nulls included.
func (t Table) Column(column string) []Value {
	out := make([]Value, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r[column])
	}
	return out
}

// Clone returns a deep copy that shares no maps or slices with t.
func (t Table) Clone() Table {
	out := Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = maps.Clone(r)
		if out.Rows[i] == nil {
			out.Rows[i] = Row{}
		}
	}
	return out
}

// Equal reports whether both tables have the same columns and cells.
func (t Table) Equal(o Table) bool {
	if !slices.Equal(t.Columns, o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Rows {
		if len(t.Rows[i]) != len(o.Rows[i]) {
			return false
		}
		for k, v := range t.Rows[i] {
			ov, ok := o.Rows[i][k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
	}
	return true
}

// WithoutRows returns a copy of the table minus the given row indices.
func (t Table) WithoutRows(drop map[int]bool) Table {
	out := Table{Columns: slices.Clone(t.Columns)}
	for i, r := range t.Rows {
		if drop[i] {
			continue
		}
		out.Rows = append(out.Rows, maps.Clone(r))
	}
	return out
}
