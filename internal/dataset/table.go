// Package dataset loads and cleans delimited provider-billing tables.
package dataset

import "fmt"

// Value is a single table cell. Until CoerceNumeric runs, a cell carries
// only its raw text; afterwards a numeric cell is either a parsed float
// or explicitly missing.
type Value struct {
	Raw     string
	Num     float64
	Numeric bool
	Missing bool
}

// Table is an ordered collection of rows sharing a fixed column schema.
// Cleaning mutates the table in place: rows are removed and cell values
// rewritten.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable builds a table from a header and raw string records.
// Empty cells are flagged missing.
func NewTable(columns []string, records [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	rows := make([][]Value, len(records))
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrParse, i+1, len(rec), len(columns))
		}
		row := make([]Value, len(rec))
		for j, cell := range rec {
			row[j] = Value{Raw: cell, Missing: cell == ""}
		}
		rows[i] = row
	}

	return &Table{columns: columns, index: index, rows: rows}, nil
}

// Columns returns the column names in schema order.
func (t *Table) Columns() []string {
	return t.columns
}

// NumRows returns the current row count.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// ColumnIndex returns the position of a column in the schema.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Cell returns the value at (row, column name).
func (t *Table) Cell(row int, column string) (Value, error) {
	i, ok := t.index[column]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return t.rows[row][i], nil
}

// SetNum overwrites a numeric cell value in place. Used by the scaler to
// standardize columns on the same table they were fit on.
func (t *Table) SetNum(row int, column string, v float64) error {
	i, ok := t.index[column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	t.rows[row][i].Num = v
	t.rows[row][i].Numeric = true
	t.rows[row][i].Missing = false
	return nil
}

// resolve maps column names to schema positions, failing on unknown names.
func (t *Table) resolve(columns []string) ([]int, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		idx[i] = j
	}
	return idx, nil
}

// Matrix extracts the named numeric columns as one row-major sample per
// table row. All requested cells must be coerced and non-missing.
func (t *Table) Matrix(columns []string) ([][]float64, error) {
	idx, err := t.resolve(columns)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(t.rows))
	for r, row := range t.rows {
		sample := make([]float64, len(idx))
		for k, j := range idx {
			v := row[j]
			if !v.Numeric || v.Missing {
				return nil, fmt.Errorf("%w: row %d, column %q", ErrMissingValue, r, t.columns[j])
			}
			sample[k] = v.Num
		}
		out[r] = sample
	}
	return out, nil
}
