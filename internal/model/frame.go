package model

import "fmt"

// Frame is a simple column-named table of string cells.
type Frame struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of name, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddColumn appends a column; values must have one entry per row.
func (f *Frame) AddColumn(name string, values []string) error {
	if len(values) != len(f.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(f.Rows))
	}
	f.Columns = append(f.Columns, name)
	for i := range f.Rows {
		f.Rows[i] = append(f.Rows[i], values[i])
	}
	return nil
}

// Append adds the rows of other after the rows of f. Column sets are merged by name,
// missing cells are left empty.
func (f *Frame) Append(other *Frame) {
	if other == nil {
		return
	}
	for _, c := range other.Columns {
		if f.ColumnIndex(c) < 0 {
			f.Columns = append(f.Columns, c)
			for i := range f.Rows {
				f.Rows[i] = append(f.Rows[i], "")
			}
		}
	}
	for _, src := range other.Rows {
		row := make([]string, len(f.Columns))
		for j, c := range other.Columns {
			if j < len(src) {
				row[f.ColumnIndex(c)] = src[j]
			}
		}
		f.Rows = append(f.Rows, row)
	}
}
