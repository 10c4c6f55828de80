// Package records defines the in-memory tabular model that flows through the
// pipeline: a Table of named, kinded columns holding Record rows.
//
// Cell values are restricted to a small set of Go types so that every stage
// can switch on them without reflection:
//
//	nil, string, int64, float64, bool, time.Time
//
// Backends normalize driver values into this set when scanning (see
// NormalizeValue), and loaders pass them to drivers unchanged.
package records

import (
	"fmt"
	"strings"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Kind is the logical type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "text"
	}
}

// IsNumeric reports whether k holds numbers.
func (k Kind) IsNumeric() bool { return k == KindInt || k == KindFloat }

// Table is an ordered set of columns plus rows. Columns keeps the source
// column order; Kinds is keyed by column name.
type Table struct {
	Name    string
	Columns []string
	Kinds   map[string]Kind
	Rows    []Record
}

// NewTable returns an empty table with the given columns. kinds may be shorter
// than columns; missing entries default to KindText.
func NewTable(name string, columns []string, kinds []Kind) *Table {
	t := &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
		Kinds:   make(map[string]Kind, len(columns)),
	}
	for i, c := range columns {
		k := KindText
		if i < len(kinds) {
			k = kinds[i]
		}
		t.Kinds[c] = k
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the table declares column c.
func (t *Table) Has(c string) bool {
	_, ok := t.Kinds[c]
	return ok
}

// Kind returns the kind of column c (KindText when unknown).
func (t *Table) Kind(c string) Kind { return t.Kinds[c] }

// SetKind changes the declared kind of column c.
func (t *Table) SetKind(c string, k Kind) {
	if t.Kinds == nil {
		t.Kinds = map[string]Kind{}
	}
	t.Kinds[c] = k
}

// Append adds a row built from positional values aligned to t.Columns.
func (t *Table) Append(values ...any) {
	r := make(Record, len(t.Columns))
	for i, c := range t.Columns {
		if i < len(values) {
			r[c] = values[i]
		} else {
			r[c] = nil
		}
	}
	t.Rows = append(t.Rows, r)
}

// Column returns the values of column c in row order.
func (t *Table) Column(c string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[c]
	}
	return out
}

// Project returns a new table named name holding only cols, in that order.
// Rows are shallow-copied so the projection does not alias the source maps.
// A column missing from t is an error.
func (t *Table) Project(name string, cols []string) (*Table, error) {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("table %s: missing columns [%s]", t.Name, strings.Join(missing, ", "))
	}

	out := &Table{
		Name:    name,
		Columns: append([]string(nil), cols...),
		Kinds:   make(map[string]Kind, len(cols)),
		Rows:    make([]Record, len(t.Rows)),
	}
	for _, c := range cols {
		out.Kinds[c] = t.Kinds[c]
	}
	for i, r := range t.Rows {
		nr := make(Record, len(cols))
		for _, c := range cols {
			nr[c] = r[c]
		}
		out.Rows[i] = nr
	}
	return out, nil
}

// Values returns rows as positional slices aligned to t.Columns, the shape
// expected by storage CopyFrom implementations.
func (t *Table) Values() [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = r[c]
		}
		out[i] = row
	}
	return out
}
