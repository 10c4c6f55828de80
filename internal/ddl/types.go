package ddl

import "retailetl/pkg/records"

// ColumnDef describes a single column in a table definition.
//
// Kind is the logical type; backends translate it into SQLType with their
// own MapType when SQLType is left empty, so one TableDef can be rendered for
// every dialect.
type ColumnDef struct {
	Name       string
	Kind       records.Kind
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name (optionally schema-qualified, e.g.
// "dbo.dim_clients") and its ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in declaration order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// WithTypes returns a copy of t where every column without an explicit
// SQLType gets mapType(c.Kind).
func WithTypes(t TableDef, mapType func(records.Kind) string) TableDef {
	out := TableDef{FQN: t.FQN, Columns: make([]ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		if c.SQLType == "" && mapType != nil {
			c.SQLType = mapType(c.Kind)
		}
		out.Columns[i] = c
	}
	return out
}

// FromTable derives a definition from t's columns and kinds. Every column is
// nullable and there is no primary key, so appending the same rows twice
// succeeds.
func FromTable(fqn string, t *records.Table) TableDef {
	def := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		def.Columns[i] = ColumnDef{Name: c, Kind: t.Kind(c), Nullable: true}
	}
	return def
}
