// Package ddl defines a small, backend-agnostic model for warehouse table
// definitions and the shared column rendering used by the per-dialect
// builders under internal/storage/<kind>/ddl.
//
// The package itself does not know any dialect. Callers supply the identifier
// quoting function; the dialect packages wrap the rendered column list in
// their own CREATE statement (IF NOT EXISTS, OBJECT_ID guards, and so on).
package ddl

import (
	"fmt"
	"strings"
)

// Dialect carries the per-backend rendering choices.
type Dialect struct {
	// Name prefixes error messages, e.g. "mssql ddl".
	Name string
	// Quote quotes a single identifier segment.
	Quote func(string) string
	// PKNotNull forces NOT NULL on primary-key columns.
	PKNotNull bool
}

// RenderColumns validates t and renders its column definitions plus an
// optional trailing PRIMARY KEY clause:
//
//	<quoted name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//	PRIMARY KEY (<pk1>, <pk2>)
//
// Default is emitted as raw SQL.
func RenderColumns(d Dialect, t TableDef) ([]string, error) {
	prefix := d.Name
	if prefix == "" {
		prefix = "ddl"
	}
	quote := d.Quote
	if quote == nil {
		quote = func(s string) string { return s }
	}

	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return nil, fmt.Errorf("%s: table FQN must not be empty", prefix)
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("%s: at least one column is required", prefix)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: column with empty name in table %s", prefix, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return nil, fmt.Errorf("%s: column %s missing SQLType", prefix, name)
		}

		var sb strings.Builder
		sb.WriteString(quote(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable || (d.PKNotNull && c.PrimaryKey) {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quote(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}
	return cols, nil
}

// QuoteFQN splits a dotted name and quotes each non-empty segment:
//
//	"dbo.dim_clients" -> [dbo].[dim_clients] (with bracket quoting)
func QuoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}
