// Package ddl contains Postgres-specific helpers for generating DDL.
//
// It builds CREATE TABLE statements for a generic ddl.TableDef, using
// Postgres-style quoting (double-quoted identifiers, escaped quotes).
package ddl

import (
	"fmt"
	"strings"

	gddl "retailetl/internal/ddl"
)

// Primary keys are always rendered NOT NULL, even if Nullable=true.
var dialect = gddl.Dialect{Name: "postgres ddl", Quote: quoteIdent, PKNotNull: true}

// BuildCreateTableSQL builds a CREATE TABLE IF NOT EXISTS statement for the
// given table definition. Columns without SQLType get MapType(Kind).
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := gddl.RenderColumns(dialect, gddl.WithTypes(t, MapType))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		gddl.QuoteFQN(t.FQN, quoteIdent),
		strings.Join(cols, ",\n  "),
	), nil
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
