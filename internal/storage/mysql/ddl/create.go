// Package ddl provides MySQL-specific DDL helpers: backtick quoting,
// CREATE TABLE IF NOT EXISTS, and a logical-kind type map.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "retailetl/internal/ddl"
	"retailetl/pkg/records"
)

var dialect = gddl.Dialect{Name: "mysql ddl", Quote: quoteIdent, PKNotNull: true}

// MapType maps a logical column kind into a MySQL column type.
func MapType(kind records.Kind) string {
	switch kind {
	case records.KindInt:
		return "BIGINT"
	case records.KindFloat:
		return "DECIMAL(18,2)"
	case records.KindBool:
		return "BOOLEAN"
	case records.KindTime:
		return "DATETIME(6)"
	default:
		return "VARCHAR(255)"
	}
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement.
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

// Execer is the subset of storage.Repository needed to apply DDL.
type Execer interface {
	Exec(ctx context.Context, sql string) error
}

// EnsureTable creates the table if it does not exist.
func EnsureTable(ctx context.Context, repo Execer, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

func quoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}
