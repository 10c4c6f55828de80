// Package ddl provides MSSQL-specific helpers for generating CREATE TABLE
// statements from the generic ddl.TableDef model.
//
// The builder here:
//   - Uses SQL Server-style identifier quoting: [schema].[table], [col].
//   - Wraps CREATE TABLE in an IF OBJECT_ID(...) IS NULL guard since T-SQL
//     does not support CREATE TABLE IF NOT EXISTS.
//   - Fills missing SQLType values from MapType.
package ddl

import (
	"fmt"
	"strings"

	gddl "retailetl/internal/ddl"
)

var dialect = gddl.Dialect{Name: "mssql ddl", Quote: quoteIdent}

// BuildCreateTableSQL returns a T-SQL script that creates a table matching
// the provided definition if it does not already exist:
//
//	IF OBJECT_ID(N'[dbo].[dim_clients]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[dim_clients] (
//	    [client_id] BIGINT NOT NULL,
//	    [status] NVARCHAR(255)
//	  );
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := gddl.RenderColumns(dialect, gddl.WithTypes(t, MapType))
	if err != nil {
		return "", err
	}
	fqn := gddl.QuoteFQN(t.FQN, quoteIdent)

	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		strings.ReplaceAll(fqn, "'", "''"),
		fqn,
		strings.Join(cols, ",\n    "),
	), nil
}

// quoteIdent quotes a single identifier segment using bracket syntax,
// escaping closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
