package ddl

import (
	"context"

	gddl "retailetl/internal/ddl"
)

// Execer is the subset of storage.Repository needed to apply DDL.
type Execer interface {
	Exec(ctx context.Context, sql string) error
}

// EnsureTable creates the target SQL Server table if it does not already
// exist. The script is guarded by OBJECT_ID, so repeated calls are no-ops.
func EnsureTable(ctx context.Context, repo Execer, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}
