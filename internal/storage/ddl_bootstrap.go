package storage

import (
	"context"
	"fmt"
	"sync"

	"retailetl/internal/ddl"
)

// DDLBootstrapper renders dialect-specific CREATE statements for def and
// applies them through repo.Exec. Implementations must be idempotent: an
// existing table is left untouched and never altered.
type DDLBootstrapper func(ctx context.Context, repo Repository, def ddl.TableDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the bootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTables creates every table in defs that does not exist yet, in order,
// using the bootstrapper registered for kind.
func EnsureTables(ctx context.Context, kind string, repo Repository, defs []ddl.TableDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	for _, def := range defs {
		if err := fn(ctx, repo, def); err != nil {
			return fmt.Errorf("ensure table %s: %w", def.FQN, err)
		}
	}
	return nil
}
