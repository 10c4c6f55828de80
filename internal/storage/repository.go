// Package storage contains the storage-agnostic contracts used by the
// pipeline: the Repository interface, a registry of backend factories keyed by
// kind, DDL bootstrap hooks, row scanning, and the batched loader.
//
// Concrete backends live in subpackages (mssql, postgres, sqlite, mysql) and
// register themselves from init. Import internal/storage/all to enable all of
// them.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"retailetl/pkg/records"
)

// Repository is one open database connection (pool) used either as a source
// or as a warehouse target.
type Repository interface {
	// Query runs a SELECT and materializes every row into a records.Table
	// named name. Column kinds come from the driver's type names.
	Query(ctx context.Context, name, query string, args ...any) (*records.Table, error)

	// CopyFrom appends rows (aligned to columns) to table using the
	// backend's bulk path and returns the number of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Exec runs a statement that returns no rows (typically DDL).
	Exec(ctx context.Context, sql string) error

	// Close releases the connection. It is safe to call more than once.
	Close()
}

// Config selects a backend and describes how to reach it. DSN wins when set;
// otherwise each backend assembles one from Host, Database, User and Password.
type Config struct {
	Kind     string
	DSN      string
	Host     string
	Database string
	User     string
	Password string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted. The slice is a copy.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
