// Package load appends warehouse tables to the target store.
//
// Loading is append-only: there is no upsert or deduplication against rows
// already in the warehouse, so loading the same data twice duplicates it.
package load

import (
	"context"
	"log/slog"
	"time"

	"retailetl/internal/ddl"
	"retailetl/internal/etlerr"
	"retailetl/internal/metrics"
	"retailetl/internal/storage"
	"retailetl/pkg/records"
)

// Options tunes a Loader.
type Options struct {
	// Kind is the target's storage kind; it selects the DDL bootstrapper.
	Kind string
	// BatchSize is the number of rows per CopyFrom call.
	BatchSize int
	// AutoCreate creates missing tables from the table's column kinds.
	AutoCreate bool
}

// Loader writes tables through a storage.Repository.
type Loader struct {
	repo    storage.Repository
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New returns a Loader writing to repo. A nil rec records nothing.
func New(repo storage.Repository, opts Options, logger *slog.Logger, rec *metrics.Recorder) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5000
	}
	return &Loader{repo: repo, opts: opts, logger: logger, metrics: rec}
}

// Load appends t's rows to the warehouse table name and returns the number
// of rows written. Failures are ErrLoad.
func (l *Loader) Load(ctx context.Context, name string, t *records.Table) (int64, error) {
	start := time.Now()
	log := l.logger.With("table", name)

	if l.opts.AutoCreate {
		def := ddl.FromTable(name, t)
		if err := storage.EnsureTables(ctx, l.opts.Kind, l.repo, []ddl.TableDef{def}); err != nil {
			log.Error("load.failed", "phase", "create", "err", err)
			return 0, etlerr.Wrap(etlerr.ErrLoad, name, err)
		}
	}

	n, err := storage.CopyTable(ctx, log, l.repo, name, t, l.opts.BatchSize)
	l.metrics.RecordRows(name, metrics.KindLoaded, n)
	l.metrics.RecordBatches(name, batches(n, l.opts.BatchSize))
	if err != nil {
		log.Error("load.failed", "phase", "copy", "inserted", n, "err", err)
		return n, etlerr.Wrap(etlerr.ErrLoad, name, err)
	}

	log.Info("load.done", "rows", n, "elapsed", time.Since(start).Truncate(time.Millisecond))
	return n, nil
}

// LoadAll loads tables in order, stopping at the first failure. Tables
// loaded before the failure stay committed.
func (l *Loader) LoadAll(ctx context.Context, tables []*records.Table) (map[string]int64, error) {
	out := make(map[string]int64, len(tables))
	for _, t := range tables {
		n, err := l.Load(ctx, t.Name, t)
		out[t.Name] = n
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func batches(rows int64, size int) int64 {
	if rows <= 0 || size <= 0 {
		return 0
	}
	return (rows + int64(size) - 1) / int64(size)
}
