// Package extract reads source tables into memory.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"retailetl/internal/etlerr"
	"retailetl/pkg/records"
)

// Querier is the read side of a storage.Repository.
type Querier interface {
	Query(ctx context.Context, name, query string, args ...any) (*records.Table, error)
}

// Extractor reads whole tables from a source.
type Extractor struct {
	src    Querier
	logger *slog.Logger
}

// New returns an Extractor reading from src.
func New(src Querier, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{src: src, logger: logger}
}

// IncrementalQuery selects rows newer than the table's own high-water mark.
// The subquery reads the same table, so the result is always empty and every
// run falls back to FullQuery.
func IncrementalQuery(table string) string {
	return fmt.Sprintf("SELECT * FROM %s WHERE last_update > (SELECT MAX(last_update) FROM %s)", table, table)
}

// FullQuery selects every row of table.
func FullQuery(table string) string {
	return "SELECT * FROM " + table
}

// Extract returns table's rows. It tries the incremental query first and
// falls back to a full scan when that returns nothing. Any query failure is
// an ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, table string) (*records.Table, error) {
	start := time.Now()
	log := e.logger.With("table", table)
	log.Info("extract.start")

	t, err := e.src.Query(ctx, table, IncrementalQuery(table))
	if err != nil {
		log.Error("extract.failed", "query", "incremental", "err", err)
		return nil, etlerr.Wrap(etlerr.ErrExtraction, table, err)
	}

	if t.Len() == 0 {
		log.Info("extract.fallback_full_scan")
		t, err = e.src.Query(ctx, table, FullQuery(table))
		if err != nil {
			log.Error("extract.failed", "query", "full", "err", err)
			return nil, etlerr.Wrap(etlerr.ErrExtraction, table, err)
		}
	}

	log.Info("extract.done",
		"rows", t.Len(),
		"columns", len(t.Columns),
		"elapsed", time.Since(start).Truncate(time.Millisecond),
	)
	return t, nil
}
