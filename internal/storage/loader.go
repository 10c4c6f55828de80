package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"retailetl/pkg/records"
)

// CopyFn abstracts a backend's bulk insert for one table. Implementations
// insert rows (aligned to columns) and return the number of rows written.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for
// each one, in order. It returns the total reported by copyFn and the first
// error encountered.
//
// The context is checked before every batch; a canceled run returns
// (total, ctx.Err()). A progress line is logged on each successful flush.
func LoadBatches(
	ctx context.Context,
	logger *slog.Logger,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}
	if logger == nil {
		return 0, fmt.Errorf("logger must not be nil")
	}

	var (
		total       int64
		batches     int64
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			logger.Error("loader.copy_failed", "inserted", n, "total", total, "err", err)
			return total, err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		logger.Debug("loader.batch",
			"batch", batches,
			"rps", int64(rps),
			"inserted", n,
			"total_inserted", total,
			"elapsed", now.Sub(start).Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total
	}
	return total, nil
}

// CopyTable loads t's rows through LoadBatches into repo.CopyFrom for the
// table named target. Columns are taken from t in order.
func CopyTable(
	ctx context.Context,
	logger *slog.Logger,
	repo Repository,
	target string,
	t *records.Table,
	batchSize int,
) (int64, error) {
	return LoadBatches(ctx, logger, t.Columns, t.Values(), batchSize,
		func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
			return repo.CopyFrom(ctx, target, columns, rows)
		})
}
