// Package pipeline sequences a full warehouse run:
//
//	connect → extract → transform → validate → model → load(dims) → load(facts) → close
//
// Each stage is synchronous. Both connections are opened once and closed on
// every exit path. The first stage error ends the run; rows already loaded
// stay committed.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"retailetl/internal/etlerr"
	"retailetl/internal/extract"
	"retailetl/internal/load"
	"retailetl/internal/metrics"
	"retailetl/internal/model"
	"retailetl/internal/reconcile"
	"retailetl/internal/storage"
	"retailetl/internal/transformer"
	"retailetl/internal/validate"
	"retailetl/pkg/records"
)

// Opener opens one side of the run.
type Opener func(ctx context.Context) (storage.Repository, error)

// StorageOpener returns an Opener for cfg through the storage registry.
func StorageOpener(cfg storage.Config) Opener {
	return func(ctx context.Context) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}
}

// Options configures a Runner.
type Options struct {
	// DryRun stops after modeling; the target is never opened.
	DryRun bool
	// QualityReport, when set, is the path of an XLSX validation workbook.
	QualityReport string
	// Load configures the warehouse writer.
	Load load.Options
}

// Summary reports what a run did.
type Summary struct {
	Extracted   map[string]int
	Transformed map[string]transformer.Stats
	Reports     []validate.Report
	Loaded      map[string]int64
	Elapsed     time.Duration
}

// Runner executes runs. It is not safe for concurrent use.
type Runner struct {
	opts       Options
	openSource Opener
	openTarget Opener
	logger     *slog.Logger
	metrics    *metrics.Recorder

	summary Summary
}

// New returns a Runner. logger and rec may be nil.
func New(opts Options, source, target Opener, logger *slog.Logger, rec *metrics.Recorder) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		opts:       opts,
		openSource: source,
		openTarget: target,
		logger:     logger,
		metrics:    rec,
	}
}

// Summary returns the counts of the last Run, including a failed one.
func (r *Runner) Summary() Summary { return r.summary }

// step times fn and records it as a pipeline step.
func (r *Runner) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.metrics.RecordStep(name, err, time.Since(start))
	if err != nil {
		r.logger.Error("pipeline.step_failed", "step", name, "err", err)
	}
	return err
}

// Run executes one full pass.
func (r *Runner) Run(ctx context.Context) (err error) {
	start := time.Now()
	r.summary = Summary{
		Extracted:   map[string]int{},
		Transformed: map[string]transformer.Stats{},
		Loaded:      map[string]int64{},
	}
	r.logger.Info("pipeline.start", "dry_run", r.opts.DryRun)

	defer func() {
		r.summary.Elapsed = time.Since(start)
		if err != nil {
			r.logger.Error("pipeline.failed", "err", err, "elapsed", r.summary.Elapsed.Truncate(time.Millisecond))
			return
		}
		r.logger.Info("pipeline.summary",
			"extracted", r.summary.Extracted,
			"loaded", r.summary.Loaded,
			"elapsed", r.summary.Elapsed.Truncate(time.Millisecond),
		)
	}()

	var src, tgt storage.Repository
	defer func() {
		if src != nil {
			src.Close()
		}
		if tgt != nil {
			tgt.Close()
		}
		r.logger.Info("pipeline.connections_closed")
	}()

	if err := r.step("connect", func() error {
		var err error
		if src, err = r.openSource(ctx); err != nil {
			return etlerr.Wrap(etlerr.ErrConnection, "source", err)
		}
		r.logger.Info("pipeline.connected", "side", "source")
		if r.opts.DryRun {
			return nil
		}
		if tgt, err = r.openTarget(ctx); err != nil {
			return etlerr.Wrap(etlerr.ErrConnection, "target", err)
		}
		r.logger.Info("pipeline.connected", "side", "target")
		return nil
	}); err != nil {
		return err
	}

	entities := transformer.Entities()
	raw := make(map[string]*records.Table, len(entities))

	if err := r.step("extract", func() error {
		ex := extract.New(src, r.logger)
		for _, e := range entities {
			t, err := ex.Extract(ctx, e.Source)
			if err != nil {
				return err
			}
			raw[e.Name] = t
			r.summary.Extracted[e.Name] = t.Len()
			r.metrics.RecordRows(e.Name, metrics.KindExtracted, int64(t.Len()))
		}
		return nil
	}); err != nil {
		return err
	}

	cleaned := make(map[string]*records.Table, len(entities))
	ordered := make([]*records.Table, 0, len(entities))

	if err := r.step("transform", func() error {
		catalog, err := reconcile.Load(ctx, src)
		if err != nil {
			return err
		}
		r.logger.Info("transform.catalog_loaded", "products", catalog.Len())

		set := transformer.NewSet(r.logger, catalog)
		for _, e := range entities {
			t, st, err := set.Transform(e, raw[e.Name])
			if err != nil {
				return err
			}
			cleaned[e.Name] = t
			ordered = append(ordered, t)
			r.summary.Transformed[e.Name] = st
			r.metrics.RecordRows(e.Name, metrics.KindDeduped, int64(st.Duplicates))
			r.metrics.RecordRows(e.Name, metrics.KindResolved, int64(st.Reconcile.Resolved))
			r.metrics.RecordRows(e.Name, metrics.KindUnresolved, int64(st.Reconcile.Dropped))
			r.metrics.RecordRows(e.Name, metrics.KindTransformed, int64(st.Output))
		}
		return nil
	}); err != nil {
		return err
	}

	// Findings never fail the run.
	_ = r.step("validate", func() error {
		r.summary.Reports = validate.New(r.logger).Validate(ordered)
		if r.opts.QualityReport == "" {
			return nil
		}
		if err := validate.SaveWorkbook(r.opts.QualityReport, r.summary.Reports); err != nil {
			r.logger.Warn("validate.report_failed", "path", r.opts.QualityReport, "err", err)
			return nil
		}
		r.logger.Info("validate.report_written", "path", r.opts.QualityReport)
		return nil
	})

	var star *model.Model
	if err := r.step("model", func() error {
		var err error
		star, err = model.Build(cleaned)
		return err
	}); err != nil {
		return err
	}

	if r.opts.DryRun {
		r.logger.Info("pipeline.dry_run", "tables", len(star.Tables()))
		return nil
	}

	l := load.New(tgt, r.opts.Load, r.logger, r.metrics)
	for _, part := range []struct {
		step   string
		tables []*records.Table
	}{
		{"load_dimensions", star.Dimensions},
		{"load_facts", star.Facts},
	} {
		if err := r.step(part.step, func() error {
			counts, err := l.LoadAll(ctx, part.tables)
			for name, n := range counts {
				r.summary.Loaded[name] = n
			}
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}
