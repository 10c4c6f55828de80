package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"retailetl/internal/config"
	"retailetl/internal/load"
	"retailetl/internal/logging"
	"retailetl/internal/metrics"
	"retailetl/internal/metrics/datadog"
	"retailetl/internal/metrics/prompush"
	"retailetl/internal/pipeline"
	"retailetl/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "retailetl/internal/storage/all"
)

// main loads configuration, wires logging and metrics, and executes one
// warehouse run.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	getenv, err := config.DotEnvGetenv(os.Getenv)
	if err != nil {
		fatalf("load .env: %v", err)
	}
	code := run(ctx, flag.CommandLine, getenv, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process plumbing; it returns the exit code.
func run(ctx context.Context, fs *flag.FlagSet, getenv func(string) string, args []string, stderr io.Writer) int {
	cfg, err := config.LoadFromArgs(fs, getenv, args)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	issues := config.Validate(*cfg, storage.ListKinds())
	for _, iss := range issues {
		fmt.Fprintln(stderr, iss.Error())
	}
	if config.HasErrors(issues) {
		fmt.Fprintln(stderr, "configuration is invalid")
		return 1
	}
	if cfg.ValidateOnly {
		fmt.Fprintln(stderr, "configuration is valid")
		return 0
	}

	runID := uuid.NewString()
	logger := logging.ForRun(logging.New(stderr, cfg.Log.Level, cfg.Log.Format), cfg.Job, runID)

	rec := metrics.New(cfg.Job, newMetricsBackend(cfg, runID, logger))
	defer func() {
		if err := rec.Flush(); err != nil {
			logger.Warn("metrics.flush_failed", "err", err)
		}
	}()

	opts := pipeline.Options{
		DryRun:        cfg.DryRun,
		QualityReport: cfg.QualityReport,
		Load: load.Options{
			Kind:       cfg.Target.Kind,
			BatchSize:  cfg.BatchSize,
			AutoCreate: cfg.AutoCreateTables,
		},
	}
	runner := pipeline.New(opts,
		pipeline.StorageOpener(storageConfig(cfg.Source)),
		pipeline.StorageOpener(storageConfig(cfg.Target)),
		logger, rec,
	)
	if err := runner.Run(ctx); err != nil {
		return 1
	}
	return 0
}

func storageConfig(e config.Endpoint) storage.Config {
	return storage.Config{
		Kind:     e.Kind,
		DSN:      e.DSN,
		Host:     e.Server,
		Database: e.Database,
		User:     e.Username,
		Password: e.Password,
	}
}

// newMetricsBackend picks the backend named in cfg. Failures fall back to a
// nop backend; metrics never stop a run.
func newMetricsBackend(cfg *config.Config, runID string, logger *slog.Logger) metrics.Backend {
	switch cfg.Metrics.Backend {
	case "prometheus", "prom":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			logger.Warn("metrics.init_failed", "backend", cfg.Metrics.Backend, "err", err)
			return metrics.Nop()
		}
		logger.Info("metrics.enabled", "backend", "prometheus", "url", cfg.Metrics.PushgatewayURL)
		return b.WithRunID(runID)

	case "datadog", "dogstatsd":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.DatadogAddr,
			Namespace:  "retail.",
			GlobalTags: []string{"service:" + cfg.Job},
		})
		if err != nil {
			logger.Warn("metrics.init_failed", "backend", cfg.Metrics.Backend, "err", err)
			return metrics.Nop()
		}
		logger.Info("metrics.enabled", "backend", "datadog", "addr", cfg.Metrics.DatadogAddr)
		return b

	default:
		logger.Debug("metrics.disabled", "backend", cfg.Metrics.Backend)
		return metrics.Nop()
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
