// Package config centralizes process configuration for the retail ETL. All
// tunables come from command-line flags whose defaults are seeded from
// environment variables (12-factor friendly), optionally overlaid by a JSON
// file. Flags are defined first so that -help shows every knob.
//
// Precedence, lowest to highest:
//
//  1. Built-in defaults.
//  2. Environment values (including a .env file, see DotEnvGetenv).
//  3. The -config JSON file, validated against an embedded JSON Schema.
//  4. Explicit CLI flags.
//
// Typical usage:
//
//	cfg, err := config.Load()
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg, err := config.LoadFromArgs(fs, getenv, []string{"-batch_size=10"})
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Endpoint describes one database connection. DSN, when set, wins over the
// discrete fields.
type Endpoint struct {
	Kind     string `json:"kind"`
	Server   string `json:"server"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	DSN      string `json:"dsn,omitempty"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "prometheus" or "datadog".
	Backend        string `json:"backend"`
	PushgatewayURL string `json:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Config holds all process configuration. All fields are plain values so
// the struct can be copied freely after construction.
type Config struct {
	// Job names the pipeline in logs and metrics.
	Job string `json:"job"`

	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`

	// BatchSize is the number of rows per bulk-copy call.
	BatchSize int `json:"batch_size"`
	// AutoCreateTables creates missing warehouse tables before loading.
	AutoCreateTables bool `json:"auto_create_tables"`
	// DryRun runs extract through model and skips the target entirely.
	DryRun bool `json:"dry_run"`
	// QualityReport, when set, is the path of an .xlsx data-quality report.
	QualityReport string `json:"quality_report"`

	Metrics Metrics `json:"metrics"`
	Log     Log     `json:"log"`

	// ValidateOnly checks configuration and exits. CLI only.
	ValidateOnly bool `json:"-"`
	// File is the path of the JSON overlay, if any. CLI only.
	File string `json:"-"`
}

// Defaults for the connection fields match a local SQL Server developer
// setup: the operational store and the warehouse live on the same instance.
const (
	DefaultServer   = "localhost,1433"
	DefaultUser     = "sa"
	DefaultPassword = "YourStrongPassword123!"
	DefaultSourceDB = "interview_db"
	DefaultTargetDB = "interview_dw"
	DefaultKind     = "mssql"
)

// LoadFromArgs builds a Config by defining flags on fs, seeding each flag's
// default from getenv, parsing args, and applying the optional -config file.
// Flags explicitly present in args always win over the file.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := &Config{}

	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		if v := strings.ToLower(getenv(k)); v != "" {
			switch v {
			case "1", "true", "yes", "on":
				return true
			case "0", "false", "no", "off":
				return false
			}
		}
		return d
	}

	fs.StringVar(&cfg.Job, "job", envOrDefaultFn("ETL_JOB", "retail-etl"), "Job name used in logs and metrics")
	fs.StringVar(&cfg.File, "config", getenv("ETL_CONFIG"), "Optional JSON config file overlay")
	fs.BoolVar(&cfg.ValidateOnly, "validate", false, "Validate configuration and exit")

	// Source (operational store).
	fs.StringVar(&cfg.Source.Kind, "source_kind", envOrDefaultFn("DB_KIND", DefaultKind), "Source storage kind: mssql, postgres, mysql, sqlite")
	fs.StringVar(&cfg.Source.Server, "source_server", envOrDefaultFn("DB_SERVER", DefaultServer), "Source server (host,port)")
	fs.StringVar(&cfg.Source.Database, "source_database", envOrDefaultFn("DB_NAME", DefaultSourceDB), "Source database (file path for sqlite)")
	fs.StringVar(&cfg.Source.Username, "source_username", envOrDefaultFn("DB_USER", DefaultUser), "Source user")
	fs.StringVar(&cfg.Source.Password, "source_password", envOrDefaultFn("DB_PASSWORD", DefaultPassword), "Source password")
	fs.StringVar(&cfg.Source.DSN, "source_dsn", getenv("DB_DSN"), "Full source DSN (overrides discrete fields)")

	// Target (warehouse).
	fs.StringVar(&cfg.Target.Kind, "target_kind", envOrDefaultFn("DW_KIND", DefaultKind), "Target storage kind: mssql, postgres, mysql, sqlite")
	fs.StringVar(&cfg.Target.Server, "target_server", envOrDefaultFn("DW_SERVER", DefaultServer), "Warehouse server (host,port)")
	fs.StringVar(&cfg.Target.Database, "target_database", envOrDefaultFn("DW_NAME", DefaultTargetDB), "Warehouse database (file path for sqlite)")
	fs.StringVar(&cfg.Target.Username, "target_username", envOrDefaultFn("DW_USER", DefaultUser), "Warehouse user")
	fs.StringVar(&cfg.Target.Password, "target_password", envOrDefaultFn("DW_PASSWORD", DefaultPassword), "Warehouse password")
	fs.StringVar(&cfg.Target.DSN, "target_dsn", getenv("DW_DSN"), "Full warehouse DSN (overrides discrete fields)")

	// Loading.
	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOrDefaultFn("BATCH_SIZE", 5000), "Rows per bulk-copy call")
	fs.BoolVar(&cfg.AutoCreateTables, "auto_create_tables", boolEnvOrDefaultFn("AUTO_CREATE_TABLES", true), "Create missing warehouse tables before loading")
	fs.BoolVar(&cfg.DryRun, "dry_run", boolEnvOrDefaultFn("DRY_RUN", false), "Extract, transform and model without touching the warehouse")
	fs.StringVar(&cfg.QualityReport, "quality_report", getenv("QUALITY_REPORT"), "Write the data-quality report to this .xlsx path")

	// Observability.
	fs.StringVar(&cfg.Metrics.Backend, "metrics_backend", envOrDefaultFn("METRICS_BACKEND", "none"), "Metrics backend: none, prometheus, datadog")
	fs.StringVar(&cfg.Metrics.PushgatewayURL, "pushgateway_url", getenv("PUSHGATEWAY_URL"), "Prometheus Pushgateway URL")
	fs.StringVar(&cfg.Metrics.DatadogAddr, "datadog_addr", envOrDefaultFn("DATADOG_ADDR", "127.0.0.1:8125"), "DogStatsD address")
	fs.StringVar(&cfg.Log.Level, "log_level", envOrDefaultFn("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.Log.Format, "log_format", envOrDefaultFn("LOG_FORMAT", "text"), "Log format: text, json")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.File == "" {
		return cfg, nil
	}

	// Remember explicit flags so they can be re-applied over the file.
	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })

	if err := applyFile(cfg, cfg.File); err != nil {
		return nil, err
	}
	for name, v := range explicit {
		if err := fs.Set(name, v); err != nil {
			return nil, fmt.Errorf("reapply -%s: %w", name, err)
		}
	}
	return cfg, nil
}

// Load is the production entry point. It layers a .env file (if present)
// under the process environment and parses os.Args[1:] on flag.CommandLine.
func Load() (*Config, error) {
	getenv, err := DotEnvGetenv(os.Getenv)
	if err != nil {
		return nil, err
	}
	return LoadFromArgs(flag.CommandLine, getenv, os.Args[1:])
}
