package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced but does
	// not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "target.server"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static checks over cfg and returns every finding.
// kinds lists the storage kinds registered in this binary; when empty, kind
// names are not checked against it.
func Validate(cfg Config, kinds []string) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}

	issues = append(issues, validateEndpoint("source", cfg.Source, kinds)...)
	if !cfg.DryRun {
		issues = append(issues, validateEndpoint("target", cfg.Target, kinds)...)
		if sameEndpoint(cfg.Source, cfg.Target) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "target.database",
				Message:  "target points at the source database; warehouse tables will be created next to operational tables",
			})
		}
	}

	if cfg.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "batch_size",
			Message:  fmt.Sprintf("batch_size must be > 0, got %d", cfg.BatchSize),
		})
	}

	if p := cfg.QualityReport; p != "" && !strings.EqualFold(filepath.Ext(p), ".xlsx") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "quality_report",
			Message:  fmt.Sprintf("quality report %q is written as an Excel workbook; use an .xlsx extension", p),
		})
	}

	issues = append(issues, validateMetrics(cfg.Metrics)...)

	switch strings.ToLower(cfg.Log.Format) {
	case "", "text", "json":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "log.format",
			Message:  fmt.Sprintf("unknown log format %q; falling back to text", cfg.Log.Format),
		})
	}

	return issues
}

func validateEndpoint(path string, e Endpoint, kinds []string) []Issue {
	var issues []Issue

	if strings.TrimSpace(e.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  path + ".kind must not be empty",
		})
	}
	if len(kinds) > 0 && !contains(kinds, e.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  fmt.Sprintf("unsupported storage kind %q; available: %s", e.Kind, strings.Join(kinds, ", ")),
		})
	}

	if e.DSN != "" {
		return issues
	}

	if strings.TrimSpace(e.Database) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".database",
			Message:  "database must not be empty (file path for sqlite)",
		})
	}
	if e.Kind == "sqlite" {
		return issues
	}

	if strings.TrimSpace(e.Server) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".server",
			Message:  "server must not be empty",
		})
	}
	if e.Password == DefaultPassword {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     path + ".password",
			Message:  "using the built-in development password",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch strings.ToLower(m.Backend) {
	case "", "none":
	case "prometheus", "prom":
		if m.PushgatewayURL == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "prometheus backend requires a pushgateway URL",
			})
		} else if u, err := url.Parse(m.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  fmt.Sprintf("invalid pushgateway URL %q", m.PushgatewayURL),
			})
		}
	case "datadog", "dogstatsd":
		if m.DatadogAddr == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires a DogStatsD address",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q", m.Backend),
		})
	}
	return issues
}

func sameEndpoint(a, b Endpoint) bool {
	if a.DSN != "" || b.DSN != "" {
		return a.DSN == b.DSN && a.Kind == b.Kind
	}
	return a.Kind == b.Kind &&
		strings.EqualFold(a.Server, b.Server) &&
		strings.EqualFold(a.Database, b.Database)
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
