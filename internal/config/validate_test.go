package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Job:       "retail-etl",
		Source:    Endpoint{Kind: "mssql", Server: "src,1433", Database: "interview_db", Username: "etl", Password: "s3cret"},
		Target:    Endpoint{Kind: "mssql", Server: "dw,1433", Database: "interview_dw", Username: "etl", Password: "s3cret"},
		BatchSize: 100,
		Metrics:   Metrics{Backend: "none"},
		Log:       Log{Level: "info", Format: "text"},
	}
}

func findIssue(issues []Issue, path string) (Issue, bool) {
	for _, iss := range issues {
		if iss.Path == path {
			return iss, true
		}
	}
	return Issue{}, false
}

func TestValidate_ValidConfigHasNoIssues(t *testing.T) {
	t.Parallel()

	if issues := Validate(validConfig(), []string{"mssql", "sqlite"}); len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Config)
		path     string
		severity IssueSeverity
	}{
		{name: "empty job", mutate: func(c *Config) { c.Job = " " }, path: "job", severity: SeverityError},
		{name: "empty source kind", mutate: func(c *Config) { c.Source.Kind = "" }, path: "source.kind", severity: SeverityError},
		{name: "unregistered kind", mutate: func(c *Config) { c.Target.Kind = "oracle" }, path: "target.kind", severity: SeverityError},
		{name: "missing server", mutate: func(c *Config) { c.Source.Server = "" }, path: "source.server", severity: SeverityError},
		{name: "missing database", mutate: func(c *Config) { c.Target.Database = "" }, path: "target.database", severity: SeverityError},
		{name: "default password", mutate: func(c *Config) { c.Target.Password = DefaultPassword }, path: "target.password", severity: SeverityWarning},
		{name: "batch size", mutate: func(c *Config) { c.BatchSize = 0 }, path: "batch_size", severity: SeverityError},
		{name: "report extension", mutate: func(c *Config) { c.QualityReport = "q.csv" }, path: "quality_report", severity: SeverityWarning},
		{name: "prom without url", mutate: func(c *Config) { c.Metrics.Backend = "prometheus" }, path: "metrics.pushgateway_url", severity: SeverityError},
		{name: "prom bad url", mutate: func(c *Config) {
			c.Metrics.Backend = "prometheus"
			c.Metrics.PushgatewayURL = "not a url"
		}, path: "metrics.pushgateway_url", severity: SeverityError},
		{name: "datadog without addr", mutate: func(c *Config) { c.Metrics.Backend = "datadog" }, path: "metrics.datadog_addr", severity: SeverityError},
		{name: "unknown metrics", mutate: func(c *Config) { c.Metrics.Backend = "graphite" }, path: "metrics.backend", severity: SeverityError},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, path: "log.format", severity: SeverityWarning},
		{name: "same endpoint", mutate: func(c *Config) { c.Target = c.Source }, path: "target.database", severity: SeverityWarning},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			issues := Validate(cfg, []string{"mssql", "postgres", "sqlite"})

			iss, ok := findIssue(issues, tt.path)
			if !ok {
				t.Fatalf("no issue at %s; got %v", tt.path, issues)
			}
			if iss.Severity != tt.severity {
				t.Fatalf("severity = %s, want %s (%s)", iss.Severity, tt.severity, iss.Message)
			}
			if HasErrors(issues) != (tt.severity == SeverityError) {
				t.Fatalf("HasErrors = %v for %v", HasErrors(issues), issues)
			}
		})
	}
}

func TestValidate_SQLiteNeedsOnlyDatabase(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Target = Endpoint{Kind: "sqlite", Database: "dw.db"}
	if issues := Validate(cfg, nil); len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
}

func TestValidate_DSNSkipsDiscreteFields(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Source = Endpoint{Kind: "postgres", DSN: "postgres://u:p@h/db"}
	if issues := Validate(cfg, nil); len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
}

func TestValidate_DryRunIgnoresTarget(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.DryRun = true
	cfg.Target = Endpoint{}
	if issues := Validate(cfg, nil); len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
}

func TestIssueError(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "batch_size", Message: "must be > 0"}
	if got := iss.Error(); !strings.Contains(got, "error at batch_size: must be > 0") {
		t.Fatalf("Error() = %q", got)
	}
}
