package postgres

import (
	"fmt"
	"net/url"
	"strings"

	"retailetl/internal/storage"
)

// BuildDSN assembles a postgres:// URL from the discrete connection fields.
// A "host,port" server string is accepted for parity with SQL Server
// configuration.
func BuildDSN(cfg storage.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return "", fmt.Errorf("postgres: host must not be empty")
	}
	u := &url.URL{
		Scheme:   "postgres",
		Host:     strings.Replace(host, ",", ":", 1),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=disable",
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String(), nil
}
