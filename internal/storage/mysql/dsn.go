package mysql

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"retailetl/internal/storage"
)

// BuildDSN assembles a go-sql-driver DSN from the discrete connection
// fields. ParseTime is enabled so DATETIME columns scan as time.Time.
func BuildDSN(cfg storage.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return "", fmt.Errorf("mysql: host must not be empty")
	}
	host = strings.Replace(host, ",", ":", 1)
	if !strings.Contains(host, ":") {
		host += ":3306"
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = host
	mc.DBName = cfg.Database
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}
