package dialect

import (
	"net/url"
	"strings"
)

// PostgresDialect reaches ClickHouse through its PostgreSQL wire interface.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DefaultPort() int { return 9005 }

func (d *PostgresDialect) DSN(cfg ConnConfig) string {
	q := url.Values{}
	q.Set("sslmode", "disable")
	for k, v := range cfg.Settings {
		q.Set(k, v)
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     hostPort(cfg, d.DefaultPort()),
		Path:     "/" + databaseOrDefault(cfg),
		RawQuery: q.Encode(),
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

func (d *PostgresDialect) ColumnsQuery(database, table string) string {
	return DefaultColumnsQuery(database, table)
}

// NormalizeType strips the quoting the PostgreSQL interface may add around type text.
func (d *PostgresDialect) NormalizeType(sqlType string) string {
	return strings.Trim(DefaultNormalizeType(sqlType), `"`)
}
