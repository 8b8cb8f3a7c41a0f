package dialect

import (
	"net/url"
)

// ClickHouseDialect talks the native protocol through clickhouse-go.
type ClickHouseDialect struct{}

func (d *ClickHouseDialect) DriverName() string { return "clickhouse" }

func (d *ClickHouseDialect) DefaultPort() int { return 9000 }

func (d *ClickHouseDialect) DSN(cfg ConnConfig) string {
	q := url.Values{}
	for k, v := range cfg.Settings {
		q.Set(k, v)
	}
	if cfg.Compress {
		q.Set("compress", "lz4")
	}
	u := url.URL{
		Scheme:   "clickhouse",
		Host:     hostPort(cfg, d.DefaultPort()),
		Path:     "/" + databaseOrDefault(cfg),
		RawQuery: q.Encode(),
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

func (d *ClickHouseDialect) ColumnsQuery(database, table string) string {
	return DefaultColumnsQuery(database, table)
}

func (d *ClickHouseDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}
