package dialect

// GetDialect picks the wire protocol for a driver name. Anything unknown talks
// the native ClickHouse protocol.
func GetDialect(driver string) Dialect {
	switch driver {
	case "mysql":
		return &MysqlDialect{}
	case "postgres", "postgresql":
		return &PostgresDialect{}
	default:
		return &ClickHouseDialect{}
	}
}

var (
	_ Dialect = (*ClickHouseDialect)(nil)
	_ Dialect = (*MysqlDialect)(nil)
	_ Dialect = (*PostgresDialect)(nil)
)
