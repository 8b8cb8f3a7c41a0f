package dialect

// ConnConfig holds the connection parameters forwarded to the driver.
type ConnConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// Database is the database the connection starts in, "default" when empty.
	Database string
	Compress bool
	// Settings are passed through to the DSN query string unexamined.
	Settings map[string]string
}

// Dialect abstracts the wire protocol used to reach ClickHouse.
// All three speak ClickHouse SQL, they differ in driver and DSN.
type Dialect interface {
	// DriverName is the database/sql driver the dialect registers under.
	DriverName() string
	DefaultPort() int
	DSN(cfg ConnConfig) string

	// Metadata Queries (Schema Introspection)
	ColumnsQuery(database, table string) string

	// Helpers
	NormalizeType(sqlType string) string
}
