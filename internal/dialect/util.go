package dialect

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"chorm/internal/datatype"
)

// DefaultColumnsQuery reads a table's columns from system.columns in declared order.
// The names are embedded as literals: the MySQL and PostgreSQL interfaces
// have limited prepared statement support.
func DefaultColumnsQuery(database, table string) string {
	return fmt.Sprintf(
		"SELECT name, type FROM system.columns WHERE database = %s AND table = %s ORDER BY position",
		datatype.Quote(database), datatype.Quote(table))
}

// DefaultNormalizeType drops the padding some interfaces add to type names.
func DefaultNormalizeType(sqlType string) string {
	return strings.TrimSpace(sqlType)
}

func hostPort(cfg ConnConfig, defaultPort int) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func databaseOrDefault(cfg ConnConfig) string {
	if cfg.Database == "" {
		return "default"
	}
	return cfg.Database
}
