package dialect

import (
	"github.com/go-sql-driver/mysql"
)

// MysqlDialect reaches ClickHouse through its MySQL wire interface.
type MysqlDialect struct{}

func (d *MysqlDialect) DriverName() string { return "mysql" }

func (d *MysqlDialect) DefaultPort() int { return 9004 }

func (d *MysqlDialect) DSN(cfg ConnConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = hostPort(cfg, d.DefaultPort())
	c.DBName = databaseOrDefault(cfg)
	// ClickHouse does not implement COM_STMT_PREPARE.
	c.InterpolateParams = true
	if len(cfg.Settings) > 0 {
		c.Params = make(map[string]string, len(cfg.Settings))
		for k, v := range cfg.Settings {
			c.Params[k] = v
		}
	}
	return c.FormatDSN()
}

func (d *MysqlDialect) ColumnsQuery(database, table string) string {
	return DefaultColumnsQuery(database, table)
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}
