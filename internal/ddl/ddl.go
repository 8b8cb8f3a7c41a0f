// Package ddl renders CREATE and ALTER statements from table definitions.
// Only additive changes are produced: columns are never dropped or retyped.
package ddl

import (
	"fmt"
	"strings"

	"chorm/internal/schema"
)

// DefaultEngine is used by CreateDatabase when no engine is given.
const DefaultEngine = "Atomic"

// Qualify returns the "db.table" name used in every statement.
func Qualify(database, table string) string {
	return database + "." + table
}

// CreateDatabase renders an idempotent CREATE DATABASE statement.
func CreateDatabase(name, engine string) string {
	if engine == "" {
		engine = DefaultEngine
	}
	return fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s ENGINE = %s", name, engine)
}

// CreateTable renders the CREATE TABLE statement for def, columns in declared
// order. A definition with its own CreateTable generator gets that text verbatim.
func CreateTable(database string, def *schema.Definition) (string, error) {
	name := Qualify(database, def.Table)
	if def.CreateTable != nil {
		return def.CreateTable(name), nil
	}

	cols, err := columnList(def.Table, def.Columns)
	if err != nil {
		return "", err
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", name, strings.Join(cols, ", "))
	if opts := strings.TrimSpace(def.Options); opts != "" {
		stmt += " " + opts
	}
	return stmt, nil
}

// AlterTable renders one ADD COLUMN clause per missing column, order kept.
// It returns "" when nothing is missing.
func AlterTable(database, table string, missing []schema.Column) (string, error) {
	if len(missing) == 0 {
		return "", nil
	}
	cols, err := columnList(table, missing)
	if err != nil {
		return "", err
	}
	clauses := make([]string, len(cols))
	for i, c := range cols {
		clauses[i] = "ADD COLUMN " + c
	}
	return fmt.Sprintf("ALTER TABLE %s %s", Qualify(database, table), strings.Join(clauses, ", ")), nil
}

func columnList(table string, columns []schema.Column) ([]string, error) {
	out := make([]string, len(columns))
	for i, c := range columns {
		typ, err := c.SQLType()
		if err != nil {
			return nil, fmt.Errorf("column %s.%s: %w", table, c.Name, err)
		}
		out[i] = c.Name + " " + typ
	}
	return out, nil
}
