package schema

import (
	"errors"
	"fmt"
	"regexp"

	"chorm/internal/datatype"
)

// ErrInvalidDefinition is returned when a table definition cannot be registered.
var ErrInvalidDefinition = errors.New("invalid table definition")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name can be used unquoted as a database, table or column name.
func ValidIdentifier(name string) bool {
	return identRe.MatchString(name)
}

// Column is one declared column of a table.
type Column struct {
	Name string
	Type datatype.Type
	// Default supplies a value when an inserted row has none for this column.
	Default func() any
	// RawType replaces the rendered Type in DDL, e.g. "DateTime64(3, 'UTC')".
	RawType string
}

// SQLType is the type text used in CREATE and ALTER statements.
func (c Column) SQLType() (string, error) {
	if c.RawType != "" {
		return c.RawType, nil
	}
	return datatype.RawType(c.Type)
}

// Definition is the declared shape of a table. Column order is the order
// used in generated DDL and inserts.
type Definition struct {
	Table   string
	Columns []Column
	// Options is appended verbatim after the column list (ENGINE, PARTITION BY, ORDER BY ...).
	Options    string
	AutoCreate bool
	AutoSync   bool
	// CreateTable, when set, replaces the generated CREATE TABLE statement.
	// It receives the qualified "db.table" name.
	CreateTable func(qualifiedName string) string
}

// Validate checks names and column types before any statement is built.
func (d *Definition) Validate() error {
	if !identRe.MatchString(d.Table) {
		return fmt.Errorf("%w: bad table name %q", ErrInvalidDefinition, d.Table)
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", ErrInvalidDefinition, d.Table)
	}
	seen := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if !identRe.MatchString(c.Name) {
			return fmt.Errorf("%w: bad column name %q in %s", ErrInvalidDefinition, c.Name, d.Table)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate column %s in %s", ErrInvalidDefinition, c.Name, d.Table)
		}
		seen[c.Name] = true
		if err := c.Type.Validate(); err != nil {
			return fmt.Errorf("column %s.%s: %w", d.Table, c.Name, err)
		}
	}
	return nil
}

// Column looks up a declared column by name.
func (d *Definition) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (d *Definition) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnInfo is a column as reported by the database catalog.
type ColumnInfo struct {
	Name string
	Type string
}

// TableMetadata is the live shape of a table. An absent table has no columns.
type TableMetadata struct {
	Database string
	Table    string
	Columns  []ColumnInfo
}

func (m *TableMetadata) Exists() bool {
	return m != nil && len(m.Columns) > 0
}

func (m *TableMetadata) Lookup(name string) (ColumnInfo, bool) {
	if m == nil {
		return ColumnInfo{}, false
	}
	for _, c := range m.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}
