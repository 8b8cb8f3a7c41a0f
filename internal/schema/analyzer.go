package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"chorm/internal/dialect"
)

// Introspect reads the live columns of database.table in catalog order.
// A missing table yields metadata with no columns, not an error.
func Introspect(ctx context.Context, db *sql.DB, d dialect.Dialect, database, table string) (*TableMetadata, error) {
	meta := &TableMetadata{Database: database, Table: table}

	rows, err := db.QueryContext(ctx, d.ColumnsQuery(database, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s.%s: %w", database, table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, typ sql.NullString
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s.%s): %w", database, table, err)
		}
		if !name.Valid {
			continue
		}
		meta.Columns = append(meta.Columns, ColumnInfo{
			Name: name.String,
			Type: d.NormalizeType(typ.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return meta, nil
}

// TypeChange is a column whose live type differs from the declared one.
type TypeChange struct {
	Column   string
	Declared string
	Observed string
}

// Drift is the difference between a definition and the live table.
type Drift struct {
	// Missing holds declared columns absent from the table, in declared order.
	Missing []Column
	// Extra holds live columns that are not declared. They are never dropped.
	Extra   []ColumnInfo
	Changed []TypeChange
}

func (d Drift) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Changed) == 0
}

// Diff compares a definition against introspected metadata.
func Diff(def *Definition, meta *TableMetadata) (Drift, error) {
	var drift Drift
	declared := make(map[string]bool, len(def.Columns))

	for _, c := range def.Columns {
		declared[c.Name] = true
		live, ok := meta.Lookup(c.Name)
		if !ok {
			drift.Missing = append(drift.Missing, c)
			continue
		}
		want, err := c.SQLType()
		if err != nil {
			return Drift{}, fmt.Errorf("column %s.%s: %w", def.Table, c.Name, err)
		}
		if compactType(want) != compactType(live.Type) {
			drift.Changed = append(drift.Changed, TypeChange{Column: c.Name, Declared: want, Observed: live.Type})
		}
	}
	if meta != nil {
		for _, c := range meta.Columns {
			if !declared[c.Name] {
				drift.Extra = append(drift.Extra, c)
			}
		}
	}
	return drift, nil
}

func compactType(t string) string {
	return strings.ReplaceAll(t, " ", "")
}
