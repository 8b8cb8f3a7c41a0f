// Package query turns structured requests into ClickHouse SQL text.
//
// Where, GroupBy and OrderBy are caller-supplied fragments. They are not
// parsed or escaped; guarding them against injection is the caller's job.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chorm/internal/datatype"
	"chorm/internal/ddl"
	"chorm/internal/schema"
)

var (
	// ErrMissingWhere guards against deleting every row of a table.
	ErrMissingWhere = errors.New("delete requires a where clause")
	// ErrNoRows is returned when an insert has nothing to insert.
	ErrNoRows = errors.New("no rows to insert")
	// ErrNoRequest is returned by Find without any request.
	ErrNoRequest = errors.New("no find request")
)

// Request describes one SELECT. Zero values mean "absent".
type Request struct {
	Select  string
	Where   string
	GroupBy string
	OrderBy string
	Limit   int
	Offset  int
}

func (r Request) projection() string {
	if s := strings.TrimSpace(r.Select); s != "" {
		return s
	}
	return "*"
}

func (r Request) clauses() string {
	var b strings.Builder
	if w := strings.TrimSpace(r.Where); w != "" {
		b.WriteString(" WHERE " + w)
	}
	if g := strings.TrimSpace(r.GroupBy); g != "" {
		b.WriteString(" GROUP BY " + g)
	}
	if o := strings.TrimSpace(r.OrderBy); o != "" {
		b.WriteString(" ORDER BY " + o)
	}
	if r.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(r.Limit))
		if r.Offset > 0 {
			b.WriteString(" OFFSET " + strconv.Itoa(r.Offset))
		}
	}
	return b.String()
}

// Find renders a SELECT over database.table. With several requests the first
// one reads the table and every following one selects from the previous as a
// derived table.
func Find(database, table string, reqs ...Request) (string, error) {
	if len(reqs) == 0 {
		return "", ErrNoRequest
	}
	source := ddl.Qualify(database, table)
	var stmt string
	for i, r := range reqs {
		if i > 0 {
			source = "(" + stmt + ")"
		}
		stmt = "SELECT " + r.projection() + " FROM " + source + r.clauses()
	}
	return stmt, nil
}

// Delete renders a mutation deleting the rows matching r.Where.
func Delete(database, table string, r Request) (string, error) {
	w := strings.TrimSpace(r.Where)
	if w == "" {
		return "", ErrMissingWhere
	}
	return fmt.Sprintf("ALTER TABLE %s DELETE WHERE %s", ddl.Qualify(database, table), w), nil
}

// Row is a set of column values for one insert row.
type Row map[string]any

// Insert renders one INSERT with a VALUES tuple per row, in input order.
// Every declared column is written in declared order: a column missing from a
// row takes its Default, or the type's zero literal.
func Insert(database string, def *schema.Definition, rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}

	tuples := make([]string, len(rows))
	for i, row := range rows {
		values := make([]string, len(def.Columns))
		for j, c := range def.Columns {
			v, ok := row[c.Name]
			if !ok {
				if c.Default == nil {
					values[j] = datatype.Zero(c.Type)
					continue
				}
				v = c.Default()
			}
			lit, err := datatype.CoerceIn(v, c.Type)
			if err != nil {
				return "", fmt.Errorf("row %d column %s: %w", i, c.Name, err)
			}
			values[j] = lit
		}
		tuples[i] = "(" + strings.Join(values, ", ") + ")"
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		ddl.Qualify(database, def.Table),
		strings.Join(def.ColumnNames(), ", "),
		strings.Join(tuples, ", ")), nil
}

// Count is a shorthand request for the number of rows matching where.
func Count(where string) Request {
	return Request{Select: "count() AS total", Where: where}
}
