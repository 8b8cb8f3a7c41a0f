package orm

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cast"

	"chorm/internal/datatype"
	"chorm/internal/query"
	"chorm/internal/schema"
	"chorm/internal/syncer"
)

// Model is a registered handle on one table. Its database and table never change.
type Model struct {
	def      *schema.Definition
	database string
	exec     Executor
	logger   *slog.Logger
	debug    bool
	synced   syncer.Action
}

func (m *Model) Table() string { return m.def.Table }

// SyncAction reports what registration did to the live table.
func (m *Model) SyncAction() syncer.Action { return m.synced }
func (m *Model) Database() string          { return m.database }

// Definition returns a copy of the registered definition.
func (m *Model) Definition() schema.Definition {
	def := *m.def
	def.Columns = append([]schema.Column(nil), m.def.Columns...)
	return def
}

// Build returns an unsaved instance seeded with fields.
// An undeclared field fails with ErrUnknownColumn.
func (m *Model) Build(fields map[string]any) (*Instance, error) {
	inst := &Instance{model: m, values: make(map[string]any, len(m.def.Columns))}
	for name, v := range fields {
		if err := inst.Set(name, v); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Create builds an instance from fields and saves it.
func (m *Model) Create(ctx context.Context, fields map[string]any) (sql.Result, error) {
	inst, err := m.Build(fields)
	if err != nil {
		return nil, err
	}
	return inst.Save(ctx)
}

// InsertMany writes all instances in one INSERT, in order. An empty list is a
// no-op returning a nil result.
func (m *Model) InsertMany(ctx context.Context, instances []*Instance) (sql.Result, error) {
	if len(instances) == 0 {
		return nil, nil
	}
	rows := make([]query.Row, len(instances))
	for i, inst := range instances {
		if inst == nil {
			return nil, fmt.Errorf("%w: nil instance at %d", ErrForeignInstance, i)
		}
		if inst.model != m {
			return nil, fmt.Errorf("%w: %s", ErrForeignInstance, m.def.Table)
		}
		rows[i] = inst.values
	}

	stmt, err := query.Insert(m.database, m.def, rows)
	if err != nil {
		return nil, err
	}
	res, err := m.run(ctx, stmt)
	if err != nil {
		return nil, err
	}
	for _, inst := range instances {
		inst.persisted = true
	}
	return res, nil
}

// InsertMaps builds an instance per map and inserts them as one batch.
func (m *Model) InsertMaps(ctx context.Context, rows []map[string]any) (sql.Result, error) {
	instances := make([]*Instance, 0, len(rows))
	for i, fields := range rows {
		inst, err := m.Build(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		instances = append(instances, inst)
	}
	return m.InsertMany(ctx, instances)
}

// Find runs one request, or several nested as subqueries (the first is
// innermost). Values of declared columns are converted to their Go types;
// other result columns (aggregates, aliases) are returned as decoded.
func (m *Model) Find(ctx context.Context, reqs ...query.Request) ([]map[string]any, error) {
	stmt, err := query.Find(m.database, m.def.Table, reqs...)
	if err != nil {
		return nil, err
	}
	if m.debug {
		m.logger.Debug("querying", "sql", stmt)
	}
	rows, err := m.exec.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		for name, raw := range row {
			c, ok := m.def.Column(name)
			if !ok {
				continue
			}
			v, err := datatype.CoerceOut(raw, c.Type)
			if err != nil {
				return nil, fmt.Errorf("column %s.%s: %w", m.def.Table, name, err)
			}
			row[name] = v
		}
	}
	return rows, nil
}

// Count returns the number of rows matching where; an empty where counts all rows.
func (m *Model) Count(ctx context.Context, where string) (uint64, error) {
	rows, err := m.Find(ctx, query.Count(where))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := cast.ToUint64E(rows[0]["total"])
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", m.def.Table, err)
	}
	return n, nil
}

// Delete removes the rows matching req.Where. A blank Where is refused
// before anything is sent.
func (m *Model) Delete(ctx context.Context, req query.Request) (sql.Result, error) {
	stmt, err := query.Delete(m.database, m.def.Table, req)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, stmt)
}

func (m *Model) run(ctx context.Context, stmt string) (sql.Result, error) {
	if m.debug {
		m.logger.Debug("executing", "sql", stmt)
	}
	return m.exec.Exec(ctx, stmt)
}
