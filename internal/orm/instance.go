package orm

import (
	"context"
	"database/sql"
	"fmt"
	"maps"

	"chorm/internal/datatype"
	"chorm/internal/query"
)

// Instance is one row of a model, saved or not.
type Instance struct {
	model     *Model
	values    map[string]any
	persisted bool
}

// Set assigns a column value. The column must be declared and the value
// convertible to its type.
func (i *Instance) Set(column string, v any) error {
	c, ok := i.model.def.Column(column)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, i.model.def.Table, column)
	}
	if _, err := datatype.CoerceIn(v, c.Type); err != nil {
		return fmt.Errorf("column %s.%s: %w", i.model.def.Table, column, err)
	}
	i.values[column] = v
	return nil
}

func (i *Instance) Get(column string) (any, bool) {
	v, ok := i.values[column]
	return v, ok
}

// Unset removes a value so the column falls back to its default on save.
func (i *Instance) Unset(column string) {
	delete(i.values, column)
}

// Values returns a copy of the assigned values.
func (i *Instance) Values() map[string]any {
	return maps.Clone(i.values)
}

func (i *Instance) Model() *Model { return i.model }

// Persisted reports whether the instance has been saved at least once.
func (i *Instance) Persisted() bool { return i.persisted }

// Save inserts the current values. Every call appends a new row.
func (i *Instance) Save(ctx context.Context) (sql.Result, error) {
	stmt, err := query.Insert(i.model.database, i.model.def, []query.Row{i.values})
	if err != nil {
		return nil, err
	}
	res, err := i.model.run(ctx, stmt)
	if err != nil {
		return nil, err
	}
	i.persisted = true
	return res, nil
}
