// Package syncer reconciles a table definition with the live table:
// introspect, create when absent, add missing columns when drifted.
package syncer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"chorm/internal/ddl"
	"chorm/internal/schema"
)

// ErrTableMissing is returned for an absent table whose definition does not allow creating it.
var ErrTableMissing = errors.New("table missing")

// Executor is the part of the execution client the synchronizer needs.
type Executor interface {
	Exec(ctx context.Context, query string) (sql.Result, error)
	Columns(ctx context.Context, database, table string) (*schema.TableMetadata, error)
}

// Stage names the step a synchronization failed in.
type Stage string

const (
	StageIntrospect Stage = "introspect"
	StageCreate     Stage = "create"
	StageAlter      Stage = "alter"
)

// SyncError reports a failed synchronization of one table.
type SyncError struct {
	Table string
	Stage Stage
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %s: %v", e.Table, e.Stage, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Action is what a synchronization did to the table.
type Action int

const (
	ActionNone Action = iota
	ActionCreated
	ActionAltered
)

func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionAltered:
		return "altered"
	}
	return "none"
}

// Result describes a finished synchronization.
type Result struct {
	Action Action
	// Statement is the DDL that was executed, empty for ActionNone.
	Statement string
	Drift     schema.Drift
}

type Syncer struct {
	exec   Executor
	logger *slog.Logger
	// Trace logs every DDL statement at debug level before it runs.
	Trace bool
}

// New returns a Syncer. A nil logger discards.
func New(exec Executor, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Syncer{exec: exec, logger: logger}
}

// Sync brings database.def.Table in line with def. Live columns that are not
// declared are left alone and live types are never changed.
func (s *Syncer) Sync(ctx context.Context, database string, def *schema.Definition) (*Result, error) {
	fail := func(stage Stage, err error) (*Result, error) {
		return nil, &SyncError{Table: ddl.Qualify(database, def.Table), Stage: stage, Err: err}
	}

	// Metadata is read fresh on every call.
	meta, err := s.exec.Columns(ctx, database, def.Table)
	if err != nil {
		return fail(StageIntrospect, err)
	}

	if !meta.Exists() {
		if !def.AutoCreate {
			return fail(StageIntrospect, ErrTableMissing)
		}
		stmt, err := ddl.CreateTable(database, def)
		if err != nil {
			return fail(StageCreate, err)
		}
		if err := s.run(ctx, def.Table, stmt); err != nil {
			return fail(StageCreate, err)
		}
		return &Result{Action: ActionCreated, Statement: stmt}, nil
	}

	drift, err := schema.Diff(def, meta)
	if err != nil {
		return fail(StageAlter, err)
	}
	for _, c := range drift.Extra {
		s.logger.Info("undeclared column kept", "table", def.Table, "column", c.Name, "type", c.Type)
	}
	for _, c := range drift.Changed {
		s.logger.Warn("column type drift", "table", def.Table, "column", c.Column, "declared", c.Declared, "observed", c.Observed)
	}

	res := &Result{Action: ActionNone, Drift: drift}
	if len(drift.Missing) == 0 {
		return res, nil
	}
	if !def.AutoSync {
		for _, c := range drift.Missing {
			s.logger.Warn("declared column missing", "table", def.Table, "column", c.Name)
		}
		return res, nil
	}

	stmt, err := ddl.AlterTable(database, def.Table, drift.Missing)
	if err != nil {
		return fail(StageAlter, err)
	}
	if err := s.run(ctx, def.Table, stmt); err != nil {
		return fail(StageAlter, err)
	}
	res.Action = ActionAltered
	res.Statement = stmt
	return res, nil
}

func (s *Syncer) run(ctx context.Context, table, stmt string) error {
	if s.Trace {
		s.logger.Debug("executing", "table", table, "sql", stmt)
	}
	_, err := s.exec.Exec(ctx, stmt)
	return err
}
