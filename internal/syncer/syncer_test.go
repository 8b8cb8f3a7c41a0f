package syncer_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"chorm/internal/datatype"
	"chorm/internal/schema"
	"chorm/internal/syncer"
)

type fakeExec struct {
	tables  map[string][]schema.ColumnInfo
	stmts   []string
	colsErr error
	execErr error
}

func (f *fakeExec) Exec(_ context.Context, query string) (sql.Result, error) {
	f.stmts = append(f.stmts, query)
	if f.execErr != nil {
		return nil, f.execErr
	}
	return driverResult(0), nil
}

func (f *fakeExec) Columns(_ context.Context, database, table string) (*schema.TableMetadata, error) {
	if f.colsErr != nil {
		return nil, f.colsErr
	}
	return &schema.TableMetadata{Database: database, Table: table, Columns: f.tables[database+"."+table]}, nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

func definition() *schema.Definition {
	return &schema.Definition{
		Table: "table1",
		Columns: []schema.Column{
			{Name: "status", Type: datatype.Int32},
			{Name: "browser", Type: datatype.String},
		},
		Options:    "ENGINE = MergeTree ORDER BY status",
		AutoCreate: true,
		AutoSync:   true,
	}
}

func TestSync_CreatesAbsentTable(t *testing.T) {
	exec := &fakeExec{}
	res, err := syncer.New(exec, nil).Sync(context.Background(), "orm_test", definition())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Action != syncer.ActionCreated {
		t.Errorf("Action = %s, want created", res.Action)
	}
	if len(exec.stmts) != 1 || !strings.HasPrefix(exec.stmts[0], "CREATE TABLE IF NOT EXISTS orm_test.table1") {
		t.Fatalf("statements = %v, want one CREATE TABLE", exec.stmts)
	}
	for _, s := range exec.stmts {
		if strings.HasPrefix(s, "ALTER") {
			t.Errorf("unexpected ALTER: %s", s)
		}
	}
}

func TestSync_AbsentWithoutAutoCreate(t *testing.T) {
	def := definition()
	def.AutoCreate = false
	exec := &fakeExec{}

	_, err := syncer.New(exec, nil).Sync(context.Background(), "orm_test", def)
	if !errors.Is(err, syncer.ErrTableMissing) {
		t.Fatalf("Sync() error = %v, want ErrTableMissing", err)
	}
	var se *syncer.SyncError
	if !errors.As(err, &se) || se.Table != "orm_test.table1" {
		t.Errorf("error = %#v, want SyncError for orm_test.table1", err)
	}
	if len(exec.stmts) != 0 {
		t.Errorf("statements = %v, want none", exec.stmts)
	}
}

func TestSync_AddsMissingColumnsOnly(t *testing.T) {
	exec := &fakeExec{tables: map[string][]schema.ColumnInfo{
		"orm_test.table1": {
			{Name: "status", Type: "Int32"},
			{Name: "browser_v", Type: "String"},
		},
	}}

	res, err := syncer.New(exec, nil).Sync(context.Background(), "orm_test", definition())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Action != syncer.ActionAltered {
		t.Errorf("Action = %s, want altered", res.Action)
	}
	want := "ALTER TABLE orm_test.table1 ADD COLUMN browser String"
	if len(exec.stmts) != 1 || exec.stmts[0] != want {
		t.Fatalf("statements = %v, want [%s]", exec.stmts, want)
	}
	if strings.Contains(exec.stmts[0], "DROP") {
		t.Errorf("undeclared column must not be dropped: %s", exec.stmts[0])
	}
	if len(res.Drift.Extra) != 1 || res.Drift.Extra[0].Name != "browser_v" {
		t.Errorf("Extra = %v, want [browser_v]", res.Drift.Extra)
	}
}

func TestSync_NoDrift(t *testing.T) {
	exec := &fakeExec{tables: map[string][]schema.ColumnInfo{
		"orm_test.table1": {
			{Name: "status", Type: "Int32"},
			{Name: "browser", Type: "String"},
			{Name: "browser_v", Type: "String"},
		},
	}}
	res, err := syncer.New(exec, nil).Sync(context.Background(), "orm_test", definition())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Action != syncer.ActionNone || len(exec.stmts) != 0 {
		t.Errorf("Action = %s, statements = %v, want none", res.Action, exec.stmts)
	}
}

func TestSync_AutoSyncDisabled(t *testing.T) {
	def := definition()
	def.AutoSync = false
	exec := &fakeExec{tables: map[string][]schema.ColumnInfo{
		"orm_test.table1": {{Name: "status", Type: "Int32"}},
	}}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	res, err := syncer.New(exec, logger).Sync(context.Background(), "orm_test", def)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Action != syncer.ActionNone || len(exec.stmts) != 0 {
		t.Errorf("Action = %s, statements = %v, want none", res.Action, exec.stmts)
	}
	if len(res.Drift.Missing) != 1 {
		t.Errorf("Missing = %v, want [browser]", res.Drift.Missing)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "column=browser") {
		t.Errorf("log = %q, want a warning for browser", out)
	}
}

func TestSync_TraceGatesStatements(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := syncer.New(&fakeExec{}, logger)
	if _, err := s.Sync(context.Background(), "orm_test", definition()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if strings.Contains(buf.String(), "CREATE TABLE") {
		t.Errorf("statement traced without Trace: %q", buf.String())
	}

	s = syncer.New(&fakeExec{}, logger)
	s.Trace = true
	if _, err := s.Sync(context.Background(), "orm_test", definition()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if !strings.Contains(buf.String(), "CREATE TABLE IF NOT EXISTS orm_test.table1") {
		t.Errorf("log = %q, want traced CREATE TABLE", buf.String())
	}
}

func TestSync_Failures(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name  string
		exec  *fakeExec
		stage syncer.Stage
	}{
		{"introspect", &fakeExec{colsErr: boom}, syncer.StageIntrospect},
		{"create", &fakeExec{execErr: boom}, syncer.StageCreate},
		{"alter", &fakeExec{execErr: boom, tables: map[string][]schema.ColumnInfo{
			"orm_test.table1": {{Name: "status", Type: "Int32"}},
		}}, syncer.StageAlter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := syncer.New(tt.exec, nil).Sync(context.Background(), "orm_test", definition())
			var se *syncer.SyncError
			if !errors.As(err, &se) {
				t.Fatalf("Sync() error = %v, want SyncError", err)
			}
			if se.Stage != tt.stage || !errors.Is(err, boom) {
				t.Errorf("error = %v, want stage %s wrapping %v", err, tt.stage, boom)
			}
		})
	}
}
