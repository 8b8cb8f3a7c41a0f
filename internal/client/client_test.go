package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"chorm/internal/client"
	"chorm/internal/datatype"
	"chorm/internal/dialect"
	"chorm/internal/orm"
	"chorm/internal/query"
	"chorm/internal/schema"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*client.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return client.New(db, dialect.GetDialect("clickhouse")), mock
}

func TestColumns(t *testing.T) {
	c, mock := newMock(t)
	mock.ExpectQuery(dialect.DefaultColumnsQuery("orm_test", "table1")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "type"}).
			AddRow("time", "DateTime").
			AddRow("status", "Int32 "))

	meta, err := c.Columns(context.Background(), "orm_test", "table1")
	if err != nil {
		t.Fatalf("Columns() error = %v", err)
	}
	if len(meta.Columns) != 2 || meta.Columns[0].Name != "time" || meta.Columns[1].Type != "Int32" {
		t.Errorf("Columns() = %+v", meta.Columns)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestQueryDecodesBytes(t *testing.T) {
	c, mock := newMock(t)
	mock.ExpectQuery("SELECT browser FROM orm_test.table1").
		WillReturnRows(sqlmock.NewRows([]string{"browser"}).AddRow([]byte("FF")))

	rows, err := c.Query(context.Background(), "SELECT browser FROM orm_test.table1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["browser"] != "FF" {
		t.Errorf("Query() = %v", rows)
	}
}

func TestExecErrorPassesThrough(t *testing.T) {
	c, mock := newMock(t)
	boom := errors.New("Code: 60. DB::Exception: Table orm_test.nope does not exist")
	mock.ExpectExec("ALTER TABLE orm_test.nope DELETE WHERE 1").WillReturnError(boom)

	if _, err := c.Exec(context.Background(), "ALTER TABLE orm_test.nope DELETE WHERE 1"); err != boom {
		t.Errorf("Exec() error = %v, want %v", err, boom)
	}
}

// TestModelRoundTrip drives a session through the client: register on a fresh
// database, save a row, read it back.
func TestModelRoundTrip(t *testing.T) {
	c, mock := newMock(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 9, 14, 5, 6, 500, time.UTC)

	mock.ExpectExec("CREATE DATABASE IF NOT EXISTS orm_test ENGINE = Atomic").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(dialect.DefaultColumnsQuery("orm_test", "table1")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "type"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orm_test.table1 (time DateTime, status Int32, browser LowCardinality(String)) ENGINE = MergeTree ORDER BY time").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO orm_test.table1 (time, status, browser) VALUES (toDateTime('2024-03-09 14:05:06', 'UTC'), 1, 'chrome')").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT * FROM orm_test.table1 WHERE browser = 'chrome' LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"time", "status", "browser"}).
			AddRow("2024-03-09 14:05:06", int64(1), []byte("chrome")))

	sess, err := orm.New(orm.Options{Executor: c, Database: "orm_test"})
	if err != nil {
		t.Fatalf("orm.New() error = %v", err)
	}
	if _, err := sess.CreateDatabase(ctx); err != nil {
		t.Fatalf("CreateDatabase() error = %v", err)
	}
	model, err := sess.Model(ctx, schema.Definition{
		Table: "table1",
		Columns: []schema.Column{
			{Name: "time", Type: datatype.DateTime},
			{Name: "status", Type: datatype.Int32},
			{Name: "browser", Type: datatype.LowCardinality(datatype.String)},
		},
		Options:    "ENGINE = MergeTree ORDER BY time",
		AutoCreate: true,
		AutoSync:   true,
	})
	if err != nil {
		t.Fatalf("Model() error = %v", err)
	}

	inst, err := model.Build(map[string]any{"status": 1})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := inst.Set("time", ts); err != nil {
		t.Fatal(err)
	}
	if err := inst.Set("browser", "chrome"); err != nil {
		t.Fatal(err)
	}
	if _, err := inst.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rows, err := model.Find(ctx, query.Request{Where: "browser = 'chrome'", Limit: 1})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Find() returned %d rows", len(rows))
	}
	got := rows[0]
	if !got["time"].(time.Time).Equal(ts.Truncate(time.Second)) {
		t.Errorf("time = %v, want %v", got["time"], ts.Truncate(time.Second))
	}
	if got["status"] != int32(1) || got["browser"] != "chrome" {
		t.Errorf("row = %v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
