package schema_test

import (
	"errors"
	"testing"

	"chorm/internal/datatype"
	"chorm/internal/schema"
)

func table1() *schema.Definition {
	return &schema.Definition{
		Table: "table1",
		Columns: []schema.Column{
			{Name: "time", Type: datatype.DateTime},
			{Name: "status", Type: datatype.Int32},
			{Name: "browser", Type: datatype.LowCardinality(datatype.String)},
			{Name: "browser_v", Type: datatype.String},
		},
	}
}

func TestDiff_MissingKeepsDeclaredOrder(t *testing.T) {
	meta := &schema.TableMetadata{
		Database: "orm_test",
		Table:    "table1",
		Columns: []schema.ColumnInfo{
			{Name: "status", Type: "Int32"},
		},
	}

	drift, err := schema.Diff(table1(), meta)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	var names []string
	for _, c := range drift.Missing {
		names = append(names, c.Name)
	}
	want := []string{"time", "browser", "browser_v"}
	if len(names) != len(want) {
		t.Fatalf("Missing = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Missing[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestDiff_ExtraAndChanged(t *testing.T) {
	def := table1()
	def.Columns = def.Columns[:3]
	meta := &schema.TableMetadata{
		Columns: []schema.ColumnInfo{
			{Name: "time", Type: "DateTime"},
			{Name: "status", Type: "Int64"},
			{Name: "browser", Type: "LowCardinality(String)"},
			{Name: "browser_v", Type: "String"},
		},
	}

	drift, err := schema.Diff(def, meta)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(drift.Missing) != 0 {
		t.Errorf("Missing = %v, want none", drift.Missing)
	}
	if len(drift.Extra) != 1 || drift.Extra[0].Name != "browser_v" {
		t.Errorf("Extra = %v, want [browser_v]", drift.Extra)
	}
	if len(drift.Changed) != 1 || drift.Changed[0].Column != "status" || drift.Changed[0].Observed != "Int64" {
		t.Errorf("Changed = %v, want status Int32 -> Int64", drift.Changed)
	}
}

func TestDiff_AbsentTable(t *testing.T) {
	drift, err := schema.Diff(table1(), &schema.TableMetadata{})
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(drift.Missing) != 4 || len(drift.Extra) != 0 {
		t.Errorf("drift = %+v", drift)
	}
}

func TestDefinitionValidate(t *testing.T) {
	if err := table1().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*schema.Definition)
		want   error
	}{
		{"empty table", func(d *schema.Definition) { d.Table = "" }, schema.ErrInvalidDefinition},
		{"no columns", func(d *schema.Definition) { d.Columns = nil }, schema.ErrInvalidDefinition},
		{"duplicate", func(d *schema.Definition) { d.Columns = append(d.Columns, d.Columns[0]) }, schema.ErrInvalidDefinition},
		{"bad column name", func(d *schema.Definition) { d.Columns[0].Name = "a b" }, schema.ErrInvalidDefinition},
		{"bad type", func(d *schema.Definition) { d.Columns[1].Type = datatype.Type{} }, datatype.ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := table1()
			tt.mutate(def)
			if err := def.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAnalyzeMeaning(t *testing.T) {
	tests := map[string]string{
		"browser":      "browser",
		"browser_v":    "version",
		"user_agent":   "useragent",
		"client_ip":    "ip",
		"user_email":   "email",
		"country_code": "country",
		"status":       "status",
		"time":         "",
	}
	for col, want := range tests {
		if got := schema.AnalyzeMeaning(col); got != want {
			t.Errorf("AnalyzeMeaning(%q) = %q, want %q", col, got, want)
		}
	}
}
