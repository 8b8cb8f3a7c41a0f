package engine

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"chorm/internal/datatype"
	"chorm/internal/schema"
)

// Generator produces fake column values guided by column type and name.
type Generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

// NewGenerator returns a Generator. The same seed yields the same rows;
// seed 0 picks a random one.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: time.Now().UTC()}
}

// Row returns values for every column of def. Columns with a Default are
// left out so the default applies at insert time.
func (g *Generator) Row(def *schema.Definition) map[string]any {
	row := make(map[string]any, len(def.Columns))
	for _, c := range def.Columns {
		if c.Default != nil {
			continue
		}
		row[c.Name] = g.Value(c.Type, schema.AnalyzeMeaning(c.Name))
	}
	return row
}

// Value generates one value of type t for a column with the given meaning.
func (g *Generator) Value(t datatype.Type, meaning string) any {
	f := g.faker

	switch t.Kind() {
	case datatype.KindNullable:
		if f.Number(1, 10) == 1 {
			return nil
		}
		return g.Value(t.Elem(), meaning)
	case datatype.KindLowCardinality:
		if words := vocabulary(meaning); words != nil && t.Base().Kind() == datatype.KindString {
			return f.RandomString(words)
		}
		return g.Value(t.Elem(), meaning)
	case datatype.KindArray:
		n := f.Number(0, 3)
		items := make([]any, n)
		for i := range items {
			items[i] = g.Value(t.Elem(), meaning)
		}
		return items
	case datatype.KindBool:
		return f.Bool()
	case datatype.KindDate, datatype.KindDateTime:
		return f.DateRange(g.now.AddDate(-1, 0, 0), g.now)
	case datatype.KindUUID:
		return uuid.MustParse(f.UUID())
	case datatype.KindFloat32, datatype.KindFloat64:
		if meaning == "price" {
			return f.Price(0.99, 99.99)
		}
		return f.Float64Range(0, 1000)
	case datatype.KindString:
		return g.text(meaning)
	}
	return g.integer(t.Kind(), meaning)
}

func (g *Generator) integer(k datatype.Kind, meaning string) any {
	f := g.faker
	if meaning == "yesno" {
		return f.Number(0, 1)
	}

	switch k {
	case datatype.KindInt8:
		return f.Int8()
	case datatype.KindUInt8:
		return f.Uint8()
	}

	switch meaning {
	case "status":
		return f.HTTPStatusCodeSimple()
	case "count", "price":
		return f.Number(0, 1000)
	}

	switch k {
	case datatype.KindInt16:
		return f.Int16()
	case datatype.KindUInt16:
		return f.Uint16()
	}
	// Wide columns get readable numbers rather than full-range noise.
	return f.Number(1, 50000)
}

func (g *Generator) text(meaning string) string {
	f := g.faker
	if words := vocabulary(meaning); words != nil {
		return f.RandomString(words)
	}

	switch meaning {
	case "email":
		return f.Email()
	case "phone":
		return f.Phone()
	case "useragent":
		return f.UserAgent()
	case "version":
		return f.AppVersion()
	case "ip":
		return f.IPv4Address()
	case "url":
		return f.URL()
	case "host":
		return f.DomainName()
	case "country":
		return f.Country()
	case "city":
		return f.City()
	case "name":
		return f.Name()
	case "text":
		return f.Sentence(8)
	}
	return f.Word()
}
