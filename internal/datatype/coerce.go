package datatype

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Literal layouts ClickHouse accepts for Date and DateTime values.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

var quoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Quote returns s as a single-quoted ClickHouse string literal.
func Quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}

// dateTimeLiteral pins the wall-clock text s to UTC so the column or server
// time zone cannot shift it.
func dateTimeLiteral(s string) string {
	return "toDateTime(" + Quote(s) + ", 'UTC')"
}

// Zero returns the literal used for a column that has no value and no default.
func Zero(t Type) string {
	switch t.kind {
	case KindNullable:
		return "NULL"
	case KindArray:
		return "[]"
	case KindLowCardinality:
		return Zero(t.Elem())
	case KindBool:
		return "false"
	case KindString:
		return "''"
	case KindDate:
		return Quote(time.Unix(0, 0).UTC().Format(DateLayout))
	case KindDateTime:
		return dateTimeLiteral(time.Unix(0, 0).UTC().Format(DateTimeLayout))
	case KindUUID:
		return Quote(uuid.Nil.String())
	}
	return "0"
}

// indirect dereferences pointers. ok is false for a nil value or nil pointer.
func indirect(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

func invalid(v any, t Type, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %T as %s: %v", ErrInvalidValue, v, t, err)
	}
	return fmt.Errorf("%w: %T as %s", ErrInvalidValue, v, t)
}

// CoerceIn renders a Go value as a SQL literal of type t.
// Integer widths are not range-checked.
func CoerceIn(v any, t Type) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return coerceIn(v, t)
}

func coerceIn(v any, t Type) (string, error) {
	v, ok := indirect(v)
	if !ok {
		return Zero(t), nil
	}

	switch t.kind {
	case KindNullable, KindLowCardinality:
		return coerceIn(v, t.Elem())
	case KindArray:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return "", invalid(v, t, nil)
		}
		items := make([]string, rv.Len())
		for i := range items {
			lit, err := coerceIn(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return "", err
			}
			items[i] = lit
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case KindInt8, KindInt16, KindInt32, KindInt64:
		n, err := toInt64(v)
		if err != nil {
			return "", invalid(v, t, err)
		}
		return strconv.FormatInt(n, 10), nil
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		n, err := toUint64(v)
		if err != nil {
			return "", invalid(v, t, err)
		}
		return strconv.FormatUint(n, 10), nil
	case KindFloat32:
		f, err := cast.ToFloat32E(v)
		if err != nil {
			return "", invalid(v, t, err)
		}
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case KindFloat64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return "", invalid(v, t, err)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case KindBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return "", invalid(v, t, err)
		}
		return strconv.FormatBool(b), nil
	case KindString:
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", invalid(v, t, err)
		}
		return Quote(s), nil
	case KindDate, KindDateTime:
		// Caller-formatted strings keep their text and are read as UTC.
		s, isString := v.(string)
		if !isString {
			tm, err := cast.ToTimeInDefaultLocationE(v, time.UTC)
			if err != nil {
				return "", invalid(v, t, err)
			}
			if t.kind == KindDate {
				return Quote(tm.UTC().Format(DateLayout)), nil
			}
			s = tm.UTC().Format(DateTimeLayout)
		}
		if t.kind == KindDate {
			return Quote(s), nil
		}
		return dateTimeLiteral(s), nil
	case KindUUID:
		u, err := toUUID(v)
		if err != nil {
			return "", invalid(v, t, err)
		}
		return Quote(u.String()), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

// toInt64 reads decimal text only and refuses to drop a fractional part.
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case json.Number:
		return strconv.ParseInt(x.String(), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
	case float32:
		return floatToInt64(float64(x))
	case float64:
		return floatToInt64(x)
	}
	return cast.ToInt64E(v)
}

func floatToInt64(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int64(f), nil
}

func toUint64(v any) (uint64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseUint(strings.TrimSpace(x), 10, 64)
	case json.Number:
		return strconv.ParseUint(x.String(), 10, 64)
	case []byte:
		return strconv.ParseUint(strings.TrimSpace(string(x)), 10, 64)
	case float32:
		return floatToUint64(float64(x))
	case float64:
		return floatToUint64(x)
	}
	return cast.ToUint64E(v)
}

func floatToUint64(f float64) (uint64, error) {
	if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
		return 0, fmt.Errorf("%v is not an unsigned integer", f)
	}
	return uint64(f), nil
}

// CoerceOut converts a value decoded by the driver into the Go type that
// matches t. Date and DateTime values come back as UTC time.Time.
func CoerceOut(raw any, t Type) (any, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return coerceOut(raw, t)
}

func coerceOut(raw any, t Type) (any, error) {
	raw, ok := indirect(raw)
	if !ok {
		return nil, nil
	}
	// Text protocols (MySQL, PostgreSQL interfaces) hand back bytes.
	if b, isBytes := raw.([]byte); isBytes && t.kind != KindArray && t.kind != KindUUID {
		raw = string(b)
	}

	var (
		out any
		err error
	)
	switch t.kind {
	case KindNullable, KindLowCardinality:
		return coerceOut(raw, t.Elem())
	case KindArray:
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, invalid(raw, t, nil)
		}
		items := make([]any, rv.Len())
		for i := range items {
			if items[i], err = coerceOut(rv.Index(i).Interface(), t.Elem()); err != nil {
				return nil, err
			}
		}
		return items, nil
	case KindInt8:
		out, err = cast.ToInt8E(raw)
	case KindInt16:
		out, err = cast.ToInt16E(raw)
	case KindInt32:
		out, err = cast.ToInt32E(raw)
	case KindInt64:
		out, err = cast.ToInt64E(raw)
	case KindUInt8:
		out, err = cast.ToUint8E(raw)
	case KindUInt16:
		out, err = cast.ToUint16E(raw)
	case KindUInt32:
		out, err = cast.ToUint32E(raw)
	case KindUInt64:
		out, err = cast.ToUint64E(raw)
	case KindFloat32:
		out, err = cast.ToFloat32E(raw)
	case KindFloat64:
		out, err = cast.ToFloat64E(raw)
	case KindBool:
		out, err = cast.ToBoolE(raw)
	case KindString:
		out, err = cast.ToStringE(raw)
	case KindDate, KindDateTime:
		out, err = toTime(raw)
	case KindUUID:
		out, err = toUUID(raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	if err != nil {
		return nil, invalid(raw, t, err)
	}
	return out, nil
}

func toTime(raw any) (time.Time, error) {
	if s, ok := raw.(string); ok {
		for _, layout := range []string{DateTimeLayout, DateLayout} {
			if tm, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return tm, nil
			}
		}
	}
	tm, err := cast.ToTimeInDefaultLocationE(raw, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return tm.UTC(), nil
}

func toUUID(raw any) (uuid.UUID, error) {
	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case [16]byte:
		return uuid.UUID(v), nil
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	case string:
		return uuid.Parse(v)
	case fmt.Stringer:
		return uuid.Parse(v.String())
	}
	return uuid.Nil, fmt.Errorf("not a uuid")
}
