package datatype

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedType is returned for unknown type tags and invalid wrapper combinations.
	ErrUnsupportedType = errors.New("unsupported column type")
	// ErrInvalidValue is returned when a Go value cannot be converted to or from a column type.
	ErrInvalidValue = errors.New("invalid value for column type")
)

// Kind is the logical type tag of a column.
type Kind int

const (
	Invalid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindDate
	KindDateTime
	KindUUID

	// Wrappers. They carry an element type.
	KindNullable
	KindArray
	KindLowCardinality
)

var kindNames = map[Kind]string{
	KindInt8:           "Int8",
	KindInt16:          "Int16",
	KindInt32:          "Int32",
	KindInt64:          "Int64",
	KindUInt8:          "UInt8",
	KindUInt16:         "UInt16",
	KindUInt32:         "UInt32",
	KindUInt64:         "UInt64",
	KindFloat32:        "Float32",
	KindFloat64:        "Float64",
	KindBool:           "Bool",
	KindString:         "String",
	KindDate:           "Date",
	KindDateTime:       "DateTime",
	KindUUID:           "UUID",
	KindNullable:       "Nullable",
	KindArray:          "Array",
	KindLowCardinality: "LowCardinality",
}

// Type is an immutable ClickHouse column type: a base tag, optionally
// wrapped by Nullable, Array or LowCardinality.
type Type struct {
	kind Kind
	elem *Type
}

var (
	Int8     = Type{kind: KindInt8}
	Int16    = Type{kind: KindInt16}
	Int32    = Type{kind: KindInt32}
	Int64    = Type{kind: KindInt64}
	UInt8    = Type{kind: KindUInt8}
	UInt16   = Type{kind: KindUInt16}
	UInt32   = Type{kind: KindUInt32}
	UInt64   = Type{kind: KindUInt64}
	Float32  = Type{kind: KindFloat32}
	Float64  = Type{kind: KindFloat64}
	Bool     = Type{kind: KindBool}
	String   = Type{kind: KindString}
	Date     = Type{kind: KindDate}
	DateTime = Type{kind: KindDateTime}
	UUID     = Type{kind: KindUUID}
)

func Nullable(t Type) Type       { return Type{kind: KindNullable, elem: &t} }
func Array(t Type) Type          { return Type{kind: KindArray, elem: &t} }
func LowCardinality(t Type) Type { return Type{kind: KindLowCardinality, elem: &t} }

func (t Type) Kind() Kind { return t.kind }

// Elem returns the wrapped type of a Nullable, Array or LowCardinality type.
func (t Type) Elem() Type {
	if t.elem == nil {
		return Type{}
	}
	return *t.elem
}

// IsNullable reports whether NULL is a legal value, looking through LowCardinality.
func (t Type) IsNullable() bool {
	switch t.kind {
	case KindNullable:
		return true
	case KindLowCardinality:
		return t.Elem().IsNullable()
	}
	return false
}

// Base strips every wrapper and returns the innermost type.
func (t Type) Base() Type {
	for t.elem != nil {
		t = *t.elem
	}
	return t
}

func (t Type) String() string {
	name, ok := kindNames[t.kind]
	if !ok {
		return "Invalid"
	}
	if t.isWrapper() {
		return name + "(" + t.Elem().String() + ")"
	}
	return name
}

func (t Type) isWrapper() bool {
	return t.kind == KindNullable || t.kind == KindArray || t.kind == KindLowCardinality
}

func (t Type) isNumeric() bool {
	return t.kind >= KindInt8 && t.kind <= KindFloat64
}

// Validate checks the tag and the wrapper nesting rules ClickHouse enforces.
func (t Type) Validate() error {
	if _, ok := kindNames[t.kind]; !ok {
		return fmt.Errorf("%w: tag %d", ErrUnsupportedType, int(t.kind))
	}
	if !t.isWrapper() {
		if t.elem != nil {
			return fmt.Errorf("%w: %s cannot wrap a type", ErrUnsupportedType, kindNames[t.kind])
		}
		return nil
	}
	if t.elem == nil {
		return fmt.Errorf("%w: %s without element type", ErrUnsupportedType, kindNames[t.kind])
	}
	elem := *t.elem
	if err := elem.Validate(); err != nil {
		return err
	}
	switch t.kind {
	case KindNullable:
		if elem.isWrapper() {
			return fmt.Errorf("%w: Nullable cannot wrap %s", ErrUnsupportedType, elem)
		}
	case KindLowCardinality:
		inner := elem
		if inner.kind == KindNullable {
			inner = inner.Elem()
		}
		if inner.kind != KindString && inner.kind != KindDate && inner.kind != KindDateTime && !inner.isNumeric() {
			return fmt.Errorf("%w: LowCardinality cannot wrap %s", ErrUnsupportedType, elem)
		}
	}
	return nil
}

// RawType renders the ClickHouse type syntax for t.
func RawType(t Type) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t.String(), nil
}

// Parse reads ClickHouse type syntax such as "LowCardinality(Nullable(String))".
func Parse(raw string) (Type, error) {
	s := strings.TrimSpace(raw)
	if open := strings.IndexByte(s, '('); open > 0 {
		if !strings.HasSuffix(s, ")") {
			return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, raw)
		}
		elem, err := Parse(s[open+1 : len(s)-1])
		if err != nil {
			return Type{}, err
		}
		var t Type
		switch s[:open] {
		case "Nullable":
			t = Nullable(elem)
		case "Array":
			t = Array(elem)
		case "LowCardinality":
			t = LowCardinality(elem)
		default:
			return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, raw)
		}
		return t, t.Validate()
	}
	for k, name := range kindNames {
		if name == s && !(Type{kind: k}).isWrapper() {
			return Type{kind: k}, nil
		}
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, raw)
}
