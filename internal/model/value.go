package model

import (
	"encoding/json"
	"strconv"
)

// ValueKind tags the scalar held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindRaw // compact JSON of a container nested below the flattened level
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindRaw:
		return "raw"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a scalar cell of a record.
type Value struct {
	Kind ValueKind
	Text string
}

// NullValue returns the null Value.
func NullValue() Value { return Value{Kind: KindNull} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Text: strconv.FormatBool(b)} }

// NumberValue wraps the JSON text of a number.
func NumberValue(text string) Value { return Value{Kind: KindNumber, Text: text} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Text: s} }

// RawValue wraps compact JSON text.
func RawValue(text string) Value { return Value{Kind: KindRaw, Text: text} }

// String returns the cell text. Null is the empty string.
func (v Value) String() string {
	return v.Text
}

// IsNumeric reports whether the value is written unquoted in CSV output.
func (v Value) IsNumeric() bool {
	return v.Kind == KindNumber || v.Kind == KindBool
}

// MarshalJSON encodes the value back to JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool, KindNumber, KindRaw:
		return []byte(v.Text), nil
	default:
		return json.Marshal(v.Text)
	}
}
