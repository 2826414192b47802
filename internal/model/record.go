package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QuoteKey is the record field holding per-currency metrics.
const QuoteKey = "quote"

// FieldKind classifies a top-level record field.
type FieldKind int

const (
	FieldScalar     FieldKind = iota // number, string, bool or null
	FieldNestedMap                   // one-level object: {"platform": {"id": 1}}
	FieldQuoteMap                    // currency -> metric -> value
	FieldStringList                  // array, elements stringified
)

func (k FieldKind) String() string {
	switch k {
	case FieldScalar:
		return "scalar"
	case FieldNestedMap:
		return "nested_map"
	case FieldQuoteMap:
		return "quote_map"
	case FieldStringList:
		return "string_list"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Entry is one key/value pair of a nested object.
type Entry struct {
	Key   string
	Value Value
}

// Quote holds the metrics reported in one currency.
type Quote struct {
	Currency string
	Metrics  []Entry
}

// Field is one top-level record field. Only the member matching Kind is set.
type Field struct {
	Key     string
	Kind    FieldKind
	Scalar  Value    // FieldScalar
	Entries []Entry  // FieldNestedMap
	Quotes  []Quote  // FieldQuoteMap
	List    []string // FieldStringList
}

// RawRecord is one listing entity in source key order.
type RawRecord struct {
	Fields []Field
}

// FieldError reports a field whose shape does not fit its kind.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
}

// FlatRecord is an ordered single-level row. Setting an existing key
// replaces its value and keeps the key's original position.
type FlatRecord struct {
	keys   []string
	values map[string]Value
}

// Set stores v under key.
func (r *FlatRecord) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r FlatRecord) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in first-insertion order.
func (r FlatRecord) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of keys.
func (r FlatRecord) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the record as a JSON object in key order.
func (r FlatRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
