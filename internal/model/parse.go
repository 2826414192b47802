package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// member is one key of a JSON object with its undecoded value.
type member struct {
	key string
	raw json.RawMessage
}

// ParseRecords parses a JSON array of listing objects.
func ParseRecords(data []byte) ([]RawRecord, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]RawRecord, 0, len(items))
	for i, item := range items {
		rec, err := ParseRecord(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseRecord parses one listing object, classifying each top-level field.
func ParseRecord(data []byte) (RawRecord, error) {
	members, err := objectMembers(data)
	if err != nil {
		return RawRecord{}, err
	}

	rec := RawRecord{Fields: make([]Field, 0, len(members))}
	for _, m := range members {
		f, err := parseField(m)
		if err != nil {
			return RawRecord{}, err
		}
		rec.Fields = append(rec.Fields, f)
	}
	return rec, nil
}

func parseField(m member) (Field, error) {
	if m.key == QuoteKey {
		quotes, err := parseQuotes(m)
		if err != nil {
			return Field{}, err
		}
		return Field{Key: m.key, Kind: FieldQuoteMap, Quotes: quotes}, nil
	}

	switch leading(m.raw) {
	case '{':
		entries, err := parseEntries(m.raw)
		if err != nil {
			return Field{}, &FieldError{Key: m.key, Reason: err.Error()}
		}
		return Field{Key: m.key, Kind: FieldNestedMap, Entries: entries}, nil
	case '[':
		list, err := parseList(m.raw)
		if err != nil {
			return Field{}, &FieldError{Key: m.key, Reason: err.Error()}
		}
		return Field{Key: m.key, Kind: FieldStringList, List: list}, nil
	default:
		v, err := scalar(m.raw)
		if err != nil {
			return Field{}, &FieldError{Key: m.key, Reason: err.Error()}
		}
		return Field{Key: m.key, Kind: FieldScalar, Scalar: v}, nil
	}
}

func parseQuotes(m member) ([]Quote, error) {
	if leading(m.raw) != '{' {
		return nil, &FieldError{Key: m.key, Reason: "quote must be an object of currency objects"}
	}
	currencies, err := objectMembers(m.raw)
	if err != nil {
		return nil, &FieldError{Key: m.key, Reason: err.Error()}
	}

	quotes := make([]Quote, 0, len(currencies))
	for _, c := range currencies {
		if leading(c.raw) != '{' {
			return nil, &FieldError{Key: m.key, Reason: fmt.Sprintf("currency %q is not an object", c.key)}
		}
		metrics, err := parseEntries(c.raw)
		if err != nil {
			return nil, &FieldError{Key: m.key, Reason: err.Error()}
		}
		quotes = append(quotes, Quote{Currency: c.key, Metrics: metrics})
	}
	return quotes, nil
}

func parseEntries(raw json.RawMessage) ([]Entry, error) {
	members, err := objectMembers(raw)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		v, err := scalar(m.raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: m.key, Value: v})
	}
	return entries, nil
}

// parseList stringifies every element: strings as-is, numbers and booleans
// by their JSON text, null as "", containers as compact JSON.
func parseList(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		v, err := scalar(item)
		if err != nil {
			return nil, err
		}
		list = append(list, v.String())
	}
	return list, nil
}

// scalar converts a JSON value into a Value. Objects and arrays become KindRaw.
func scalar(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	switch leading(raw) {
	case 'n':
		return NullValue(), nil
	case 't':
		return BoolValue(true), nil
	case 'f':
		return BoolValue(false), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Value{}, err
		}
		return RawValue(buf.String()), nil
	case 0:
		return Value{}, fmt.Errorf("empty value")
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Value{}, err
		}
		return NumberValue(n.String()), nil
	}
}

// objectMembers decodes a JSON object into its members in document order.
func objectMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode object: expected '{', got %v", tok)
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode object key: unexpected %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode value of %q: %w", key, err)
		}
		members = append(members, member{key: key, raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode object end: %w", err)
	}
	return members, nil
}

// leading returns the first non-space byte of raw, or 0.
func leading(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
