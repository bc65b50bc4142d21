package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field maps an output column to a path in the source document.
type Field struct {
	Name string
	Path string
}

// Schema is the ordered column list of a record type.
type Schema []Field

// Names returns the column names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Record is one flattened row. Values line up with Fields.
type Record struct {
	fields []string
	values []any
}

// NewRecord builds a record from parallel name and value slices.
func NewRecord(fields []string, values []any) Record {
	if len(values) < len(fields) {
		padded := make([]any, len(fields))
		copy(padded, values)
		values = padded
	}
	return Record{fields: fields, values: values[:len(fields)]}
}

// Project looks up every schema path in raw and returns the resulting record.
func Project(raw any, schema Schema) Record {
	fields := schema.Names()
	values := make([]any, len(schema))
	for i, f := range schema {
		values[i] = Lookup(raw, f.Path)
	}
	return Record{fields: fields, values: values}
}

// Fields returns the column names in schema order.
func (r Record) Fields() []string { return r.fields }

// Values returns the column values in schema order; missing ones are nil.
func (r Record) Values() []any { return r.values }

// Len returns the number of columns.
func (r Record) Len() int { return len(r.fields) }

// Get returns the value of the named column. The boolean reports whether the column is declared,
// not whether the value is non-null.
func (r Record) Get(name string) (any, bool) {
	for i, f := range r.fields {
		if f == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns the record as a map. Column order is lost.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for i, f := range r.fields {
		m[f] = r.values[i]
	}
	return m
}

// MarshalJSON encodes the record as an object whose keys keep schema order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Lookup walks a dot-separated path through decoded JSON.
//
// It returns nil for any missing segment instead of failing.
func Lookup(raw any, path string) any {
	if path == "" {
		return raw
	}

	cur := raw
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// IsNull reports whether v is the sentinel null.
func IsNull(v any) bool {
	return v == nil
}

// Format renders a value for text output, using null for the sentinel null.
func Format(v any, null string) string {
	switch t := v.(type) {
	case nil:
		return null
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}
