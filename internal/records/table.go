package records

import "encoding/json"

// Table is a list of records sharing one schema.
type Table struct {
	Schema Schema
	Rows   []Record
}

// ProjectAll projects every item onto schema, preserving item order.
func ProjectAll(items []any, schema Schema) Table {
	rows := make([]Record, len(items))
	for i, item := range items {
		rows[i] = Project(item, schema)
	}
	return Table{Schema: schema, Rows: rows}
}

// Single wraps one record in a table.
func Single(schema Schema, r Record) Table {
	return Table{Schema: schema, Rows: []Record{r}}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Columns returns the column names.
func (t Table) Columns() []string { return t.Schema.Names() }

// Column returns every row's value for the named column, or nil if the column isn't declared.
func (t Table) Column(name string) []any {
	idx := -1
	for i, f := range t.Schema {
		if f.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	col := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		col[i] = r.values[idx]
	}
	return col
}

// Append adds rows projected from items.
func (t *Table) Append(items ...any) {
	for _, item := range items {
		t.Rows = append(t.Rows, Project(item, t.Schema))
	}
}

// MarshalJSON encodes the table as an array of ordered objects.
func (t Table) MarshalJSON() ([]byte, error) {
	if t.Rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Rows)
}
