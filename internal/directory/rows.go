package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Row is one object record from a sheet response. Column order is preserved
// from the response body because the matching heuristics depend on it.
type Row struct {
	keys   []string
	values map[string]any
}

// Columns returns the column names in their original order.
func (r Row) Columns() []string { return r.keys }

// Value returns the cell under the given column, stringified. Missing
// columns and nulls come back as the empty string.
func (r Row) Value(col string) string {
	return stringify(r.values[col])
}

// Has reports whether the row carries the given column.
func (r Row) Has(col string) bool {
	_, ok := r.values[col]
	return ok
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.keys) }

// NewRow builds a Row from ordered column/value pairs. Mostly useful in
// tests and for synthesizing rows.
func NewRow(pairs ...[2]string) Row {
	r := Row{values: make(map[string]any, len(pairs))}
	for _, p := range pairs {
		r.keys = append(r.keys, p[0])
		r.values[p[0]] = p[1]
	}
	return r
}

// decodeEntries splits a decoded sheet body into entries: object rows become
// Row (with column order intact), positional rows become []any.
func decodeEntries(items []json.RawMessage) ([]any, error) {
	entries := make([]any, 0, len(items))
	for _, raw := range items {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			continue
		}
		switch trimmed[0] {
		case '{':
			row, err := decodeRow(trimmed)
			if err != nil {
				return nil, err
			}
			entries = append(entries, row)
		case '[':
			var cells []any
			dec := json.NewDecoder(bytes.NewReader(trimmed))
			dec.UseNumber()
			if err := dec.Decode(&cells); err != nil {
				return nil, err
			}
			entries = append(entries, cells)
		default:
			var v any
			dec := json.NewDecoder(bytes.NewReader(trimmed))
			dec.UseNumber()
			if err := dec.Decode(&v); err != nil {
				return nil, err
			}
			entries = append(entries, v)
		}
	}
	return entries, nil
}

// decodeRow decodes a JSON object while recording key order, which
// encoding/json maps discard.
func decodeRow(raw []byte) (Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // opening brace
		return Row{}, err
	}

	row := Row{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Row{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Row{}, fmt.Errorf("unexpected object key token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return Row{}, err
		}
		if _, seen := row.values[key]; !seen {
			row.keys = append(row.keys, key)
		}
		row.values[key] = v
	}
	return row, nil
}

// ObjectRows filters sheet entries down to the object rows.
func ObjectRows(entries []any) []Row {
	var rows []Row
	for _, e := range entries {
		if r, ok := e.(Row); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// stringify renders a decoded JSON cell the way a spreadsheet user wrote it.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
