// Package configtable turns heterogeneous sheet responses into the
// header -> option-list mapping that drives dependent dropdowns.
package configtable

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iesm-tools/intake/internal/directory"
)

// Table maps each header to its ordered, non-empty option values.
type Table struct {
	headers []string
	columns map[string][]string
}

// Headers returns the header names in first-seen order.
func (t Table) Headers() []string { return t.headers }

// Column returns the options under the header that case-insensitively
// equals name, or nil when no header matches.
func (t Table) Column(name string) []string {
	target := strings.ToLower(strings.TrimSpace(name))
	for _, h := range t.headers {
		if strings.ToLower(strings.TrimSpace(h)) == target {
			return t.columns[h]
		}
	}
	return nil
}

// Len returns the number of headers.
func (t Table) Len() int { return len(t.headers) }

// Parse builds a Table from sheet entries. Two shapes are accepted: object
// rows sharing a key set (each key is a header), or positional rows where
// the first entry is the header row. Blank cells are dropped, not kept as
// empty placeholders.
func Parse(entries []any) Table {
	t := Table{columns: make(map[string][]string)}
	if len(entries) == 0 {
		return t
	}

	switch first := entries[0].(type) {
	case directory.Row:
		parseObjectRows(&t, entries, first)
	case []any:
		parsePositionalRows(&t, entries, first)
	}
	return t
}

// parseObjectRows treats each key of the first row as a header and collects
// its trimmed non-empty values across all rows. Some sheets bake a duplicate
// header row into the data; a leading value textually equal to its header is
// dropped so the options start below it.
func parseObjectRows(t *Table, entries []any, first directory.Row) {
	for _, h := range first.Columns() {
		var vals []string
		for _, e := range entries {
			row, ok := e.(directory.Row)
			if !ok {
				continue
			}
			v := strings.TrimSpace(row.Value(h))
			if v != "" {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 && strings.EqualFold(strings.TrimSpace(vals[0]), strings.TrimSpace(h)) {
			vals = vals[1:]
		}
		t.headers = append(t.headers, h)
		t.columns[h] = vals
	}
}

// parsePositionalRows reads the first entry as the header row and builds
// each column positionally from the remaining rows. Values are only ever
// dropped for emptiness, never for matching the header text.
func parsePositionalRows(t *Table, entries []any, headerRow []any) {
	for ci, hv := range headerRow {
		h := strings.TrimSpace(cellString(hv))
		var vals []string
		for _, e := range entries[1:] {
			cells, ok := e.([]any)
			if !ok || ci >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cellString(cells[ci]))
			if v != "" {
				vals = append(vals, v)
			}
		}
		t.headers = append(t.headers, h)
		t.columns[h] = vals
	}
}

func cellString(v any) string {
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
		return fmt.Sprintf("%v", val)
	}
}
