package directory

import "strings"

// PickField returns the first column name whose lowered form contains one of
// the candidate substrings. Candidates are scanned in priority order, then
// columns in their existing order, so the candidate list encodes precedence.
func PickField(columns []string, candidates []string) (string, bool) {
	for _, cand := range candidates {
		for _, col := range columns {
			if strings.Contains(strings.ToLower(col), cand) {
				return col, true
			}
		}
	}
	return "", false
}

// emailColumns discovers candidate email columns from the first row: every
// column whose name contains "email", or failing that, any column whose
// first-row value contains "@".
func emailColumns(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	first := rows[0]

	var cols []string
	for _, k := range first.Columns() {
		if strings.Contains(strings.ToLower(k), "email") {
			cols = append(cols, k)
		}
	}
	if len(cols) == 0 {
		for _, k := range first.Columns() {
			if strings.Contains(strings.TrimSpace(first.Value(k)), "@") {
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// FindByEmail returns the first row whose email-like cell equals the given
// address, comparing trimmed and lower-cased on both sides. The second
// return value is false when nothing matches; that is a normal outcome, not
// a failure.
func FindByEmail(rows []Row, email string) (Row, bool) {
	norm := strings.ToLower(strings.TrimSpace(email))
	if norm == "" || len(rows) == 0 {
		return Row{}, false
	}

	cols := emailColumns(rows)
	for _, r := range rows {
		for _, col := range cols {
			val := strings.ToLower(strings.TrimSpace(r.Value(col)))
			if val == norm {
				return r, true
			}
		}
	}
	return Row{}, false
}
