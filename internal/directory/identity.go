package directory

import (
	"sort"
	"strings"
)

// Identity is a verified requester resolved from a matched directory row.
type Identity struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Department     string `json:"department"`
	DepartmentLead string `json:"department_lead"`
	Location       string `json:"location"`
}

// Candidate substrings for heuristic field resolution, in priority order.
var (
	nameCandidates     = []string{"name", "full name", "fullname"}
	deptCandidates     = []string{"department", "dept", "team"}
	leadCandidates     = []string{"lead", "department lead", "dept lead", "lead email", "lead_email"}
	locationCandidates = []string{"location", "site", "campus", "location name"}
	serviceCandidates  = []string{"new service type", "new_service_type", "new service", "service type"}
)

// ResolveIdentity derives a requester record from a matched row. Sheet
// headers vary across deployments, so fields are located by substring.
func ResolveIdentity(row Row, email string) Identity {
	id := Identity{Email: strings.ToLower(strings.TrimSpace(email))}
	cols := row.Columns()

	if col, ok := PickField(cols, nameCandidates); ok {
		id.Name = strings.TrimSpace(row.Value(col))
	}
	if col, ok := PickField(cols, deptCandidates); ok {
		id.Department = strings.TrimSpace(row.Value(col))
	}
	if col, ok := PickField(cols, leadCandidates); ok {
		id.DepartmentLead = strings.TrimSpace(row.Value(col))
	}
	if col, ok := PickField(cols, locationCandidates); ok {
		id.Location = strings.TrimSpace(row.Value(col))
	}
	return id
}

// DefaultLocations is used when the directory carries no location column.
var DefaultLocations = []string{"Main Campus", "Other"}

// Locations returns the deduplicated, sorted location values observed across
// all rows, always ending with an "Other" escape hatch for free-text entry.
func Locations(rows []Row) []string {
	var opts []string
	if len(rows) > 0 {
		if col, ok := PickField(rows[0].Columns(), locationCandidates); ok {
			seen := make(map[string]bool)
			for _, r := range rows {
				v := strings.TrimSpace(r.Value(col))
				if v != "" && !seen[v] {
					seen[v] = true
					opts = append(opts, v)
				}
			}
			sort.Strings(opts)
		}
	}
	if len(opts) == 0 {
		opts = append(opts, DefaultLocations...)
	}
	if !contains(opts, "Other") {
		opts = append(opts, "Other")
	}
	return opts
}

// ServiceTypes returns the service-type column values deduplicated in order
// of first appearance, or nil when the column is absent.
func ServiceTypes(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	col, ok := PickField(rows[0].Columns(), serviceCandidates)
	if !ok {
		return nil
	}
	var opts []string
	seen := make(map[string]bool)
	for _, r := range rows {
		v := strings.TrimSpace(r.Value(col))
		if v != "" && !seen[v] {
			seen[v] = true
			opts = append(opts, v)
		}
	}
	return opts
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
