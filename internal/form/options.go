package form

import "strings"

// ServiceDeptColumn is the config-table header carrying the service
// department list.
const ServiceDeptColumn = "Maintenance Service Type"

// OccurrenceColumn is the config-table header carrying the issue
// occurrence list.
const OccurrenceColumn = "Issue Occurrence"

// DefaultDepartments is the last-resort Multiple-scope department list when
// neither the directory nor the config table yields one.
var DefaultDepartments = []string{"Fabrication", "Carpentry", "Plumbing"}

// ServiceDeptOptions returns the Single-scope service department list: the
// canonical config column, then any header mentioning both "maintenance"
// and "service", then the header list itself, then a generic placeholder.
func (m *Machine) ServiceDeptOptions() []string {
	if opts := m.Table.Column(ServiceDeptColumn); len(opts) > 0 {
		return opts
	}
	for _, h := range m.Table.Headers() {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "maintenance") && strings.Contains(lower, "service") {
			if opts := m.Table.Column(h); len(opts) > 0 {
				return opts
			}
		}
	}
	if headers := m.Table.Headers(); len(headers) > 0 {
		return headers
	}
	return []string{"General"}
}

// SubCategoryOptions returns the config column whose header equals the
// chosen service department, case-insensitively.
func (m *Machine) SubCategoryOptions(dept string) []string {
	return m.Table.Column(dept)
}

// OccurrenceOptions returns the issue occurrence list from the config table.
func (m *Machine) OccurrenceOptions() []string {
	return m.Table.Column(OccurrenceColumn)
}

// LocationOptions returns the Single-scope location list derived from the
// directory, always including "Other".
func (m *Machine) LocationOptions() []string {
	if len(m.Locations) > 0 {
		return m.Locations
	}
	return []string{"Main Campus", "Other"}
}

// DepartmentOptions returns the Multiple-scope department list: the
// directory service-type column first, then the service department options,
// then a fixed default set.
func (m *Machine) DepartmentOptions() []string {
	if len(m.ServiceTypes) > 0 {
		return m.ServiceTypes
	}
	if opts := m.Table.Column(ServiceDeptColumn); len(opts) > 0 {
		return opts
	}
	if headers := m.Table.Headers(); len(headers) > 0 {
		return headers
	}
	return DefaultDepartments
}
