package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/iesm-tools/intake/internal/configtable"
	"github.com/iesm-tools/intake/internal/directory"
)

// DateLayout is the wire format for form dates.
const DateLayout = "2006-01-02"

// Finish-date minimums in days from today.
const (
	urgentLeadDays = 3
	normalLeadDays = 10
)

// MaxSubRequests caps the Single-scope line-item count.
const MaxSubRequests = 10

// Machine drives the conditional form for one session. Identity, the config
// table and the directory-derived option lists are read-only inputs; Answer
// is the mutable, serializable state.
type Machine struct {
	Identity     *directory.Identity
	Table        configtable.Table
	Locations    []string
	ServiceTypes []string

	Answer Answer

	// Today is the date source for finish-date minimums; tests override it.
	Today func() time.Time
}

// NewMachine creates a machine with widget-style defaults: availability
// Any Day, priority Normal, no branch answers.
func NewMachine(id *directory.Identity, table configtable.Table, locations, serviceTypes []string) *Machine {
	return &Machine{
		Identity:     id,
		Table:        table,
		Locations:    locations,
		ServiceTypes: serviceTypes,
		Answer: Answer{
			Availability: AvailabilityAnyDay,
			Priority:     PriorityNormal,
		},
		Today: time.Now,
	}
}

// resetDependents clears everything downstream of the request-type/scope
// pair. Both branches and the shared trailing answers go back to defaults.
func (m *Machine) resetDependents() {
	m.Answer.Location = ""
	m.Answer.ManualLocation = ""
	m.Answer.SubRequests = nil
	m.Answer.Departments = nil
	m.Answer.Description = ""
	m.Answer.Occurrence = ""
	m.Answer.AttachmentCount = 0
	m.Answer.Availability = AvailabilityAnyDay
	m.Answer.AvailabilityDetails = ""
	m.Answer.Priority = PriorityNormal
	m.Answer.UrgentReason = ""
	m.Answer.FinishDate = ""
	m.Answer.BudgetAvailable = false
	m.Answer.Budget = BudgetInfo{}
}

// SetRequestType selects the top-level branch. Changing it resets the
// department scope (forced to Multiple for Project) and all dependents.
func (m *Machine) SetRequestType(s string) error {
	rt, err := ParseRequestType(s)
	if err != nil {
		return err
	}
	if rt == m.Answer.RequestType {
		return nil
	}

	m.Answer.RequestType = rt
	if rt == RequestProject {
		m.Answer.Scope = ScopeMultiple
	} else {
		m.Answer.Scope = ScopeUnset
	}
	m.resetDependents()
	return nil
}

// SetScope selects the department scope. Only reachable from Maintenance or
// New; Project pins the scope and rejects edits.
func (m *Machine) SetScope(s string) error {
	switch m.Answer.RequestType {
	case RequestUnset:
		return fmt.Errorf("select a request type before the department scope")
	case RequestProject:
		return fmt.Errorf("department scope is fixed to Multiple for Project requests")
	}

	sc, err := ParseScope(s)
	if err != nil {
		return err
	}
	if sc == m.Answer.Scope {
		return nil
	}

	m.Answer.Scope = sc
	m.resetDependents()
	if sc == ScopeSingle {
		m.Answer.SubRequests = make([]SubRequest, 1)
	}
	return nil
}

func (m *Machine) requireScope(want Scope) error {
	if m.Answer.Scope != want {
		return fmt.Errorf("field applies to %s-scope requests only", want)
	}
	return nil
}

// SetLocation picks the work location for the Single-scope flow. Choosing
// "Other" enables the free-text manual entry.
func (m *Machine) SetLocation(choice, manual string) error {
	if err := m.requireScope(ScopeSingle); err != nil {
		return err
	}
	if !contains(m.LocationOptions(), choice) {
		return fmt.Errorf("unknown location %q", choice)
	}
	m.Answer.Location = choice
	if choice == "Other" {
		m.Answer.ManualLocation = strings.TrimSpace(manual)
	} else {
		m.Answer.ManualLocation = ""
	}
	return nil
}

// SetSubRequestCount resizes the Single-scope line items to n, preserving
// already-entered entries.
func (m *Machine) SetSubRequestCount(n int) error {
	if err := m.requireScope(ScopeSingle); err != nil {
		return err
	}
	if n < 1 || n > MaxSubRequests {
		return fmt.Errorf("number of requests must be between 1 and %d", MaxSubRequests)
	}
	cur := m.Answer.SubRequests
	if n <= len(cur) {
		m.Answer.SubRequests = cur[:n]
		return nil
	}
	grown := make([]SubRequest, n)
	copy(grown, cur)
	m.Answer.SubRequests = grown
	return nil
}

// SubRequestPatch carries partial updates for one line item.
type SubRequestPatch struct {
	ServiceDept        *string `json:"service_dept,omitempty"`
	SubCategory        *string `json:"sub_category,omitempty"`
	Description        *string `json:"description,omitempty"`
	Occurrence         *string `json:"occurrence,omitempty"`
	Reason             *string `json:"reason,omitempty"`
	ExistingChallenges *string `json:"existing_challenges,omitempty"`
	AttachmentProvided *bool   `json:"attachment_provided,omitempty"`
}

// UpdateSubRequest applies a patch to line item i. The service department
// must come from the config-table options, and the sub-category from the
// column belonging to the chosen department. Changing the department resets
// the dependent sub-category.
func (m *Machine) UpdateSubRequest(i int, p SubRequestPatch) error {
	if err := m.requireScope(ScopeSingle); err != nil {
		return err
	}
	if i < 0 || i >= len(m.Answer.SubRequests) {
		return fmt.Errorf("sub-request index %d out of range", i)
	}
	item := &m.Answer.SubRequests[i]

	if p.ServiceDept != nil {
		dept := strings.TrimSpace(*p.ServiceDept)
		if !contains(m.ServiceDeptOptions(), dept) {
			return fmt.Errorf("unknown service department %q", dept)
		}
		if dept != item.ServiceDept {
			item.SubCategory = ""
		}
		item.ServiceDept = dept
	}
	if p.SubCategory != nil {
		sub := strings.TrimSpace(*p.SubCategory)
		if item.ServiceDept == "" {
			return fmt.Errorf("select a service department before the sub-category")
		}
		opts := m.SubCategoryOptions(item.ServiceDept)
		if len(opts) > 0 && !contains(opts, sub) {
			return fmt.Errorf("unknown sub-category %q for %s", sub, item.ServiceDept)
		}
		item.SubCategory = sub
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Occurrence != nil {
		if m.Answer.RequestType != RequestMaintenance {
			return fmt.Errorf("issue occurrence applies to Maintenance requests only")
		}
		occ := strings.TrimSpace(*p.Occurrence)
		if opts := m.OccurrenceOptions(); len(opts) > 0 && !contains(opts, occ) {
			return fmt.Errorf("unknown issue occurrence %q", occ)
		}
		item.Occurrence = occ
	}
	if p.Reason != nil {
		if m.Answer.RequestType != RequestNew {
			return fmt.Errorf("reason applies to New requests only")
		}
		item.Reason = *p.Reason
	}
	if p.ExistingChallenges != nil {
		if m.Answer.RequestType != RequestNew {
			return fmt.Errorf("existing challenges apply to New requests only")
		}
		item.ExistingChallenges = *p.ExistingChallenges
	}
	if p.AttachmentProvided != nil {
		item.AttachmentProvided = *p.AttachmentProvided
	}
	return nil
}

// SetDepartments multi-selects the departments of a Multiple-scope request.
func (m *Machine) SetDepartments(depts []string) error {
	if err := m.requireScope(ScopeMultiple); err != nil {
		return err
	}
	opts := m.DepartmentOptions()
	var clean []string
	seen := make(map[string]bool)
	for _, d := range depts {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		if !contains(opts, d) {
			return fmt.Errorf("unknown department %q", d)
		}
		seen[d] = true
		clean = append(clean, d)
	}
	m.Answer.Departments = clean
	return nil
}

// SetDescription sets the shared description of a Multiple-scope request.
func (m *Machine) SetDescription(s string) error {
	if err := m.requireScope(ScopeMultiple); err != nil {
		return err
	}
	m.Answer.Description = s
	return nil
}

// SetOccurrence sets the shared issue occurrence of a Multiple-scope request.
func (m *Machine) SetOccurrence(s string) error {
	if err := m.requireScope(ScopeMultiple); err != nil {
		return err
	}
	occ := strings.TrimSpace(s)
	if opts := m.OccurrenceOptions(); len(opts) > 0 && !contains(opts, occ) {
		return fmt.Errorf("unknown issue occurrence %q", occ)
	}
	m.Answer.Occurrence = occ
	return nil
}

// SetAttachmentCount records how many attachments accompany a
// Multiple-scope request. Attachments themselves are out of scope; only
// their count is observable here.
func (m *Machine) SetAttachmentCount(n int) error {
	if err := m.requireScope(ScopeMultiple); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("attachment count must be non-negative")
	}
	m.Answer.AttachmentCount = n
	return nil
}

// SetAvailability records the location availability. Details are kept only
// for Restricted.
func (m *Machine) SetAvailability(s, details string) error {
	if m.Answer.Scope == ScopeUnset {
		return fmt.Errorf("select a department scope first")
	}
	av, err := ParseAvailability(s)
	if err != nil {
		return err
	}
	m.Answer.Availability = av
	if av == AvailabilityRestricted {
		m.Answer.AvailabilityDetails = details
	} else {
		m.Answer.AvailabilityDetails = ""
	}
	return nil
}

// SetPriority records the priority. The urgency reason is kept only for
// Urgent, and an already-picked finish date that falls under the new
// minimum is cleared so it must be re-chosen.
func (m *Machine) SetPriority(s, urgentReason string) error {
	if m.Answer.Scope == ScopeUnset {
		return fmt.Errorf("select a department scope first")
	}
	p, err := ParsePriority(s)
	if err != nil {
		return err
	}
	m.Answer.Priority = p
	if p == PriorityUrgent {
		m.Answer.UrgentReason = urgentReason
	} else {
		m.Answer.UrgentReason = ""
	}

	if m.Answer.FinishDate != "" {
		if d, err := time.Parse(DateLayout, m.Answer.FinishDate); err != nil || d.Before(m.MinFinishDate()) {
			m.Answer.FinishDate = ""
		}
	}
	return nil
}

// MinFinishDate is the earliest acceptable expected-finish date for the
// current priority: today+3 days when Urgent, today+10 otherwise.
func (m *Machine) MinFinishDate() time.Time {
	return MinFinishDate(m.Today(), m.Answer.Priority)
}

// MinFinishDate computes the finish-date floor for a priority.
func MinFinishDate(today time.Time, p Priority) time.Time {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if p == PriorityUrgent {
		return day.AddDate(0, 0, urgentLeadDays)
	}
	return day.AddDate(0, 0, normalLeadDays)
}

// SetFinishDate records the expected finish date (YYYY-MM-DD). Dates before
// the computed minimum are rejected.
func (m *Machine) SetFinishDate(s string) error {
	if m.Answer.Scope == ScopeUnset {
		return fmt.Errorf("select a department scope first")
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	if min := m.MinFinishDate(); d.Before(min) {
		return fmt.Errorf("expected finish date must be on or after %s", min.Format(DateLayout))
	}
	m.Answer.FinishDate = d.Format(DateLayout)
	return nil
}

// SetBudget records budget availability; the detail fields are kept only
// when a budget code is available.
func (m *Machine) SetBudget(available bool, info BudgetInfo) error {
	if m.Answer.Scope == ScopeUnset {
		return fmt.Errorf("select a department scope first")
	}
	m.Answer.BudgetAvailable = available
	if available {
		m.Answer.Budget = info
	} else {
		m.Answer.Budget = BudgetInfo{}
	}
	return nil
}

// EffectiveLocation resolves the Single-scope location, preferring the
// manual entry when "Other" was chosen.
func (m *Machine) EffectiveLocation() string {
	if m.Answer.Location == "Other" {
		return m.Answer.ManualLocation
	}
	return m.Answer.Location
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
