package form

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError lists every unmet submit requirement so the caller can
// present them together rather than one at a time.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate checks the current answers against the submit requirements of
// the active branch. It returns nil when the form can be submitted, or a
// ValidationError enumerating all problems.
func (m *Machine) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if m.Identity == nil {
		add("email is not verified")
	}
	if m.Answer.RequestType == RequestUnset {
		add("request type is not selected")
	}

	switch m.Answer.RequestType {
	case RequestMaintenance, RequestNew:
		if m.Answer.Scope == ScopeUnset {
			add("department scope is not selected")
		}
	case RequestProject:
		// Master ticket only; no scope sub-answers to check.
		if len(problems) > 0 {
			return &ValidationError{Problems: problems}
		}
		return nil
	}

	switch m.Answer.Scope {
	case ScopeSingle:
		m.validateSingle(add)
	case ScopeMultiple:
		m.validateMultiple(add)
	}

	if m.Answer.Scope != ScopeUnset {
		m.validateShared(add)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (m *Machine) validateSingle(add func(string, ...any)) {
	if m.Answer.Location == "" {
		add("location is not selected")
	} else if m.Answer.Location == "Other" && strings.TrimSpace(m.Answer.ManualLocation) == "" {
		add("manual location is required when location is Other")
	}

	if len(m.Answer.SubRequests) == 0 {
		add("at least one request item is required")
	}
	for i, item := range m.Answer.SubRequests {
		n := i + 1
		if item.ServiceDept == "" {
			add("request %d: service department is not selected", n)
		} else if len(m.SubCategoryOptions(item.ServiceDept)) > 0 && item.SubCategory == "" {
			add("request %d: sub-category is not selected", n)
		}
		if strings.TrimSpace(item.Description) == "" {
			add("request %d: description is required", n)
		}
		switch m.Answer.RequestType {
		case RequestMaintenance:
			if item.Occurrence == "" && len(m.OccurrenceOptions()) > 0 {
				add("request %d: issue occurrence is not selected", n)
			}
		case RequestNew:
			if strings.TrimSpace(item.Reason) == "" {
				add("request %d: reason is required", n)
			}
		}
	}
}

func (m *Machine) validateMultiple(add func(string, ...any)) {
	if len(m.Answer.Departments) == 0 {
		add("select at least one department involved")
	}
	if strings.TrimSpace(m.Answer.Description) == "" {
		add("description is required")
	}
}

func (m *Machine) validateShared(add func(string, ...any)) {
	if m.Answer.Availability == AvailabilityRestricted && strings.TrimSpace(m.Answer.AvailabilityDetails) == "" {
		add("restriction details are required for a Restricted location")
	}
	if m.Answer.Priority == PriorityUrgent && strings.TrimSpace(m.Answer.UrgentReason) == "" {
		add("a reason for urgency is required")
	}

	if m.Answer.FinishDate == "" {
		add("expected finish date is not set")
	} else if d, err := time.Parse(DateLayout, m.Answer.FinishDate); err != nil {
		add("expected finish date is invalid")
	} else if min := m.MinFinishDate(); d.Before(min) {
		add("expected finish date must be on or after %s", min.Format(DateLayout))
	}
}
