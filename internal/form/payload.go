package form

import "fmt"

// LocationAvailability is the availability pair in the submit payload.
type LocationAvailability struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

// SubRequestPayload is one line item in the submit payload. Only the branch
// keys matching the request type are emitted.
type SubRequestPayload struct {
	ServiceDept        string `json:"service_dept"`
	SubCategory        string `json:"sub_category"`
	Description        string `json:"description"`
	Occurrence         string `json:"occurrence,omitempty"`
	Reason             string `json:"reason,omitempty"`
	ExistingChallenges string `json:"existing_challenges,omitempty"`
	PhotoProvided      bool   `json:"photo_provided"`
}

// Payload is the JSON document produced on submit. Delivering it to a
// ticketing backend is the caller's concern; the form never sends it
// anywhere itself.
type Payload struct {
	RequesterEmail      string `json:"requester_email"`
	Name                string `json:"name"`
	Department          string `json:"department"`
	DepartmentLeadEmail string `json:"department_lead_email"`
	RequestType         string `json:"request_type"`
	DepartmentType      string `json:"department_type"`

	// Single-scope branch.
	Location string              `json:"location,omitempty"`
	Requests []SubRequestPayload `json:"requests,omitempty"`

	// Multiple-scope branch.
	SelectedDepartments []string `json:"selected_departments,omitempty"`
	Description         string   `json:"description,omitempty"`
	IssueOccurrence     string   `json:"issue_occurrence,omitempty"`
	PhotosProvided      *bool    `json:"photos_provided,omitempty"`

	// Shared trailing answers (absent for Project master tickets).
	LocationAvailability *LocationAvailability `json:"location_availability,omitempty"`
	Priority             string                `json:"priority,omitempty"`
	UrgentReason         string                `json:"urgent_reason,omitempty"`
	ExpectedFinishDate   string                `json:"expected_finish_date,omitempty"`
	BudgetAvailable      *bool                 `json:"budget_available,omitempty"`
	BudgetInfo           *BudgetInfo           `json:"budget_info,omitempty"`
}

// Submit validates the form and assembles the payload for the active
// branch, marking the machine submitted. It performs no external side
// effect.
func (m *Machine) Submit() (*Payload, error) {
	if m.Answer.Submitted {
		return nil, fmt.Errorf("form already submitted")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	p := &Payload{
		RequesterEmail:      m.Identity.Email,
		Name:                m.Identity.Name,
		Department:          m.Identity.Department,
		DepartmentLeadEmail: m.Identity.DepartmentLead,
		RequestType:         string(m.Answer.RequestType),
		DepartmentType:      string(m.Answer.Scope),
	}

	// Project requests compose a minimal master ticket.
	if m.Answer.RequestType == RequestProject {
		m.Answer.Submitted = true
		return p, nil
	}

	switch m.Answer.Scope {
	case ScopeSingle:
		p.Location = m.EffectiveLocation()
		for _, item := range m.Answer.SubRequests {
			sp := SubRequestPayload{
				ServiceDept:   item.ServiceDept,
				SubCategory:   item.SubCategory,
				Description:   item.Description,
				PhotoProvided: item.AttachmentProvided,
			}
			if m.Answer.RequestType == RequestMaintenance {
				sp.Occurrence = item.Occurrence
			} else {
				sp.Reason = item.Reason
				sp.ExistingChallenges = item.ExistingChallenges
			}
			p.Requests = append(p.Requests, sp)
		}
	case ScopeMultiple:
		p.SelectedDepartments = m.Answer.Departments
		p.Description = m.Answer.Description
		p.IssueOccurrence = m.Answer.Occurrence
		provided := m.Answer.AttachmentCount > 0
		p.PhotosProvided = &provided
	}

	p.LocationAvailability = &LocationAvailability{
		Type:    string(m.Answer.Availability),
		Details: m.Answer.AvailabilityDetails,
	}
	p.Priority = string(m.Answer.Priority)
	if m.Answer.Priority == PriorityUrgent {
		p.UrgentReason = m.Answer.UrgentReason
	}
	p.ExpectedFinishDate = m.Answer.FinishDate

	available := m.Answer.BudgetAvailable
	p.BudgetAvailable = &available
	if available {
		budget := m.Answer.Budget
		p.BudgetInfo = &budget
	}

	m.Answer.Submitted = true
	return p, nil
}
