package form

import "fmt"

// Question describes one currently-visible form field, with its option list
// when the field is a selection.
type Question struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// View is a snapshot of the form for a client: the accumulated answers plus
// the question set visible in the current state.
type View struct {
	Verified  bool       `json:"verified"`
	Answer    Answer     `json:"answer"`
	Questions []Question `json:"questions"`
}

// View derives the visible question set from the current answers. Each
// interaction re-derives this snapshot; nothing is memoized.
func (m *Machine) View() View {
	v := View{Verified: m.Identity != nil, Answer: m.Answer}
	if m.Identity == nil {
		v.Questions = append(v.Questions, Question{
			Field: "email", Label: "Your official email ID", Required: true,
		})
		return v
	}

	v.Questions = append(v.Questions, Question{
		Field:    "request_type",
		Label:    "Type of request",
		Options:  []string{string(RequestMaintenance), string(RequestNew), string(RequestProject)},
		Required: true,
	})

	switch m.Answer.RequestType {
	case RequestUnset, RequestProject:
		return v
	}

	v.Questions = append(v.Questions, Question{
		Field:    "department_scope",
		Label:    "Departments involved",
		Options:  []string{string(ScopeSingle), string(ScopeMultiple)},
		Required: true,
	})

	switch m.Answer.Scope {
	case ScopeSingle:
		v.Questions = append(v.Questions, Question{
			Field: "location", Label: "Choose location", Options: m.LocationOptions(), Required: true,
		})
		if m.Answer.Location == "Other" {
			v.Questions = append(v.Questions, Question{
				Field: "manual_location", Label: "Enter location", Required: true,
			})
		}
		v.Questions = append(v.Questions, Question{
			Field: "sub_request_count",
			Label: fmt.Sprintf("Number of requests (max %d)", MaxSubRequests),
		})
		for i := range m.Answer.SubRequests {
			v.Questions = append(v.Questions, m.subRequestQuestions(i)...)
		}
	case ScopeMultiple:
		v.Questions = append(v.Questions,
			Question{Field: "departments", Label: "Select departments involved", Options: m.DepartmentOptions(), Required: true},
			Question{Field: "description", Label: "Description (single request covering all selected departments)", Required: true},
			Question{Field: "occurrence", Label: "Issue Occurrence", Options: m.OccurrenceOptions()},
			Question{Field: "attachment_count", Label: "Attachments (count only)"},
		)
	default:
		return v
	}

	v.Questions = append(v.Questions, m.sharedQuestions()...)
	return v
}

func (m *Machine) subRequestQuestions(i int) []Question {
	item := m.Answer.SubRequests[i]
	prefix := fmt.Sprintf("sub_requests.%d.", i)

	qs := []Question{
		{Field: prefix + "service_dept", Label: fmt.Sprintf("Service Dept (request %d)", i+1), Options: m.ServiceDeptOptions(), Required: true},
	}
	if item.ServiceDept != "" {
		qs = append(qs, Question{
			Field:    prefix + "sub_category",
			Label:    fmt.Sprintf("Sub Category (request %d)", i+1),
			Options:  m.SubCategoryOptions(item.ServiceDept),
			Required: len(m.SubCategoryOptions(item.ServiceDept)) > 0,
		})
	}
	qs = append(qs, Question{Field: prefix + "description", Label: fmt.Sprintf("Description (request %d)", i+1), Required: true})

	if m.Answer.RequestType == RequestMaintenance {
		qs = append(qs, Question{
			Field:    prefix + "occurrence",
			Label:    fmt.Sprintf("Issue Occurrence (request %d)", i+1),
			Options:  m.OccurrenceOptions(),
			Required: len(m.OccurrenceOptions()) > 0,
		})
	} else {
		qs = append(qs,
			Question{Field: prefix + "reason", Label: fmt.Sprintf("Reason (request %d)", i+1), Required: true},
			Question{Field: prefix + "existing_challenges", Label: fmt.Sprintf("Existing Challenges (request %d)", i+1)},
		)
	}
	qs = append(qs, Question{Field: prefix + "attachment_provided", Label: fmt.Sprintf("Attachment provided (request %d)", i+1)})
	return qs
}

func (m *Machine) sharedQuestions() []Question {
	qs := []Question{
		{Field: "availability", Label: "Availability of location/space for the work",
			Options: []string{string(AvailabilityAnyDay), string(AvailabilityRestricted)}, Required: true},
	}
	if m.Answer.Availability == AvailabilityRestricted {
		qs = append(qs, Question{Field: "availability_details", Label: "Additional information about restrictions", Required: true})
	}
	qs = append(qs, Question{Field: "priority", Label: "Priority",
		Options: []string{string(PriorityNormal), string(PriorityUrgent)}, Required: true})
	if m.Answer.Priority == PriorityUrgent {
		qs = append(qs, Question{Field: "urgent_reason", Label: "Please state the reason for urgency", Required: true})
	}
	qs = append(qs, Question{
		Field:    "finish_date",
		Label:    fmt.Sprintf("Expected date to finish (on or after %s)", m.MinFinishDate().Format(DateLayout)),
		Required: true,
	})
	qs = append(qs, Question{Field: "budget_available", Label: "Is Budget Code Available?", Options: []string{"No", "Yes"}})
	if m.Answer.BudgetAvailable {
		qs = append(qs,
			Question{Field: "budget.book_of_accounts", Label: "Book of Accounts"},
			Question{Field: "budget.budget_code", Label: "Budget Code"},
			Question{Field: "budget.utilization_date", Label: "Utilization Date"},
			Question{Field: "budget.entity_name", Label: "Entity Name"},
		)
	}
	return qs
}
