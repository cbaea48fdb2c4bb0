package form

// Patch is a partial answer update, typically decoded from an API request
// body. Nil fields are untouched; set fields are applied through the typed
// transitions in a fixed order so a request type change in the same patch
// resets dependents before they are filled.
type Patch struct {
	RequestType *string `json:"request_type,omitempty"`
	Scope       *string `json:"department_scope,omitempty"`

	Location        *string `json:"location,omitempty"`
	ManualLocation  *string `json:"manual_location,omitempty"`
	SubRequestCount *int    `json:"sub_request_count,omitempty"`

	// SubRequests patches individual line items by index.
	SubRequests []IndexedSubRequestPatch `json:"sub_requests,omitempty"`

	Departments     *[]string `json:"departments,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Occurrence      *string   `json:"occurrence,omitempty"`
	AttachmentCount *int      `json:"attachment_count,omitempty"`

	Availability        *string `json:"availability,omitempty"`
	AvailabilityDetails *string `json:"availability_details,omitempty"`
	Priority            *string `json:"priority,omitempty"`
	UrgentReason        *string `json:"urgent_reason,omitempty"`
	FinishDate          *string `json:"finish_date,omitempty"`

	BudgetAvailable *bool       `json:"budget_available,omitempty"`
	Budget          *BudgetInfo `json:"budget,omitempty"`
}

// IndexedSubRequestPatch addresses one line item of the Single-scope flow.
type IndexedSubRequestPatch struct {
	Index int `json:"index"`
	SubRequestPatch
}

// Apply runs the patch through the machine's transitions. The first
// rejected field stops the patch and is returned; everything applied before
// it remains, leaving the machine in its last valid state.
func (m *Machine) Apply(p Patch) error {
	if p.RequestType != nil {
		if err := m.SetRequestType(*p.RequestType); err != nil {
			return err
		}
	}
	if p.Scope != nil {
		if err := m.SetScope(*p.Scope); err != nil {
			return err
		}
	}

	if p.Location != nil {
		manual := m.Answer.ManualLocation
		if p.ManualLocation != nil {
			manual = *p.ManualLocation
		}
		if err := m.SetLocation(*p.Location, manual); err != nil {
			return err
		}
	} else if p.ManualLocation != nil {
		if err := m.SetLocation(m.Answer.Location, *p.ManualLocation); err != nil {
			return err
		}
	}

	if p.SubRequestCount != nil {
		if err := m.SetSubRequestCount(*p.SubRequestCount); err != nil {
			return err
		}
	}
	for _, sp := range p.SubRequests {
		if err := m.UpdateSubRequest(sp.Index, sp.SubRequestPatch); err != nil {
			return err
		}
	}

	if p.Departments != nil {
		if err := m.SetDepartments(*p.Departments); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := m.SetDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Occurrence != nil {
		if err := m.SetOccurrence(*p.Occurrence); err != nil {
			return err
		}
	}
	if p.AttachmentCount != nil {
		if err := m.SetAttachmentCount(*p.AttachmentCount); err != nil {
			return err
		}
	}

	if p.Availability != nil {
		details := m.Answer.AvailabilityDetails
		if p.AvailabilityDetails != nil {
			details = *p.AvailabilityDetails
		}
		if err := m.SetAvailability(*p.Availability, details); err != nil {
			return err
		}
	} else if p.AvailabilityDetails != nil {
		if err := m.SetAvailability(string(m.Answer.Availability), *p.AvailabilityDetails); err != nil {
			return err
		}
	}

	if p.Priority != nil {
		reason := m.Answer.UrgentReason
		if p.UrgentReason != nil {
			reason = *p.UrgentReason
		}
		if err := m.SetPriority(*p.Priority, reason); err != nil {
			return err
		}
	} else if p.UrgentReason != nil {
		if err := m.SetPriority(string(m.Answer.Priority), *p.UrgentReason); err != nil {
			return err
		}
	}

	if p.FinishDate != nil {
		if err := m.SetFinishDate(*p.FinishDate); err != nil {
			return err
		}
	}

	if p.BudgetAvailable != nil || p.Budget != nil {
		available := m.Answer.BudgetAvailable
		if p.BudgetAvailable != nil {
			available = *p.BudgetAvailable
		}
		info := m.Answer.Budget
		if p.Budget != nil {
			info = *p.Budget
		}
		if err := m.SetBudget(available, info); err != nil {
			return err
		}
	}

	return nil
}
