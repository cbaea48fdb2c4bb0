// Package form implements the conditional service-request form: an explicit
// state machine over the request type and department scope, the option
// derivation for dependent dropdowns, submit validation and payload
// assembly. The machine owns no I/O; directory rows and the parsed config
// table are read-only inputs.
package form

import "fmt"

// RequestType is the top-level branch of the form.
type RequestType string

const (
	RequestUnset       RequestType = ""
	RequestMaintenance RequestType = "Maintenance"
	RequestNew         RequestType = "New"
	RequestProject     RequestType = "Project"
)

// ParseRequestType validates a user-supplied request type. The unset
// placeholder is never a valid answer.
func ParseRequestType(s string) (RequestType, error) {
	switch RequestType(s) {
	case RequestMaintenance, RequestNew, RequestProject:
		return RequestType(s), nil
	}
	return RequestUnset, fmt.Errorf("invalid request type %q", s)
}

// Scope is the department scope of a Maintenance or New request. Project
// requests force ScopeMultiple.
type Scope string

const (
	ScopeUnset    Scope = ""
	ScopeSingle   Scope = "Single"
	ScopeMultiple Scope = "Multiple"
)

// ParseScope validates a user-supplied department scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSingle, ScopeMultiple:
		return Scope(s), nil
	}
	return ScopeUnset, fmt.Errorf("invalid department scope %q", s)
}

// Priority of the request; Urgent shortens the finish-date minimum and
// requires a justification.
type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityUrgent Priority = "Urgent"
)

// ParsePriority validates a user-supplied priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityNormal, PriorityUrgent:
		return Priority(s), nil
	}
	return "", fmt.Errorf("invalid priority %q", s)
}

// Availability of the location/space for the work.
type Availability string

const (
	AvailabilityAnyDay     Availability = "Any Day"
	AvailabilityRestricted Availability = "Restricted"
)

// ParseAvailability validates a user-supplied availability.
func ParseAvailability(s string) (Availability, error) {
	switch Availability(s) {
	case AvailabilityAnyDay, AvailabilityRestricted:
		return Availability(s), nil
	}
	return "", fmt.Errorf("invalid location availability %q", s)
}

// SubRequest is one line-item of a Single-scope request. Occurrence is the
// Maintenance branch; Reason/ExistingChallenges are the New branch.
type SubRequest struct {
	ServiceDept        string `json:"service_dept"`
	SubCategory        string `json:"sub_category"`
	Description        string `json:"description"`
	Occurrence         string `json:"occurrence,omitempty"`
	Reason             string `json:"reason,omitempty"`
	ExistingChallenges string `json:"existing_challenges,omitempty"`
	AttachmentProvided bool   `json:"attachment_provided"`
}

// BudgetInfo holds the optional budget fields revealed when a budget code
// is available.
type BudgetInfo struct {
	BookOfAccounts  string `json:"book_of_accounts"`
	BudgetCode      string `json:"budget_code"`
	UtilizationDate string `json:"utilization_date"`
	EntityName      string `json:"entity_name"`
}

// Answer is the accumulating, serializable state document of one intake
// session. Only the branch matching the current request type and scope
// carries sub-answers; switching either resets the dependents.
type Answer struct {
	RequestType RequestType `json:"request_type"`
	Scope       Scope       `json:"department_scope"`

	// Single-scope branch.
	Location       string       `json:"location,omitempty"`
	ManualLocation string       `json:"manual_location,omitempty"`
	SubRequests    []SubRequest `json:"sub_requests,omitempty"`

	// Multiple-scope branch.
	Departments     []string `json:"departments,omitempty"`
	Description     string   `json:"description,omitempty"`
	Occurrence      string   `json:"occurrence,omitempty"`
	AttachmentCount int      `json:"attachment_count,omitempty"`

	// Shared trailing answers.
	Availability        Availability `json:"availability,omitempty"`
	AvailabilityDetails string       `json:"availability_details,omitempty"`
	Priority            Priority     `json:"priority,omitempty"`
	UrgentReason        string       `json:"urgent_reason,omitempty"`
	FinishDate          string       `json:"finish_date,omitempty"`
	BudgetAvailable     bool         `json:"budget_available"`
	Budget              BudgetInfo   `json:"budget"`

	Submitted bool `json:"submitted"`
}
