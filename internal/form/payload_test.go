package form

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func readyMultiple(t *testing.T) *Machine {
	t.Helper()
	m := testMachine()
	m.SetRequestType("Maintenance")
	m.SetScope("Multiple")
	if err := m.SetDepartments([]string{"Fabrication"}); err != nil {
		t.Fatalf("SetDepartments: %v", err)
	}
	if err := m.SetDescription("shared work item"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if err := m.SetOccurrence("Recurring"); err != nil {
		t.Fatalf("SetOccurrence: %v", err)
	}
	if err := m.SetFinishDate("2026-03-15"); err != nil {
		t.Fatalf("SetFinishDate: %v", err)
	}
	return m
}

func TestMultipleScopeSubmitValidation(t *testing.T) {
	m := readyMultiple(t)
	m.Answer.Departments = nil
	m.Answer.Description = "   "

	err := m.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	// Every unmet requirement is listed, not just the first.
	joined := strings.Join(ve.Problems, "\n")
	if !strings.Contains(joined, "department") {
		t.Errorf("missing department problem: %v", ve.Problems)
	}
	if !strings.Contains(joined, "description") {
		t.Errorf("missing description problem: %v", ve.Problems)
	}
}

func TestMultipleScopeSubmitPayload(t *testing.T) {
	m := readyMultiple(t)
	p, err := m.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if p.RequesterEmail != "a@b.com" || p.Name != "A" || p.Department != "Eng" {
		t.Errorf("identity fields wrong: %+v", p)
	}
	if p.DepartmentType != "Multiple" {
		t.Errorf("department_type: got %q", p.DepartmentType)
	}
	if !reflect.DeepEqual(p.SelectedDepartments, []string{"Fabrication"}) {
		t.Errorf("selected_departments: %v", p.SelectedDepartments)
	}
	if p.IssueOccurrence != "Recurring" {
		t.Errorf("issue_occurrence: %q", p.IssueOccurrence)
	}
	if p.PhotosProvided == nil || *p.PhotosProvided {
		t.Errorf("photos_provided: %v", p.PhotosProvided)
	}
	if p.Location != "" || p.Requests != nil {
		t.Errorf("single-scope fields leaked into multiple payload: %+v", p)
	}
	if !m.Answer.Submitted {
		t.Error("machine not marked submitted")
	}
	if _, err := m.Submit(); err == nil {
		t.Error("second submit accepted")
	}
}

func TestSingleScopeEndToEnd(t *testing.T) {
	m := testMachine()
	m.SetRequestType("Maintenance")
	m.SetScope("Single")
	if err := m.SetLocation("North Campus", ""); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}

	dept := "Plumbing"
	sub := "Leak fix"
	desc := "tap dripping in block C"
	occ := "Recurring"
	if err := m.UpdateSubRequest(0, SubRequestPatch{
		ServiceDept: &dept, SubCategory: &sub, Description: &desc, Occurrence: &occ,
	}); err != nil {
		t.Fatalf("UpdateSubRequest: %v", err)
	}

	// Normal priority: minimum is today+10.
	if err := m.SetFinishDate("2026-03-11"); err != nil {
		t.Fatalf("SetFinishDate: %v", err)
	}

	p, err := m.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if p.RequestType != "Maintenance" || p.DepartmentType != "Single" {
		t.Errorf("branch fields: %+v", p)
	}
	if p.DepartmentLeadEmail != "lead@b.com" {
		t.Errorf("department_lead_email: %q", p.DepartmentLeadEmail)
	}
	if p.Location != "North Campus" {
		t.Errorf("location: %q", p.Location)
	}
	if len(p.Requests) != 1 {
		t.Fatalf("requests: %v", p.Requests)
	}
	r := p.Requests[0]
	if r.ServiceDept != "Plumbing" || r.SubCategory != "Leak fix" || r.Occurrence != "Recurring" {
		t.Errorf("request item: %+v", r)
	}
	if r.Reason != "" || r.ExistingChallenges != "" {
		t.Errorf("new-branch fields leaked into maintenance item: %+v", r)
	}
	if p.ExpectedFinishDate != "2026-03-11" {
		t.Errorf("expected_finish_date: %q", p.ExpectedFinishDate)
	}
	if p.Priority != "Normal" || p.UrgentReason != "" {
		t.Errorf("priority fields: %+v", p)
	}
	if p.BudgetAvailable == nil || *p.BudgetAvailable || p.BudgetInfo != nil {
		t.Errorf("budget fields: %+v", p)
	}
}

func TestSingleScopeValidationEnumeratesPerItem(t *testing.T) {
	m := testMachine()
	m.SetRequestType("Maintenance")
	m.SetScope("Single")
	m.SetSubRequestCount(2)

	err := m.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	joined := strings.Join(ve.Problems, "\n")
	for _, want := range []string{
		"location is not selected",
		"request 1: service department",
		"request 2: service department",
		"request 1: description",
		"expected finish date",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing problem %q in %v", want, ve.Problems)
		}
	}
}

func TestUrgentRequiresReasonAndRestrictedRequiresDetails(t *testing.T) {
	m := readyMultiple(t)
	m.Answer.Priority = PriorityUrgent
	m.Answer.UrgentReason = " "
	m.Answer.Availability = AvailabilityRestricted
	m.Answer.AvailabilityDetails = ""

	err := m.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	joined := strings.Join(ve.Problems, "\n")
	if !strings.Contains(joined, "urgency") {
		t.Errorf("missing urgency problem: %v", ve.Problems)
	}
	if !strings.Contains(joined, "restriction") {
		t.Errorf("missing restriction problem: %v", ve.Problems)
	}
}

func TestProjectMasterPayload(t *testing.T) {
	m := testMachine()
	m.SetRequestType("Project")

	p, err := m.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if p.RequestType != "Project" || p.DepartmentType != "Multiple" {
		t.Errorf("master ticket fields: %+v", p)
	}
	if p.Requests != nil || p.SelectedDepartments != nil || p.LocationAvailability != nil || p.BudgetAvailable != nil {
		t.Errorf("scope fields present on master ticket: %+v", p)
	}
}

func TestSubmitRequiresVerifiedIdentity(t *testing.T) {
	m := testMachine()
	m.Identity = nil
	m.SetRequestType("Project")
	if _, err := m.Submit(); err == nil {
		t.Error("submit accepted without verified identity")
	}
}

func TestUnsetEnumNeverValidForSubmit(t *testing.T) {
	m := testMachine()
	err := m.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !strings.Contains(strings.Join(ve.Problems, "\n"), "request type") {
		t.Errorf("missing request type problem: %v", ve.Problems)
	}
}
