package form

import (
	"reflect"
	"testing"

	"github.com/iesm-tools/intake/internal/configtable"
	"github.com/iesm-tools/intake/internal/directory"
)

func TestServiceDeptOptionsFallbacks(t *testing.T) {
	// Canonical column present.
	m := testMachine()
	if got, want := m.ServiceDeptOptions(), []string{"Plumbing", "Electrical"}; !reflect.DeepEqual(got, want) {
		t.Errorf("canonical: got %v, want %v", got, want)
	}

	// No canonical column, but a header mentioning maintenance+service.
	m.Table = configtable.Parse([]any{
		directory.NewRow([2]string{"Campus Maintenance Service Depts", "Masonry"}),
	})
	if got := m.ServiceDeptOptions(); !reflect.DeepEqual(got, []string{"Masonry"}) {
		t.Errorf("fuzzy header: got %v", got)
	}

	// Neither: fall back to the header list.
	m.Table = configtable.Parse([]any{
		directory.NewRow([2]string{"Gardening", "Lawn"}, [2]string{"Painting", "Walls"}),
	})
	if got := m.ServiceDeptOptions(); !reflect.DeepEqual(got, []string{"Gardening", "Painting"}) {
		t.Errorf("headers fallback: got %v", got)
	}

	// Empty table: generic placeholder.
	m.Table = configtable.Parse(nil)
	if got := m.ServiceDeptOptions(); !reflect.DeepEqual(got, []string{"General"}) {
		t.Errorf("empty fallback: got %v", got)
	}
}

func TestDepartmentOptionsFallbacks(t *testing.T) {
	m := testMachine()
	// Directory-derived service types win.
	if got, want := m.DepartmentOptions(), []string{"Fabrication", "Carpentry"}; !reflect.DeepEqual(got, want) {
		t.Errorf("service types: got %v, want %v", got, want)
	}

	// Without them, the config service-department column.
	m.ServiceTypes = nil
	if got, want := m.DepartmentOptions(), []string{"Plumbing", "Electrical"}; !reflect.DeepEqual(got, want) {
		t.Errorf("config column: got %v, want %v", got, want)
	}

	// Without any table, the fixed default set.
	m.Table = configtable.Parse(nil)
	if got := m.DepartmentOptions(); !reflect.DeepEqual(got, DefaultDepartments) {
		t.Errorf("default set: got %v", got)
	}
}

func TestViewVisibility(t *testing.T) {
	m := testMachine()

	fields := func() map[string]bool {
		set := make(map[string]bool)
		for _, q := range m.View().Questions {
			set[q.Field] = true
		}
		return set
	}

	// Before any selection only the request type is visible.
	f := fields()
	if !f["request_type"] || f["department_scope"] || f["location"] {
		t.Errorf("initial visibility wrong: %v", f)
	}

	m.SetRequestType("Maintenance")
	f = fields()
	if !f["department_scope"] || f["location"] {
		t.Errorf("post request-type visibility wrong: %v", f)
	}

	m.SetScope("Single")
	f = fields()
	if !f["location"] || !f["sub_requests.0.service_dept"] || f["departments"] {
		t.Errorf("single-scope visibility wrong: %v", f)
	}

	m.SetScope("Multiple")
	f = fields()
	if !f["departments"] || !f["description"] || f["location"] {
		t.Errorf("multiple-scope visibility wrong: %v", f)
	}

	// Project hides the scope question entirely.
	m.SetRequestType("Project")
	f = fields()
	if f["department_scope"] || f["departments"] {
		t.Errorf("project visibility wrong: %v", f)
	}
}

func TestViewUnverified(t *testing.T) {
	m := testMachine()
	m.Identity = nil
	v := m.View()
	if v.Verified {
		t.Error("unverified machine reported verified")
	}
	if len(v.Questions) != 1 || v.Questions[0].Field != "email" {
		t.Errorf("expected only the email question, got %v", v.Questions)
	}
}
