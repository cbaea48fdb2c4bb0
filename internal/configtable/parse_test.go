package configtable

import (
	"reflect"
	"testing"

	"github.com/iesm-tools/intake/internal/directory"
)

func TestParseEmpty(t *testing.T) {
	tbl := Parse(nil)
	if tbl.Len() != 0 {
		t.Errorf("expected empty table, got %d headers", tbl.Len())
	}
	if tbl.Column("anything") != nil {
		t.Error("expected nil column on empty table")
	}
}

func TestParseObjectRowsDropsDuplicatedHeader(t *testing.T) {
	entries := []any{
		directory.NewRow([2]string{"Dept", "Dept"}, [2]string{"Issue Occurrence", "First Time"}),
		directory.NewRow([2]string{"Dept", "A"}, [2]string{"Issue Occurrence", "Recurring"}),
		directory.NewRow([2]string{"Dept", "B"}, [2]string{"Issue Occurrence", ""}),
	}

	tbl := Parse(entries)

	if got, want := tbl.Column("Dept"), []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Dept column: got %v, want %v", got, want)
	}
	// First value does not equal the header, so nothing is dropped.
	if got, want := tbl.Column("Issue Occurrence"), []string{"First Time", "Recurring"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Issue Occurrence column: got %v, want %v", got, want)
	}
}

func TestParseObjectRowsHeaderDropIsCaseInsensitive(t *testing.T) {
	entries := []any{
		directory.NewRow([2]string{"Dept", " dept "}),
		directory.NewRow([2]string{"Dept", "A"}),
	}
	tbl := Parse(entries)
	if got, want := tbl.Column("dept"), []string{"A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParsePositionalRows(t *testing.T) {
	entries := []any{
		[]any{"Plumbing", "Carpentry"},
		[]any{"Leak fix", "Shelving"},
		[]any{"", "Door repair"},
		[]any{"Pipe replacement"},
	}

	tbl := Parse(entries)

	if got, want := tbl.Headers(), []string{"Plumbing", "Carpentry"}; !reflect.DeepEqual(got, want) {
		t.Errorf("headers: got %v, want %v", got, want)
	}
	if got, want := tbl.Column("Plumbing"), []string{"Leak fix", "Pipe replacement"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Plumbing: got %v, want %v", got, want)
	}
	if got, want := tbl.Column("Carpentry"), []string{"Shelving", "Door repair"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Carpentry: got %v, want %v", got, want)
	}
}

func TestParsePositionalNeverDropsByContent(t *testing.T) {
	// A value equal to the header must survive in the positional shape;
	// only the object-row shape applies the duplicate-header defense.
	entries := []any{
		[]any{"Plumbing"},
		[]any{"Plumbing"},
		[]any{"Leak fix"},
	}
	tbl := Parse(entries)
	if got, want := tbl.Column("Plumbing"), []string{"Plumbing", "Leak fix"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParsePositionalHeadersAreTrimmed(t *testing.T) {
	entries := []any{
		[]any{" Plumbing ", "Carpentry"},
		[]any{"Leak fix", "Shelving"},
	}
	tbl := Parse(entries)
	if got, want := tbl.Headers(), []string{"Plumbing", "Carpentry"}; !reflect.DeepEqual(got, want) {
		t.Errorf("headers: got %v, want %v", got, want)
	}
	if got, want := tbl.Column("Plumbing"), []string{"Leak fix"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Plumbing: got %v, want %v", got, want)
	}
}

func TestColumnLookupIsCaseInsensitive(t *testing.T) {
	entries := []any{
		directory.NewRow([2]string{"Maintenance Service Type", "Plumbing"}),
	}
	tbl := Parse(entries)
	if got := tbl.Column("maintenance service type"); !reflect.DeepEqual(got, []string{"Plumbing"}) {
		t.Errorf("got %v", got)
	}
}
