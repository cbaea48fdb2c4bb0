package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemoryMigrates(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO sessions (id) VALUES ('s1')`); err != nil {
		t.Fatalf("insert into sessions: %v", err)
	}

	var answer string
	if err := d.QueryRow(`SELECT answer FROM sessions WHERE id = 's1'`).Scan(&answer); err != nil {
		t.Fatalf("select: %v", err)
	}
	if answer != "{}" {
		t.Errorf("default answer: got %q, want %q", answer, "{}")
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "intake.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	// Migration must be idempotent.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
