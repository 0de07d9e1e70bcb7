package dbtypes

import (
	"testing"
	"time"
)

func TestRoleMap_ScanValueRoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 12, 10, 30, 0, 0, time.UTC)
	original := RoleMap{
		"movie-1": {
			Contribution: "Creator",
			Permissions:  AllGranted(),
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		"movie-2": {
			Contribution: "Editor",
			Permissions:  Permissions{Video: true, Scripts: true},
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	raw, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var decoded RoleMap
	if err := decoded.Scan(raw); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	creator := decoded["movie-1"]
	if creator.Contribution != "Creator" {
		t.Fatalf("unexpected contribution %q", creator.Contribution)
	}
	if creator.Permissions != AllGranted() {
		t.Fatalf("creator permissions mutated: %+v", creator.Permissions)
	}
	editor := decoded["movie-2"]
	if editor.Permissions.Image || editor.Permissions.Live || editor.Permissions.Crew {
		t.Fatalf("editor gained permissions it was never granted: %+v", editor.Permissions)
	}
	if !editor.CreatedAt.Equal(now) {
		t.Fatalf("created_at drifted: %v", editor.CreatedAt)
	}
}

func TestRoleMap_ScanNilAndEmpty(t *testing.T) {
	var m RoleMap
	if err := m.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(m))
	}

	if err := m.Scan([]byte(`{}`)); err != nil {
		t.Fatalf("Scan empty object failed: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(m))
	}
}

func TestRoleMap_ScanRejectsUnsupportedType(t *testing.T) {
	var m RoleMap
	if err := m.Scan(42); err == nil {
		t.Fatal("expected Scan to reject an int source")
	}
}

func TestAllGranted(t *testing.T) {
	p := AllGranted()
	if !p.Video || !p.Image || !p.Live || !p.Scripts || !p.Crew {
		t.Fatalf("AllGranted left a capability off: %+v", p)
	}
}
