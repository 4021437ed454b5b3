package tracker

import "testing"

func TestMemoryMarkAndSeen(t *testing.T) {
	m := NewMemory()

	if m.Seen("a1") {
		t.Fatalf("expected a1 unseen in fresh tracker")
	}
	m.Mark("a1")
	if !m.Seen("a1") {
		t.Fatalf("expected a1 seen after Mark")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 tracked id, got %d", m.Len())
	}

	// Marking twice stays a single entry.
	m.Mark("a1")
	if m.Len() != 1 {
		t.Fatalf("expected Mark to be idempotent, got %d", m.Len())
	}
}

func TestMemoryIgnoresEmptyID(t *testing.T) {
	m := NewMemory()
	m.Mark("")
	if m.Len() != 0 {
		t.Fatalf("expected empty id ignored, got %d entries", m.Len())
	}
	if m.Seen("") {
		t.Fatalf("empty id must never read as seen")
	}
}
