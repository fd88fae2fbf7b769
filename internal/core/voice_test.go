package core

import (
	"testing"
)

func TestVoiceJoinReturnsPriorRoster(t *testing.T) {
	d := NewVoiceDirectory()
	prior := d.Join("r1", "conn-a", "alice")
	if len(prior) != 0 {
		t.Fatalf("first joiner should see empty roster, got %v", prior)
	}
	prior = d.Join("r1", "conn-b", "bob")
	if len(prior) != 1 || prior[0].ID != "conn-a" {
		t.Fatalf("second joiner should see [conn-a], got %v", prior)
	}
}

func TestVoiceRejoinReplacesNotDuplicates(t *testing.T) {
	d := NewVoiceDirectory()
	d.Join("r1", "conn-a", "alice")
	d.Join("r1", "conn-a", "alice2")
	roster := d.Participants("r1")
	if len(roster) != 1 {
		t.Fatalf("expected 1 participant after rejoin, got %v", roster)
	}
	if roster[0].Name != "alice2" {
		t.Fatalf("rejoin should replace entry, got %v", roster[0])
	}
}

func TestVoiceLeaveRemovesAndCollectsEmptyRoom(t *testing.T) {
	d := NewVoiceDirectory()
	d.Join("r1", "conn-a", "alice")
	if !d.Leave("r1", "conn-a") {
		t.Fatal("expected leave to report removal")
	}
	if d.Count("r1") != 0 {
		t.Fatal("expected empty voice roster")
	}
	if d.Leave("r1", "conn-a") {
		t.Fatal("second leave should be a no-op")
	}
}

func TestVoiceLeaveUnknownRoomIsNoop(t *testing.T) {
	d := NewVoiceDirectory()
	if d.Leave("nope", "conn-a") {
		t.Fatal("expected no-op for unknown room")
	}
}

func TestVoiceIndependentPerRoom(t *testing.T) {
	d := NewVoiceDirectory()
	d.Join("r1", "conn-a", "alice")
	d.Join("r2", "conn-b", "bob")
	if d.Count("r1") != 1 || d.Count("r2") != 1 {
		t.Fatalf("rosters should be independent: r1=%d r2=%d", d.Count("r1"), d.Count("r2"))
	}
	d.Leave("r1", "conn-a")
	if d.Count("r2") != 1 {
		t.Fatal("leaving r1 must not touch r2")
	}
}
