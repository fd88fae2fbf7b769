package core

import (
	"slices"
	"testing"
)

func TestAddReturnsSnapshotInJoinOrder(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("R7Q2KX", "alice")
	got := d.Add("R7Q2KX", "bob")
	if !slices.Equal(got, []string{"alice", "bob"}) {
		t.Fatalf("expected [alice bob], got %v", got)
	}
}

func TestAddSameNameIsIdempotent(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("r1", "alice")
	got := d.Add("r1", "alice")
	if !slices.Equal(got, []string{"alice"}) {
		t.Fatalf("expected [alice] after duplicate add, got %v", got)
	}
}

func TestRemoveReturnsRemainingMembers(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("r1", "alice")
	d.Add("r1", "bob")
	got, empty := d.Remove("r1", "bob")
	if empty {
		t.Fatal("room should not be empty")
	}
	if !slices.Equal(got, []string{"alice"}) {
		t.Fatalf("expected [alice], got %v", got)
	}
}

func TestRemoveLastMemberDeletesRoom(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("r1", "alice")
	_, empty := d.Remove("r1", "alice")
	if !empty {
		t.Fatal("expected empty after last member left")
	}
	// Verify absence, not just an empty set.
	if d.Exists("r1") {
		t.Fatal("expected room entry to be garbage collected")
	}
}

func TestRemoveFromUnknownRoomIsNoop(t *testing.T) {
	d := NewRoomDirectory()
	snapshot, empty := d.Remove("nope", "alice")
	if !empty || snapshot != nil {
		t.Fatalf("expected nil/empty for unknown room, got %v empty=%v", snapshot, empty)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	d := NewRoomDirectory()
	snap := d.Add("r1", "alice")
	snap[0] = "mallory"
	if got := d.Members("r1"); !slices.Equal(got, []string{"alice"}) {
		t.Fatalf("directory state mutated through snapshot: %v", got)
	}
}

func TestListIncludesAllLiveRooms(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("r1", "alice")
	d.Add("r2", "bob")
	d.Add("r2", "carol")
	infos := d.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(infos))
	}
	for _, info := range infos {
		if info.RoomID == "r2" && len(info.Members) != 2 {
			t.Fatalf("expected 2 members in r2, got %v", info.Members)
		}
	}
}
