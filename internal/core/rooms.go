package core

import (
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codehaven/collab-server/internal/domain"
)

// RoomDirectory maps a room to the display names currently present.
// Membership is a set keyed by name, not connection: two connections
// joining the same room under one name count once. Snapshot order is
// insertion order and stays stable for a process run.
type RoomDirectory struct {
	mu      sync.RWMutex
	members map[domain.RoomID][]string
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{members: make(map[domain.RoomID][]string)}
}

// Add inserts a name into the room's member set and returns the updated
// snapshot. Adding an already-present name is a no-op. The room is
// created implicitly on first join.
func (d *RoomDirectory) Add(room domain.RoomID, name string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := d.members[room]
	if !slices.Contains(cur, name) {
		cur = append(cur, name)
		d.members[room] = cur
		log.Debug().Str("module", "core.rooms").Str("room", string(room)).Str("name", name).Int("size", len(cur)).Msg("member added")
	}
	return slices.Clone(cur)
}

// Remove deletes one name from the room. When the set becomes empty the
// room entry itself is deleted and empty is true so callers can skip
// broadcasting to nobody.
func (d *RoomDirectory) Remove(room domain.RoomID, name string) (snapshot []string, empty bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur, ok := d.members[room]
	if !ok {
		return nil, true
	}
	if i := slices.Index(cur, name); i >= 0 {
		cur = slices.Delete(cur, i, i+1)
	}
	if len(cur) == 0 {
		delete(d.members, room)
		log.Debug().Str("module", "core.rooms").Str("room", string(room)).Msg("room emptied and removed")
		return nil, true
	}
	d.members[room] = cur
	log.Debug().Str("module", "core.rooms").Str("room", string(room)).Str("name", name).Int("size", len(cur)).Msg("member removed")
	return slices.Clone(cur), false
}

// Members returns the current snapshot, or nil for an absent room.
func (d *RoomDirectory) Members(room domain.RoomID) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cur, ok := d.members[room]
	if !ok {
		return nil
	}
	return slices.Clone(cur)
}

// Exists reports whether the room has any members (absent rooms are
// garbage collected, so presence in the map means non-empty).
func (d *RoomDirectory) Exists(room domain.RoomID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.members[room]
	return ok
}

type RoomInfo struct {
	RoomID  domain.RoomID `json:"roomId"`
	Members []string      `json:"members"`
}

func (d *RoomDirectory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]RoomInfo, 0, len(d.members))
	for id, names := range d.members {
		out = append(out, RoomInfo{RoomID: id, Members: slices.Clone(names)})
	}
	return out
}
