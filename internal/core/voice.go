package core

import (
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codehaven/collab-server/internal/domain"
)

// VoiceDirectory tracks voice-chat participation per room, independent
// of the general room membership. Rosters are small; removal is a
// linear scan by connection id.
type VoiceDirectory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID][]domain.VoiceParticipant
}

func NewVoiceDirectory() *VoiceDirectory {
	return &VoiceDirectory{rooms: make(map[domain.RoomID][]domain.VoiceParticipant)}
}

// Join adds a participant and returns the roster as it was before the
// join, which is exactly what the joining client needs to initiate
// signaling with everyone already present. Re-joining with the same
// connection id replaces the existing entry.
func (d *VoiceDirectory) Join(room domain.RoomID, id domain.ConnID, name string) []domain.VoiceParticipant {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := d.rooms[room]
	prior := make([]domain.VoiceParticipant, 0, len(cur))
	for i := range cur {
		if cur[i].ID == id {
			continue
		}
		prior = append(prior, cur[i])
	}
	d.rooms[room] = append(slices.Clone(prior), domain.VoiceParticipant{ID: id, Name: name})
	log.Debug().Str("module", "core.voice").Str("room", string(room)).Str("conn", string(id)).Int("size", len(prior)+1).Msg("voice participant joined")
	return prior
}

// Leave removes the participant matching the connection id. The room's
// voice entry is deleted once it becomes empty. Reports whether a
// participant was actually removed.
func (d *VoiceDirectory) Leave(room domain.RoomID, id domain.ConnID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur, ok := d.rooms[room]
	if !ok {
		return false
	}
	i := slices.IndexFunc(cur, func(p domain.VoiceParticipant) bool { return p.ID == id })
	if i < 0 {
		return false
	}
	cur = slices.Delete(cur, i, i+1)
	if len(cur) == 0 {
		delete(d.rooms, room)
	} else {
		d.rooms[room] = cur
	}
	log.Debug().Str("module", "core.voice").Str("room", string(room)).Str("conn", string(id)).Msg("voice participant left")
	return true
}

// Participants returns the current roster snapshot for a room.
func (d *VoiceDirectory) Participants(room domain.RoomID) []domain.VoiceParticipant {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.rooms[room])
}

func (d *VoiceDirectory) Count(room domain.RoomID) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms[room])
}
