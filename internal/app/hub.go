// Package app wires the core state structures into the room fan-out,
// the signaling relay and the AI gateway.
package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/codehaven/collab-server/internal/core"
	"github.com/codehaven/collab-server/internal/domain"
	"github.com/codehaven/collab-server/internal/protocol"
)

// SessionHub owns the connection registry and the room/voice
// directories and keeps them consistent across join, leave and
// disconnect. All membership changes and their broadcasts go through
// here; the transport adapter only decodes frames and calls in.
type SessionHub struct {
	registry *core.Registry
	rooms    *core.RoomDirectory
	voice    *core.VoiceDirectory
}

func NewSessionHub() *SessionHub {
	return &SessionHub{
		registry: core.NewRegistry(),
		rooms:    core.NewRoomDirectory(),
		voice:    core.NewVoiceDirectory(),
	}
}

// Connect registers a new transport connection and allocates its id.
func (h *SessionHub) Connect(conn core.SignalConnection, cancel context.CancelFunc) domain.ConnID {
	id := domain.ConnID(uuid.NewString())
	h.registry.Register(id, conn, cancel)
	return id
}

// JoinRoom binds the connection to a room and display name, then
// broadcasts the updated member list plus a join delta to the room.
// First join wins; a repeat join returns domain.ErrAlreadyJoined and
// leaves all state untouched.
func (h *SessionHub) JoinRoom(id domain.ConnID, room domain.RoomID, name string) error {
	if room == "" {
		return domain.ErrEmptyRoomID
	}
	if name == "" {
		return domain.ErrEmptyName
	}
	if err := h.registry.Bind(id, room, name); err != nil {
		return err
	}
	snapshot := h.rooms.Add(room, name)

	h.BroadcastRoom(room, protocol.Encode(protocol.UserListEvent{Type: protocol.EvtUserList, Users: snapshot}))
	h.BroadcastRoom(room, protocol.Encode(protocol.UserJoinedEvent{Type: protocol.EvtUserJoined, User: name}))
	return nil
}

// RoomOf reports the room a connection has joined, if any.
func (h *SessionHub) RoomOf(id domain.ConnID) (domain.RoomID, bool) {
	room, _, ok := h.registry.BindingOf(id)
	return room, ok
}

// Disconnect removes a connection and cascades the cleanup: the voice
// roster drops the participant, the room directory drops the name, and
// the remaining members get a final presence broadcast. Disconnecting
// a connection that never joined is a no-op.
func (h *SessionHub) Disconnect(id domain.ConnID) {
	room, name, joined := h.registry.Remove(id)
	if !joined {
		return
	}

	if h.voice.Leave(room, id) {
		h.BroadcastRoom(room, protocol.Encode(protocol.VoiceUserLeftEvent{Type: protocol.EvtVoiceUserLeft, UserID: id}))
	}

	snapshot, empty := h.rooms.Remove(room, name)
	if !empty {
		h.BroadcastRoom(room, protocol.Encode(protocol.UserListEvent{Type: protocol.EvtUserList, Users: snapshot}))
	}
}

// JoinVoice adds the connection to the room's voice roster. The rest of
// the room learns about the newcomer; the newcomer alone receives the
// roster of participants already present, which it needs to start
// signaling with each of them.
func (h *SessionHub) JoinVoice(id domain.ConnID, room domain.RoomID) {
	bound, name, joined := h.registry.BindingOf(id)
	if !joined {
		// Voice join without a room join cannot happen through the
		// client, but must not corrupt state if forced.
		name = "Anonymous"
		log.Warn().Str("module", "app.hub").Str("conn", string(id)).Str("room", string(room)).Msg("voice join from unbound connection")
	} else if bound != room {
		// Pin to the bound room so the disconnect cascade always finds
		// the entry it has to clean up.
		log.Warn().Str("module", "app.hub").Str("conn", string(id)).Str("room", string(room)).Str("bound", string(bound)).Msg("voice join for foreign room, using bound room")
		room = bound
	}
	prior := h.voice.Join(room, id, name)

	h.BroadcastExcept(room, id, protocol.Encode(protocol.VoiceUserJoinedEvent{
		Type:     protocol.EvtVoiceUserJoined,
		UserID:   id,
		UserName: name,
	}))
	h.Unicast(id, protocol.Encode(protocol.VoiceConnectedUsersEvent{
		Type:  protocol.EvtVoiceConnectedUsers,
		Users: prior,
	}))
}

// LeaveVoice removes the connection from the room's voice roster and
// tells the rest of the room. Leaving voice twice is a no-op.
func (h *SessionHub) LeaveVoice(id domain.ConnID, room domain.RoomID) {
	if !h.voice.Leave(room, id) {
		return
	}
	h.BroadcastExcept(room, id, protocol.Encode(protocol.VoiceUserLeftEvent{Type: protocol.EvtVoiceUserLeft, UserID: id}))
}

// RelayOffer forwards a WebRTC offer to its addressee, tagged with the
// sender so the recipient can correlate peer-connection state.
func (h *SessionHub) RelayOffer(from, to domain.ConnID, offer webrtc.SessionDescription) {
	h.Unicast(to, protocol.Encode(protocol.VoiceOfferEvent{Type: string(protocol.KindVoiceOffer), From: from, Offer: offer}))
}

func (h *SessionHub) RelayAnswer(from, to domain.ConnID, answer webrtc.SessionDescription) {
	h.Unicast(to, protocol.Encode(protocol.VoiceAnswerEvent{Type: string(protocol.KindVoiceAnswer), From: from, Answer: answer}))
}

func (h *SessionHub) RelayCandidate(from, to domain.ConnID, cand webrtc.ICECandidateInit) {
	h.Unicast(to, protocol.Encode(protocol.VoiceCandidateEvent{Type: string(protocol.KindVoiceCandidate), From: from, Candidate: cand}))
}

// BroadcastRoom delivers a frame to every connection bound to the room,
// sender included.
func (h *SessionHub) BroadcastRoom(room domain.RoomID, frame core.Frame) {
	for _, snap := range h.registry.ConnsInRoom(room) {
		h.send(snap, frame)
	}
}

// BroadcastExcept delivers a frame to every connection in the room but
// the given one. Used for code changes, where echoing the authoritative
// content back to the sender could clobber an in-flight local edit.
func (h *SessionHub) BroadcastExcept(room domain.RoomID, except domain.ConnID, frame core.Frame) {
	for _, snap := range h.registry.ConnsInRoom(room) {
		if snap.ID == except {
			continue
		}
		h.send(snap, frame)
	}
}

// Unicast delivers a frame to a single connection. A stale target is
// silently dropped: the sender cannot act on it and WebRTC negotiation
// tolerates lost messages via its own timeouts.
func (h *SessionHub) Unicast(to domain.ConnID, frame core.Frame) {
	conn, ok := h.registry.Lookup(to)
	if !ok {
		log.Debug().Str("module", "app.hub").Str("to", string(to)).Msg("unicast target gone, dropping")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.hub").Str("to", string(to)).Msg("unicast send failed")
	}
}

func (h *SessionHub) send(snap core.ConnSnap, frame core.Frame) {
	if err := snap.Conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.hub").Str("conn", string(snap.ID)).Msg("broadcast send failed")
	}
}

// Rooms returns a read-only snapshot of all live rooms for the REST
// surface.
func (h *SessionHub) Rooms() []core.RoomInfo {
	return h.rooms.List()
}

// VoiceCount reports how many participants a room's voice roster holds.
func (h *SessionHub) VoiceCount(room domain.RoomID) int {
	return h.voice.Count(room)
}

// Connections reports the number of live transport connections.
func (h *SessionHub) Connections() int {
	return h.registry.Count()
}

// Shutdown cancels every live connection's read/write loops.
func (h *SessionHub) Shutdown() {
	h.registry.CancelAll()
}
