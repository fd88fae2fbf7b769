// Package core holds the in-memory state of the sync server: the
// connection registry and the room/voice membership directories.
// Pure bookkeeping, no transport knowledge beyond SignalConnection.
package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codehaven/collab-server/internal/domain"
)

type connEntry struct {
	Conn   SignalConnection
	Room   domain.RoomID
	Name   string
	Cancel context.CancelFunc
}

// Registry is the authoritative record of live connections and the
// room/name binding of each. A connection is registered on transport
// connect, bound once by the first join, and removed on disconnect.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

func (r *Registry) Register(id domain.ConnID, conn SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Int("total", len(r.conns)).Msg("connection registered")
}

// Bind attaches a room and display name to a registered connection.
// First join wins: a second bind for the same connection is rejected.
func (r *Registry) Bind(id domain.ConnID, room domain.RoomID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return domain.ErrUnknownConn
	}
	if e.Room != "" {
		return domain.ErrAlreadyJoined
	}
	e.Room = room
	e.Name = name
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Str("room", string(room)).Str("name", name).Msg("connection bound")
	return nil
}

// Lookup returns the transport endpoint for a connection, if it is
// still alive. Used by the signaling relay for unicast addressing.
func (r *Registry) Lookup(id domain.ConnID) (SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}

// BindingOf reports the room and display name a connection joined with.
// ok is false for unknown or not-yet-joined connections.
func (r *Registry) BindingOf(id domain.ConnID) (domain.RoomID, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.Room == "" {
		return "", "", false
	}
	return e.Room, e.Name, true
}

// Remove deletes a connection, cancels its context and returns the
// binding it held so the caller can cascade directory cleanup. Removing
// an unknown connection is a no-op: the transport may report a
// disconnect for a connection that never fully registered.
func (r *Registry) Remove(id domain.ConnID) (domain.RoomID, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return "", "", false
	}
	delete(r.conns, id)
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Int("total", len(r.conns)).Msg("connection removed")
	if e.Room == "" {
		return "", "", false
	}
	return e.Room, e.Name, true
}

type ConnSnap struct {
	ID   domain.ConnID
	Conn SignalConnection
}

// ConnsInRoom snapshots every connection currently bound to a room.
func (r *Registry) ConnsInRoom(room domain.RoomID) []ConnSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConnSnap, 0, len(r.conns))
	for id, e := range r.conns {
		if e.Room == room {
			out = append(out, ConnSnap{ID: id, Conn: e.Conn})
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CancelAll tears down every registered connection. Used on shutdown.
func (r *Registry) CancelAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.conns {
		if e.Cancel != nil {
			e.Cancel()
		}
	}
}
