package signal

import (
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/codehaven/collab-server/internal/domain"
	"github.com/codehaven/collab-server/internal/protocol"
)

// truncate caps s at max bytes without splitting a multibyte rune, so
// an oversized field never turns into invalid UTF-8 on the wire.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func (ctl *Controller) handleJoinRoom(cl *client, m *protocol.JoinRoom) {
	name := truncate(m.DisplayName, domain.MaxDisplayNameLen)
	room := domain.RoomID(truncate(string(m.RoomID), domain.MaxRoomIDLen))

	err := ctl.Hub.JoinRoom(cl.id, room, name)
	switch {
	case err == nil:
		log.Info().Str("module", "signal").Str("conn", string(cl.id)).Str("room", string(room)).Str("name", name).Msg("joined room")
	case errors.Is(err, domain.ErrAlreadyJoined):
		ctl.sendError(cl.conn, "already joined a room")
	default:
		ctl.sendError(cl.conn, "bad join payload")
	}
}

// joinedRoom guards messages that need room context: anything arriving
// before join-room is dropped with a warning.
func (ctl *Controller) joinedRoom(cl *client) bool {
	if _, ok := ctl.Hub.RoomOf(cl.id); ok {
		return true
	}
	log.Warn().Str("module", "signal").Str("conn", string(cl.id)).Msg("room message before join, dropping")
	return false
}

func (ctl *Controller) handleChatMessage(cl *client, m *protocol.ChatMessage) {
	if !ctl.joinedRoom(cl) {
		return
	}
	ctl.Hub.BroadcastRoom(m.RoomID, protocol.Encode(protocol.ChatMessageEvent{
		Type:   protocol.EvtChatMessage,
		RoomID: m.RoomID,
		User:   m.User,
		Msg:    m.Msg,
	}))
}

func (ctl *Controller) handleCodeChange(cl *client, m *protocol.CodeChange) {
	if !ctl.joinedRoom(cl) {
		return
	}
	// Sender excluded: it already holds the authoritative content and an
	// echo could clobber an in-flight local edit.
	ctl.Hub.BroadcastExcept(m.RoomID, cl.id, protocol.Encode(protocol.CodeChangeEvent{
		Type:     protocol.EvtCodeChange,
		RoomID:   m.RoomID,
		FileName: m.FileName,
		Code:     m.Code,
	}))
}

func (ctl *Controller) handleLanguageChange(cl *client, m *protocol.LanguageChange) {
	if !ctl.joinedRoom(cl) {
		return
	}
	ctl.Hub.BroadcastRoom(m.RoomID, protocol.Encode(protocol.LanguageChangeEvent{
		Type:     protocol.EvtLanguageChange,
		RoomID:   m.RoomID,
		Language: m.Language,
	}))
}

func (ctl *Controller) handleCursorChange(cl *client, m *protocol.CursorChange) {
	if !ctl.joinedRoom(cl) {
		return
	}
	// Sender included; the receiving client filters out its own id.
	ctl.Hub.BroadcastRoom(m.RoomID, protocol.Encode(protocol.CursorChangeEvent{
		Type:      protocol.EvtCursorChange,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Cursor:    m.Cursor,
		Selection: m.Selection,
	}))
}
