package signal

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/codehaven/collab-server/internal/protocol"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives one connection. srvCtx outlives the connection and is
// what in-flight AI calls run under, so a disconnect never aborts an
// answer already being computed for the room.
func (ctl *Controller) readPump(srvCtx, connCtx context.Context, cl *client) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(cl.id)).Msg("readPump closing")
		ctl.Hub.Disconnect(cl.id)
		cl.conn.Close()
	}()

	for {
		select {
		case <-connCtx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(cl.id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := cl.conn.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("conn", string(cl.id)).Msg("readPump read error")
				return
			}
			if !cl.limiter.Allow() {
				log.Warn().Str("module", "signal").Str("conn", string(cl.id)).Msg("inbound rate limit exceeded, dropping frame")
				continue
			}
			ctl.handleMessage(srvCtx, cl, data)
		}
	}
}

func (ctl *Controller) handleMessage(srvCtx context.Context, cl *client, data []byte) {
	kind, msg, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(cl.id)).Msg("bad frame")
		return
	}

	switch m := msg.(type) {
	case *protocol.JoinRoom:
		ctl.handleJoinRoom(cl, m)
	case *protocol.ChatMessage:
		ctl.handleChatMessage(cl, m)
	case *protocol.CodeChange:
		ctl.handleCodeChange(cl, m)
	case *protocol.LanguageChange:
		ctl.handleLanguageChange(cl, m)
	case *protocol.CursorChange:
		ctl.handleCursorChange(cl, m)
	case *protocol.JoinVoice:
		ctl.Hub.JoinVoice(cl.id, m.RoomID)
	case *protocol.LeaveVoice:
		ctl.Hub.LeaveVoice(cl.id, m.RoomID)
	case *protocol.VoiceOffer:
		ctl.Hub.RelayOffer(cl.id, m.To, m.Offer)
	case *protocol.VoiceAnswer:
		ctl.Hub.RelayAnswer(cl.id, m.To, m.Answer)
	case *protocol.VoiceCandidate:
		ctl.Hub.RelayCandidate(cl.id, m.To, m.Candidate)
	case *protocol.AskAI:
		ctl.handleAskAI(srvCtx, cl, m)
	default:
		log.Warn().Str("module", "signal").Str("kind", string(kind)).Msg("unhandled message kind")
	}
}

func (ctl *Controller) sendJSON(c *WsSignalConn, v any) {
	b := protocol.Encode(v)
	if b == nil {
		log.Error().Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *WsSignalConn, msg string) {
	ctl.sendJSON(c, protocol.ErrorEvent{Type: protocol.EvtError, Error: msg})
}
