package signal

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/codehaven/collab-server/internal/domain"
	"github.com/codehaven/collab-server/internal/protocol"
)

// handleAskAI kicks the gateway flow off the read loop so the upstream
// call and its backoff never block this connection's dispatch.
func (ctl *Controller) handleAskAI(srvCtx context.Context, cl *client, m *protocol.AskAI) {
	if !ctl.joinedRoom(cl) {
		return
	}
	if ctl.Gateway == nil {
		ctl.sendError(cl.conn, "AI assistant is not configured")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(cl.id)).Str("room", string(m.RoomID)).Msg("AI question")

	q := domain.Question{
		Prompt:       m.Prompt,
		SelectedCode: m.SelectedCode,
		FilePath:     m.FilePath,
		Language:     m.Language,
	}
	go ctl.Gateway.HandleAsk(srvCtx, m.RoomID, q)
}
