// Package signal is the WebSocket transport adapter: it upgrades the
// connection, pumps frames in and out, and dispatches decoded messages
// into the session hub and the AI gateway.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/codehaven/collab-server/internal/app"
	"github.com/codehaven/collab-server/internal/core"
	"github.com/codehaven/collab-server/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Hub     *app.SessionHub
	Gateway *app.Gateway

	ReadLimit int64
	// MsgRate caps inbound frames per connection; MsgBurst allows short
	// editing bursts through.
	MsgRate  rate.Limit
	MsgBurst int
}

func NewController(hub *app.SessionHub, gw *app.Gateway, readLimit int64) *Controller {
	return &Controller{
		Hub:       hub,
		Gateway:   gw,
		ReadLimit: readLimit,
		MsgRate:   rate.Limit(100),
		MsgBurst:  200,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// client is the per-connection dispatch state.
type client struct {
	id      domain.ConnID
	conn    *WsSignalConn
	limiter *rate.Limiter
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 64),
	}

	connCtx, cancel := context.WithCancel(ctx)
	id := ctl.Hub.Connect(conn, cancel)
	log.Info().Str("module", "signal").Str("conn", string(id)).Int("total", ctl.Hub.Connections()).Msg("new WS connection")

	cl := &client{
		id:      id,
		conn:    conn,
		limiter: rate.NewLimiter(ctl.MsgRate, ctl.MsgBurst),
	}

	go ctl.writePump(connCtx, conn)
	go ctl.readPump(ctx, connCtx, cl)
}
