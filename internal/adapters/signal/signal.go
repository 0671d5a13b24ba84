package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Livecast/internal/app/orch"
	"github.com/dkeye/Livecast/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int

	ChatMaxLength int
	ChatLimit     int
	ChatInterval  time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32 << 10
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 5 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.ChatMaxLength <= 0 {
		o.ChatMaxLength = 2000
	}
	if o.ChatLimit <= 0 {
		o.ChatLimit = 20
	}
	if o.ChatInterval <= 0 {
		o.ChatInterval = 10 * time.Second
	}
	return o
}

type SignalWSController struct {
	Orch *orch.Orchestrator
	opts Options
	chat *RateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	opts = opts.withDefaults()
	return &SignalWSController{
		Orch: o,
		opts: opts,
		chat: NewRateLimiter(opts.ChatLimit, opts.ChatInterval),
	}
}

// WsSignalConn is the SignalConnection of one WebSocket. Frames queue in send
// and are written by the connection's write pump.
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
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

// Close stops accepting frames. The write pump flushes a close frame and
// shuts the socket, which ends the read pump.
func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", c.GetString("client_token")).
		Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	ctl.Orch.Connect(sid, conn)

	go ctl.writePump(ctx, sid, conn)
	go ctl.readPump(sid, conn)
}
