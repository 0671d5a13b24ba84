package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/dkeye/Livecast/internal/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		ctl.chat.Forget(sid)
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
		ctl.dispatch(sid, data)
	}
}

func (ctl *SignalWSController) dispatch(sid core.SessionID, data []byte) {
	var env domain.BaseMessage
	if err := json.Unmarshal(data, &env); err != nil {
		ctl.reject(sid, "invalid", err)
		return
	}

	switch env.Type {
	case domain.MsgTypeJoinRoom:
		ctl.handleJoin(sid, data)
	case domain.MsgTypeLeaveRoom:
		ctl.handleLeave(sid)
	case domain.MsgTypeChatMessage:
		ctl.handleChat(sid, data)
	case domain.MsgTypeStartStream:
		ctl.handleStartStream(sid, data)
	case domain.MsgTypeEndStream:
		ctl.handleEndStream(sid, data)
	case domain.MsgTypeGetPublicStreams:
		ctl.Orch.PublicStreams(sid)
	case domain.MsgTypeSignal:
		ctl.handleRelay(sid, data)
	case domain.MsgTypeBroadcaster:
		ctl.handleBroadcaster(sid)
	case domain.MsgTypeWatcher:
		ctl.handleWatcher(sid)
	case domain.MsgTypePing:
		ctl.handlePing(sid)
	default:
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", env.Type).Msg("unknown signal")
		ctl.Orch.SendError(sid, domain.ErrCodeUnknownType, "unknown message type")
	}
}

// decode unmarshals data into v and runs its validation.
func decode[T interface{ Validate() error }](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	return v, v.Validate()
}

// reject logs a malformed request and tells its sender.
func (ctl *SignalWSController) reject(sid core.SessionID, typ string, err error) {
	metrics.MalformedRequests.WithLabelValues(typ).Inc()
	log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("type", typ).Msg("malformed request")
	ctl.Orch.SendError(sid, domain.ErrCodeBadRequest, err.Error())
}
