package orch

import (
	"encoding/json"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/dkeye/Livecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Relay forwards an opaque negotiation payload from sid to target.
// Both must be bound to the same room; otherwise the message is dropped.
// Order per sender and target follows the sender's read order.
func (o *Orchestrator) Relay(sid, target core.SessionID, kind domain.SignalKind, payload json.RawMessage) bool {
	fromRoom, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("signal from unbound connection dropped")
		return false
	}
	toRoom, targetSession, ok := o.Registry.RoomOf(target)
	if !ok || toRoom != fromRoom {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("target", string(target)).
			Msg("signal target unavailable")
		return false
	}

	msg := domain.SignalMessage{Type: domain.MsgTypeSignal, From: string(sid), Kind: kind, Payload: payload}
	if !o.sendTo(target, msg) {
		if room, ok := o.Rooms.Get(toRoom); ok {
			o.enforce(room, core.PublishResult{Dropped: []core.MemberSession{targetSession}})
		}
		return false
	}
	metrics.SignalsRelayed.WithLabelValues(string(kind)).Inc()
	return true
}
