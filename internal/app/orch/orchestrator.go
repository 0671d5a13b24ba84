package orch

import (
	"encoding/json"

	"github.com/dkeye/Livecast/internal/app"
	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the coordinator used by transports. Every inbound event
// goes through one of its methods; it never returns errors for conditions
// that are expected churn (unknown targets, stray messages after leave).
type Orchestrator struct {
	Registry  *app.Registry
	Rooms     core.RoomManager
	Directory *app.PublicDirectory
	Lifecycle *app.Lifecycle
	Policy    app.Policy
}

// Connect registers a fresh transport and greets it with its connection id.
func (o *Orchestrator) Connect(sid core.SessionID, signal core.SignalConnection) {
	o.Registry.Register(sid, signal)
	o.sendTo(sid, domain.WelcomeMessage{Type: domain.MsgTypeWelcome, ConnectionID: string(sid)})
}

// OnDisconnect unregisters sid and runs presence cleanup for the room it was in.
// Broadcasts keep running when their broadcaster goes away.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	roomID, ok := o.Registry.Unregister(sid)
	if !ok {
		return
	}
	o.leaveRoom(roomID, sid)
}

func (o *Orchestrator) leaveRoom(roomID domain.RoomID, sid core.SessionID) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return
	}
	count, res, ok := room.Leave(sid)
	o.enforce(room, res)
	if ok {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).
			Int("count", count).Msg("left room")
	}
}

func (o *Orchestrator) enforce(room core.RoomService, res core.PublishResult) {
	if len(res.Dropped) == 0 {
		return
	}
	p := o.Policy
	if p == nil {
		p = app.DropPolicy{}
	}
	app.Enforce(p, room, res)
}

// sendTo delivers msg to one connection. A full or closed connection loses the message.
func (o *Orchestrator) sendTo(sid core.SessionID, msg any) bool {
	signal, ok := o.Registry.Signal(sid)
	if !ok {
		return false
	}
	frame, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("encode message")
		return false
	}
	if err := signal.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("direct send dropped")
		return false
	}
	return true
}

// SendError reports a rejected request to its sender only.
func (o *Orchestrator) SendError(sid core.SessionID, code, message string) {
	o.sendTo(sid, domain.NewErrorMessage(code, message))
}

func (o *Orchestrator) Pong(sid core.SessionID) {
	o.sendTo(sid, domain.BaseMessage{Type: domain.MsgTypePong})
}
