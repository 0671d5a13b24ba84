package orch

import (
	"errors"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join binds sid to roomID under the participant identity and announces it.
// A connection already in a room leaves that room first.
func (o *Orchestrator) Join(sid core.SessionID, roomID domain.RoomID, p *domain.Participant) (int, bool) {
	session, prev, ok := o.Registry.Bind(sid, roomID, p)
	if !ok {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("join from unregistered connection")
		return 0, false
	}
	if prev != "" {
		o.leaveRoom(prev, sid)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(prev)).Msg("moved out of room")
	}

	room := o.Rooms.GetOrCreate(roomID)
	for {
		count, res, err := room.Join(sid, session)
		if errors.Is(err, core.ErrRoomRetired) {
			room = o.Rooms.GetOrCreate(roomID)
			continue
		}
		o.enforce(room, res)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).
			Int("count", count).Msg("added to room")
		return count, true
	}
}

// Leave takes sid out of its room without closing the transport.
func (o *Orchestrator) Leave(sid core.SessionID) bool {
	roomID, ok := o.Registry.Unbind(sid)
	if !ok {
		return false
	}
	o.leaveRoom(roomID, sid)
	o.sendTo(sid, domain.BaseMessage{Type: domain.MsgTypeLeft})
	return true
}

// Broadcaster marks sid as the broadcaster of its current room.
func (o *Orchestrator) Broadcaster(sid core.SessionID) bool {
	roomID, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return false
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return false
	}
	return room.SetBroadcaster(sid)
}

// Watcher tells the room's broadcaster that sid wants the stream.
func (o *Orchestrator) Watcher(sid core.SessionID) bool {
	roomID, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return false
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return false
	}
	res, ok := room.NotifyBroadcaster(sid, domain.PeerMessage{Type: domain.MsgTypeWatcher, ConnectionID: string(sid)})
	o.enforce(room, res)
	return ok
}
