package orch

import (
	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/dkeye/Livecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

// SendChat fans text out to every member of the sender's room, sender included.
// A sender outside any room is ignored.
func (o *Orchestrator) SendChat(sid core.SessionID, text string) bool {
	roomID, session, ok := o.Registry.RoomOf(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("chat from unbound connection dropped")
		return false
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return false
	}
	res := room.Broadcast(domain.ChatMessage{
		Type:            domain.MsgTypeChatMessage,
		Text:            text,
		ParticipantName: session.Meta().Participant.Name,
	})
	o.enforce(room, res)
	metrics.ChatMessages.Inc()
	return true
}
