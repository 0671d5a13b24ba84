package signal

import (
	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(sid core.SessionID, data []byte) {
	req, err := decode[JoinRoomRequest](data)
	if err != nil {
		ctl.reject(sid, domain.MsgTypeJoinRoom, err)
		return
	}
	roomID, p, _ := req.parse()
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(roomID)).Msg("join")
	ctl.Orch.Join(sid, roomID, p)
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(sid core.SessionID) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	ctl.Orch.Leave(sid)
}

func (ctl *SignalWSController) handleBroadcaster(sid core.SessionID) {
	if !ctl.Orch.Broadcaster(sid) {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("broadcaster outside a room ignored")
	}
}

func (ctl *SignalWSController) handleWatcher(sid core.SessionID) {
	if !ctl.Orch.Watcher(sid) {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("watcher without broadcaster ignored")
	}
}
