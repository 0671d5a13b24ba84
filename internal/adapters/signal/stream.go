package signal

import (
	"errors"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleStartStream(sid core.SessionID, data []byte) {
	req, err := decode[StartStreamRequest](data)
	if err != nil {
		ctl.reject(sid, domain.MsgTypeStartStream, err)
		return
	}
	roomID, _ := domain.ParseRoomID(req.RoomID)
	duration, _ := req.Duration()
	visibility, _ := domain.ParseVisibility(req.Visibility)
	err = ctl.Orch.StartStream(sid, roomID, duration, req.PricePerMinute, visibility)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrMalformed):
		ctl.reject(sid, domain.MsgTypeStartStream, err)
	default:
		// superseded by a concurrent start, or shutting down
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(roomID)).
			Msg("start-stream not applied")
	}
}

func (ctl *SignalWSController) handleEndStream(sid core.SessionID, data []byte) {
	req, err := decode[EndStreamRequest](data)
	if err != nil {
		ctl.reject(sid, domain.MsgTypeEndStream, err)
		return
	}
	roomID, _ := domain.ParseRoomID(req.RoomID)
	ctl.Orch.EndStream(sid, roomID)
}
