package orch

import (
	"time"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// StartStream makes a timed broadcast live in roomID, replacing any running one.
func (o *Orchestrator) StartStream(
	sid core.SessionID,
	roomID domain.RoomID,
	duration time.Duration,
	pricePerMinute float64,
	visibility domain.Visibility,
) error {
	rec, err := o.Lifecycle.Start(roomID, duration, pricePerMinute, visibility)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).
			Msg("start-stream rejected")
		return err
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).
		Uint64("gen", rec.Generation).Msg("stream started")
	return nil
}

// EndStream ends the live broadcast of roomID. Ending an idle or ended room does nothing.
func (o *Orchestrator) EndStream(sid core.SessionID, roomID domain.RoomID) bool {
	ended := o.Lifecycle.End(roomID)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).
		Bool("ended", ended).Msg("end-stream")
	return ended
}

// PublicStreams answers the caller with the current public listing.
func (o *Orchestrator) PublicStreams(sid core.SessionID) {
	o.sendTo(sid, domain.PublicStreamsMessage{Type: domain.MsgTypePublicStreams, Streams: o.Directory.List()})
}
