package app

import (
	"fmt"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

type Policy interface {
	OnBackPressure(room core.RoomService, member core.MemberSession) BackpressureAction
}

// DropPolicy loses the frame and keeps the member.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(core.RoomService, core.MemberSession) BackpressureAction {
	return DropFrame
}

// KickPolicy closes the transport of a member that cannot keep up.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(core.RoomService, core.MemberSession) BackpressureAction {
	return KickMember
}

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}

// Enforce applies p to every member the publish could not reach.
func Enforce(p Policy, room core.RoomService, res core.PublishResult) {
	for _, m := range res.Dropped {
		metrics.DroppedFrames.Inc()
		switch p.OnBackPressure(room, m) {
		case KickMember:
			log.Warn().Str("module", "app.policy").Str("room", string(room.Room().ID)).
				Str("participant", string(m.Meta().Participant.ID)).Msg("kick slow member")
			m.Signal().Close()
		default:
			log.Debug().Str("module", "app.policy").Str("room", string(room.Room().ID)).
				Str("participant", string(m.Meta().Participant.ID)).Msg("frame dropped")
		}
	}
}
