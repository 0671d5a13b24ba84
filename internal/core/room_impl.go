package core

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/Livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrSuperseded is returned when a start carries an older generation than the armed one.
var ErrSuperseded = errors.New("stream start superseded")

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room     *domain.Room
	observer StreamObserver

	mu          sync.Mutex
	bySID       map[SessionID]MemberSession
	broadcaster SessionID
	stream      *domain.BroadcastRecord
	state       domain.StreamState
	lastGen     uint64
	retired     bool
}

func NewRoomService(room *domain.Room, observer StreamObserver) RoomService {
	return &roomImpl{
		room:     room,
		observer: observer,
		bySID:    make(map[SessionID]MemberSession),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bySID)
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MemberDTO, 0, len(r.bySID))
	for sid, ms := range r.bySID {
		p := ms.Meta().Participant
		out = append(out, MemberDTO{ConnectionID: sid, ID: p.ID, Name: p.Name})
	}
	slices.SortFunc(out, func(a, b MemberDTO) int { return strings.Compare(string(a.ConnectionID), string(b.ConnectionID)) })
	return out
}

func (r *roomImpl) Join(sid SessionID, ms MemberSession) (int, PublishResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.retired {
		return 0, PublishResult{}, ErrRoomRetired
	}
	r.bySID[sid] = ms
	count := len(r.bySID)

	p := ms.Meta().Participant
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).
		Str("participant", string(p.ID)).Int("count", count).Msg("member added")

	res := r.fanoutLocked(sid, domain.PresenceMessage{
		Type:            domain.MsgTypeParticipantJoined,
		ConnectionID:    string(sid),
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
	})
	res.Merge(r.fanoutLocked("", domain.ViewerCountMessage{Type: domain.MsgTypeViewerCount, Count: count}))
	return count, res, nil
}

func (r *roomImpl) Leave(sid SessionID) (int, PublishResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms, ok := r.bySID[sid]
	if !ok {
		return len(r.bySID), PublishResult{}, false
	}
	delete(r.bySID, sid)
	count := len(r.bySID)

	p := ms.Meta().Participant
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).
		Int("count", count).Msg("member removed")

	var res PublishResult
	if r.broadcaster == sid {
		r.broadcaster = ""
	} else if b, ok := r.bySID[r.broadcaster]; ok {
		res.Merge(r.sendLocked(b, domain.PeerMessage{Type: domain.MsgTypeDisconnectPeer, ConnectionID: string(sid)}))
	}
	res.Merge(r.fanoutLocked("", domain.PresenceMessage{
		Type:            domain.MsgTypeParticipantLeft,
		ConnectionID:    string(sid),
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
	}))
	res.Merge(r.fanoutLocked("", domain.ViewerCountMessage{Type: domain.MsgTypeViewerCount, Count: count}))
	return count, res, true
}

func (r *roomImpl) Broadcast(msg any) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fanoutLocked("", msg)
}

func (r *roomImpl) SetBroadcaster(sid SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[sid]; !ok {
		return false
	}
	r.broadcaster = sid
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("broadcaster set")
	return true
}

func (r *roomImpl) NotifyBroadcaster(from SessionID, msg any) (PublishResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.broadcaster == "" || r.broadcaster == from {
		return PublishResult{}, false
	}
	b, ok := r.bySID[r.broadcaster]
	if !ok {
		return PublishResult{}, false
	}
	return r.sendLocked(b, msg), true
}

func (r *roomImpl) StartStream(rec *domain.BroadcastRecord) (PublishResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.retired {
		return PublishResult{}, ErrRoomRetired
	}
	if rec.Generation <= r.lastGen {
		return PublishResult{}, ErrSuperseded
	}
	replaced := r.state == domain.StreamLive
	r.lastGen = rec.Generation
	r.stream = rec
	r.state = domain.StreamLive

	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Uint64("gen", rec.Generation).
		Bool("replaced", replaced).Dur("duration", rec.Duration).Str("visibility", string(rec.Visibility)).
		Msg("stream live")

	if r.observer != nil {
		r.observer.StreamLive(*rec)
	}
	res := r.fanoutLocked("", domain.PricePerMinuteMessage{Type: domain.MsgTypePricePerMinute, Price: rec.PricePerMinute})
	res.Merge(r.fanoutLocked("", domain.StreamVisibilityMessage{Type: domain.MsgTypeStreamVisibility, Visibility: rec.Visibility}))
	return res, nil
}

func (r *roomImpl) Tick(gen uint64, now time.Time) (TickStatus, PublishResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != domain.StreamLive || r.stream == nil || r.stream.Generation != gen {
		return TickStale, PublishResult{}
	}
	remaining := r.stream.Remaining(now)
	res := r.fanoutLocked("", domain.RemainingTimeMessage{Type: domain.MsgTypeRemainingTime, Seconds: remaining})
	// remaining is floored, so it reads 0 during the last second; the stream
	// ends only once EndTime has passed.
	if now.Before(r.stream.EndTime) {
		return TickRunning, res
	}
	res.Merge(r.endLocked(EndExpired))
	return TickExpired, res
}

func (r *roomImpl) EndStream() (uint64, PublishResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != domain.StreamLive {
		return 0, PublishResult{}, false
	}
	gen := r.stream.Generation
	return gen, r.endLocked(EndExplicit), true
}

func (r *roomImpl) endLocked(reason EndReason) PublishResult {
	r.state = domain.StreamEnded
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Uint64("gen", r.stream.Generation).
		Str("reason", string(reason)).Msg("stream ended")
	if r.observer != nil {
		r.observer.StreamEnded(r.room.ID, reason)
	}
	return r.fanoutLocked("", domain.StreamEndedMessage{Type: domain.MsgTypeStreamEnded})
}

func (r *roomImpl) Stream() (domain.BroadcastRecord, domain.StreamState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream == nil {
		return domain.BroadcastRecord{}, r.state
	}
	return *r.stream, r.state
}

func (r *roomImpl) TryRetire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bySID) > 0 || r.state == domain.StreamLive {
		return false
	}
	r.retired = true
	return true
}

// fanoutLocked sends msg to every member except skip. Caller holds r.mu.
func (r *roomImpl) fanoutLocked(skip SessionID, msg any) PublishResult {
	res := PublishResult{}
	frame, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Str("room", string(r.room.ID)).Msg("encode event")
		return res
	}
	for sid, m := range r.bySID {
		if sid == skip {
			continue
		}
		if err := m.Signal().TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Int("sent_to", res.SendTo).
		Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) sendLocked(m MemberSession, msg any) PublishResult {
	res := PublishResult{}
	frame, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Str("room", string(r.room.ID)).Msg("encode event")
		return res
	}
	if err := m.Signal().TrySend(frame); err != nil {
		res.Dropped = append(res.Dropped, m)
		return res
	}
	res.SendTo = 1
	return res
}
