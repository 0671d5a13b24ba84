package core

import (
	"errors"
	"time"

	"github.com/dkeye/Livecast/internal/domain"
)

// ErrRoomRetired is returned by a room that was swept; callers fetch a fresh one.
var ErrRoomRetired = errors.New("room retired")

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

func (p *PublishResult) Merge(o PublishResult) {
	p.SendTo += o.SendTo
	p.Dropped = append(p.Dropped, o.Dropped...)
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ConnectionID SessionID            `json:"connectionId"`
	ID           domain.ParticipantID `json:"participantId"`
	Name         string               `json:"participantName"`
}

type EndReason string

const (
	EndExplicit EndReason = "ended"
	EndExpired  EndReason = "expired"
)

// StreamObserver is told about lifecycle transitions while the room lock is held.
// Implementations must not call back into the room and must not block.
type StreamObserver interface {
	StreamLive(rec domain.BroadcastRecord)
	StreamEnded(roomID domain.RoomID, reason EndReason)
}

type TickStatus int

const (
	TickRunning TickStatus = iota
	TickExpired
	TickStale
)

// RoomService is the core-facing API of a room.
// It owns the membership set and the broadcast record, serialises every
// mutation behind one lock and never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	// MembersSnapshot lists members ordered by connection id.
	MembersSnapshot() []MemberDTO

	Join(sid SessionID, ms MemberSession) (int, PublishResult, error)
	Leave(sid SessionID) (int, PublishResult, bool)
	Broadcast(msg any) PublishResult

	SetBroadcaster(sid SessionID) bool
	NotifyBroadcaster(from SessionID, msg any) (PublishResult, bool)

	StartStream(rec *domain.BroadcastRecord) (PublishResult, error)
	Tick(gen uint64, now time.Time) (TickStatus, PublishResult)
	EndStream() (uint64, PublishResult, bool)
	Stream() (domain.BroadcastRecord, domain.StreamState)

	// TryRetire marks an empty room without a live stream as retired.
	TryRetire() bool
}

type RoomInfo struct {
	ID          domain.RoomID `json:"roomId"`
	MemberCount int           `json:"memberCount"`
	Live        bool          `json:"live"`
}

type RoomManager interface {
	GetOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	List() []RoomInfo
	Sweep() int
}
