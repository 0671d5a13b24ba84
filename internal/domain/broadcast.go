package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

// ParseVisibility accepts "public" and "unlisted"; empty means unlisted.
func ParseVisibility(raw string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(raw))) {
	case VisibilityPublic:
		return VisibilityPublic, nil
	case VisibilityUnlisted, "":
		return VisibilityUnlisted, nil
	default:
		return "", ErrInvalidVisibility
	}
}

type StreamState int

const (
	StreamIdle StreamState = iota
	StreamLive
	StreamEnded
)

func (s StreamState) String() string {
	switch s {
	case StreamLive:
		return "live"
	case StreamEnded:
		return "ended"
	default:
		return "idle"
	}
}

// BroadcastRecord is attached to a room while a timed stream is running.
// Generation orders restarts: a record with a lower generation is stale.
type BroadcastRecord struct {
	RoomID         RoomID
	Duration       time.Duration
	StartedAt      time.Time
	EndTime        time.Time
	PricePerMinute float64
	Visibility     Visibility
	Generation     uint64
}

// NewBroadcastRecord validates a start-stream request. maxDuration <= 0 disables the upper bound.
func NewBroadcastRecord(
	roomID RoomID,
	duration time.Duration,
	pricePerMinute float64,
	visibility Visibility,
	now time.Time,
	maxDuration time.Duration,
) (*BroadcastRecord, error) {
	if roomID == "" {
		return nil, ErrRoomIDEmpty
	}
	duration = duration.Truncate(time.Second)
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if maxDuration > 0 && duration > maxDuration {
		return nil, ErrDurationTooLong
	}
	if math.IsNaN(pricePerMinute) || math.IsInf(pricePerMinute, 0) {
		return nil, fmt.Errorf("%w: price per minute not a number", ErrMalformed)
	}
	if pricePerMinute < 0 {
		return nil, ErrNegativePrice
	}
	if visibility != VisibilityPublic && visibility != VisibilityUnlisted {
		return nil, ErrInvalidVisibility
	}
	return &BroadcastRecord{
		RoomID:         roomID,
		Duration:       duration,
		StartedAt:      now,
		EndTime:        now.Add(duration),
		PricePerMinute: pricePerMinute,
		Visibility:     visibility,
	}, nil
}

// Remaining returns max(0, floor((EndTime - now) / 1s)).
func (b *BroadcastRecord) Remaining(now time.Time) int64 {
	left := b.EndTime.Sub(now)
	if left <= 0 {
		return 0
	}
	return int64(left / time.Second)
}

func (b *BroadcastRecord) IsPublic() bool { return b.Visibility == VisibilityPublic }

// Listing is the copy published into the public directory.
func (b *BroadcastRecord) Listing() StreamListing {
	return StreamListing{
		RoomID:          b.RoomID,
		PricePerMinute:  b.PricePerMinute,
		DurationSeconds: int64(b.Duration / time.Second),
		EndTime:         b.EndTime.UnixMilli(),
		Visibility:      b.Visibility,
	}
}

// StreamListing is one entry of the public stream directory. EndTime is epoch milliseconds.
type StreamListing struct {
	RoomID          RoomID     `json:"roomId"`
	PricePerMinute  float64    `json:"pricePerMinute"`
	DurationSeconds int64      `json:"durationSeconds"`
	EndTime         int64      `json:"endTime"`
	Visibility      Visibility `json:"visibility"`
}
