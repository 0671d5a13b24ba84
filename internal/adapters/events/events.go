// Package events publishes broadcast lifecycle transitions for other services.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	EventStreamStarted = "stream_started"
	EventStreamEnded   = "stream_ended"
)

// Event is one message on the lifecycle channel.
type Event struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"room_id"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewEvent(eventType, roomID string, payload any, now time.Time) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{Type: eventType, RoomID: roomID, Payload: data, Timestamp: now}, nil
}

type StreamEndedPayload struct {
	RoomID string `json:"room_id"`
	Reason string `json:"reason"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event *Event) error
}
