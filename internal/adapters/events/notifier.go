package events

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
)

const publishTimeout = 2 * time.Second

// Notifier turns lifecycle transitions into events. Transitions arrive under a
// room lock, so they are queued and published by Run; a full queue drops them.
type Notifier struct {
	pub     Publisher
	channel string
	queue   chan *Event
	now     func() time.Time
}

func NewNotifier(pub Publisher, channel string, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Notifier{
		pub:     pub,
		channel: channel,
		queue:   make(chan *Event, queueSize),
		now:     time.Now,
	}
}

func (n *Notifier) StreamLive(rec domain.BroadcastRecord) {
	n.enqueue(EventStreamStarted, rec.RoomID, rec.Listing())
}

func (n *Notifier) StreamEnded(roomID domain.RoomID, reason core.EndReason) {
	n.enqueue(EventStreamEnded, roomID, StreamEndedPayload{RoomID: string(roomID), Reason: string(reason)})
}

func (n *Notifier) enqueue(eventType string, roomID domain.RoomID, payload any) {
	evt, err := NewEvent(eventType, string(roomID), payload, n.now())
	if err != nil {
		log.Error().Err(err).Str("module", "events").Str("room", string(roomID)).Msg("encode event")
		return
	}
	select {
	case n.queue <- evt:
	default:
		log.Warn().Str("module", "events").Str("room", string(roomID)).Str("type", eventType).Msg("event queue full, dropped")
	}
}

// Run publishes queued events until ctx is done.
func (n *Notifier) Run(ctx context.Context) error {
	log.Info().Str("module", "events").Str("channel", n.channel).Msg("notifier started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "events").Msg("notifier stopped")
			return nil
		case evt := <-n.queue:
			pctx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := n.pub.Publish(pctx, n.channel, evt); err != nil {
				log.Warn().Err(err).Str("module", "events").Str("room", evt.RoomID).Str("type", evt.Type).
					Msg("publish failed")
			}
			cancel()
		}
	}
}
