package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Livecast/internal/config"
	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*Event
	fail   bool
	calls  int
}

func (f *fakePublisher) Publish(_ context.Context, channel string, evt *Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if channel != "livecast:streams" {
		return errors.New("wrong channel")
	}
	if f.fail {
		return errors.New("boom")
	}
	f.events = append(f.events, evt)
	return nil
}

func (f *fakePublisher) snapshot() []*Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Event(nil), f.events...)
}

func TestNotifierPublishesTransitions(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, "livecast:streams", 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()

	rec, err := domain.NewBroadcastRecord("r1", time.Minute, 3, domain.VisibilityPublic, time.UnixMilli(0), 0)
	require.NoError(t, err)
	n.StreamLive(*rec)
	n.StreamEnded("r1", core.EndExpired)

	require.Eventually(t, func() bool { return len(pub.snapshot()) == 2 }, time.Second, time.Millisecond)
	events := pub.snapshot()
	assert.Equal(t, EventStreamStarted, events[0].Type)
	assert.Equal(t, "r1", events[0].RoomID)
	var listing domain.StreamListing
	require.NoError(t, json.Unmarshal(events[0].Payload, &listing))
	assert.EqualValues(t, 60, listing.DurationSeconds)

	assert.Equal(t, EventStreamEnded, events[1].Type)
	var ended StreamEndedPayload
	require.NoError(t, json.Unmarshal(events[1].Payload, &ended))
	assert.Equal(t, "expired", ended.Reason)

	cancel()
	assert.NoError(t, <-done)
}

func TestNotifierDropsWhenFull(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, "livecast:streams", 1)

	n.StreamEnded("a", core.EndExplicit)
	n.StreamEnded("b", core.EndExplicit)
	assert.Len(t, n.queue, 1)
}

func TestNotifierSurvivesPublishErrors(t *testing.T) {
	pub := &fakePublisher{fail: true}
	n := NewNotifier(pub, "livecast:streams", 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = n.Run(ctx) }()

	n.StreamEnded("a", core.EndExplicit)
	require.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return pub.calls == 1
	}, time.Second, time.Millisecond)

	pub.mu.Lock()
	pub.fail = false
	pub.mu.Unlock()
	n.StreamEnded("b", core.EndExplicit)
	require.Eventually(t, func() bool { return len(pub.snapshot()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "b", pub.snapshot()[0].RoomID)
}

func TestRedisPublisherUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedisPublisher(ctx, config.RedisConfig{Address: "127.0.0.1:1"})
	assert.Error(t, err)
}
