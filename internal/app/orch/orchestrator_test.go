package orch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Livecast/internal/app"
	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/core/coretest"
	"github.com/dkeye/Livecast/internal/domain"
)

func newOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	dir := app.NewPublicDirectory()
	rooms := app.NewRoomManager(dir)
	lc := app.NewLifecycle(rooms, app.WithTickPeriod(5*time.Millisecond), app.WithMaxDuration(time.Hour))
	t.Cleanup(lc.Close)
	return &Orchestrator{
		Registry:  app.NewRegistry(),
		Rooms:     rooms,
		Directory: dir,
		Lifecycle: lc,
		Policy:    app.DropPolicy{},
	}
}

func connect(o *Orchestrator, sid string) *coretest.Conn {
	conn := coretest.NewConn()
	o.Connect(core.SessionID(sid), conn)
	return conn
}

func join(t *testing.T, o *Orchestrator, sid, roomID, name string) {
	t.Helper()
	p, err := domain.NewParticipant("p-"+sid, name)
	require.NoError(t, err)
	_, ok := o.Join(core.SessionID(sid), domain.RoomID(roomID), p)
	require.True(t, ok)
}

func TestConnectSendsWelcome(t *testing.T) {
	o := newOrchestrator(t)
	conn := connect(o, "c1")

	msgs := conn.Messages(domain.MsgTypeWelcome)
	require.Len(t, msgs, 1)
	assert.Equal(t, "c1", msgs[0]["connectionId"])
}

func TestJoinThenLeavePresence(t *testing.T) {
	o := newOrchestrator(t)
	a, b := connect(o, "a"), connect(o, "b")
	join(t, o, "a", "room", "Alice")
	join(t, o, "b", "room", "Bob")
	o.OnDisconnect("a")

	joined := b.Messages(domain.MsgTypeParticipantJoined)
	assert.Empty(t, joined)
	left := b.Messages(domain.MsgTypeParticipantLeft)
	require.Len(t, left, 1)
	assert.Equal(t, "p-a", left[0]["participantId"])

	aJoined := a.Messages(domain.MsgTypeParticipantJoined)
	require.Len(t, aJoined, 1)
	assert.Equal(t, "p-b", aJoined[0]["participantId"])
	assert.Zero(t, a.Count(domain.MsgTypeParticipantLeft))

	counts := b.Messages(domain.MsgTypeViewerCount)
	assert.EqualValues(t, 1, counts[len(counts)-1]["count"])

	o.OnDisconnect("a")
	assert.Len(t, b.Messages(domain.MsgTypeParticipantLeft), 1, "second disconnect is a no-op")
}

func TestRejoinMovesRooms(t *testing.T) {
	o := newOrchestrator(t)
	mover, stay := connect(o, "m"), connect(o, "s")
	join(t, o, "s", "old", "Stay")
	join(t, o, "m", "old", "Mover")
	join(t, o, "m", "new", "Mover")

	assert.Len(t, stay.Messages(domain.MsgTypeParticipantLeft), 1)
	old, _ := o.Rooms.Get("old")
	assert.Equal(t, 1, old.MemberCount())
	nw, _ := o.Rooms.Get("new")
	assert.Equal(t, 1, nw.MemberCount())

	counts := mover.Messages(domain.MsgTypeViewerCount)
	assert.EqualValues(t, 1, counts[len(counts)-1]["count"])
}

func TestExplicitLeave(t *testing.T) {
	o := newOrchestrator(t)
	a := connect(o, "a")
	join(t, o, "a", "room", "Alice")

	require.True(t, o.Leave("a"))
	assert.Equal(t, 1, a.Count(domain.MsgTypeLeft))
	assert.False(t, o.Leave("a"))
	assert.False(t, a.Closed())
	assert.Equal(t, 1, o.Registry.Count())
}

func TestChatIncludesSender(t *testing.T) {
	o := newOrchestrator(t)
	a, b := connect(o, "a"), connect(o, "b")
	join(t, o, "a", "room", "Alice")
	join(t, o, "b", "room", "Bob")

	require.True(t, o.SendChat("a", "hello"))
	for _, c := range []*coretest.Conn{a, b} {
		msgs := c.Messages(domain.MsgTypeChatMessage)
		require.Len(t, msgs, 1)
		assert.Equal(t, "hello", msgs[0]["text"])
		assert.Equal(t, "Alice", msgs[0]["participantName"])
	}
}

func TestChatFromUnboundIsDropped(t *testing.T) {
	o := newOrchestrator(t)
	a, lurker := connect(o, "a"), connect(o, "lurker")
	join(t, o, "a", "room", "Alice")

	assert.False(t, o.SendChat("lurker", "hi"))
	assert.False(t, o.SendChat("never-registered", "hi"))
	assert.Zero(t, a.Count(domain.MsgTypeChatMessage))
	assert.Zero(t, lurker.Count(domain.MsgTypeChatMessage))
}

func TestRelay(t *testing.T) {
	o := newOrchestrator(t)
	a, b, other := connect(o, "a"), connect(o, "b"), connect(o, "x")
	join(t, o, "a", "room", "Alice")
	join(t, o, "b", "room", "Bob")
	join(t, o, "x", "elsewhere", "X")

	payload := json.RawMessage(`{"sdp":"v=0"}`)
	require.True(t, o.Relay("a", "b", domain.SignalOffer, payload))
	require.True(t, o.Relay("a", "b", domain.SignalICECandidate, json.RawMessage(`{"candidate":"c1"}`)))

	msgs := b.Messages(domain.MsgTypeSignal)
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0]["from"])
	assert.Equal(t, "offer", msgs[0]["kind"])
	assert.Equal(t, map[string]any{"sdp": "v=0"}, msgs[0]["payload"])
	assert.Equal(t, "ice-candidate", msgs[1]["kind"])

	assert.False(t, o.Relay("a", "x", domain.SignalOffer, payload), "different room")
	assert.False(t, o.Relay("a", "gone", domain.SignalOffer, payload))
	o.OnDisconnect("b")
	assert.False(t, o.Relay("a", "b", domain.SignalAnswer, payload))

	assert.Zero(t, a.Count(domain.MsgTypeSignal))
	assert.Zero(t, other.Count(domain.MsgTypeSignal))
}

func TestBroadcasterWatcherFlow(t *testing.T) {
	o := newOrchestrator(t)
	host, viewer := connect(o, "host"), connect(o, "viewer")
	join(t, o, "host", "room", "Host")
	join(t, o, "viewer", "room", "Viewer")

	assert.False(t, o.Watcher("viewer"), "no broadcaster yet")
	require.True(t, o.Broadcaster("host"))
	require.True(t, o.Watcher("viewer"))

	w := host.Messages(domain.MsgTypeWatcher)
	require.Len(t, w, 1)
	assert.Equal(t, "viewer", w[0]["connectionId"])

	o.OnDisconnect("viewer")
	d := host.Messages(domain.MsgTypeDisconnectPeer)
	require.Len(t, d, 1)
	assert.Equal(t, "viewer", d[0]["connectionId"])
	assert.Zero(t, viewer.Count(domain.MsgTypeWatcher))
}

func TestBroadcasterDisconnectKeepsStream(t *testing.T) {
	o := newOrchestrator(t)
	connect(o, "host")
	viewer := connect(o, "viewer")
	join(t, o, "host", "room", "Host")
	join(t, o, "viewer", "room", "Viewer")
	require.True(t, o.Broadcaster("host"))
	require.NoError(t, o.StartStream("host", "room", time.Minute, 1, domain.VisibilityPublic))

	o.OnDisconnect("host")
	room, _ := o.Rooms.Get("room")
	_, state := room.Stream()
	assert.Equal(t, domain.StreamLive, state)
	assert.Zero(t, viewer.Count(domain.MsgTypeStreamEnded))
	assert.Len(t, o.Directory.List(), 1)
}

func TestPublicStreamsRestart(t *testing.T) {
	o := newOrchestrator(t)
	caller, other := connect(o, "caller"), connect(o, "other")

	require.NoError(t, o.StartStream("caller", "r1", time.Minute, 2, domain.VisibilityPublic))
	require.NoError(t, o.StartStream("caller", "r2", time.Minute, 0, domain.VisibilityPublic))
	require.NoError(t, o.StartStream("caller", "r1", time.Minute, 2, domain.VisibilityUnlisted))

	o.PublicStreams("caller")
	msgs := caller.Messages(domain.MsgTypePublicStreams)
	require.Len(t, msgs, 1)
	streams := msgs[0]["streams"].([]any)
	require.Len(t, streams, 1)
	assert.Equal(t, "r2", streams[0].(map[string]any)["roomId"])
	assert.Zero(t, other.Count(domain.MsgTypePublicStreams))
}

func TestStartStreamMalformed(t *testing.T) {
	o := newOrchestrator(t)
	err := o.StartStream("c", "r1", -time.Second, 1, domain.VisibilityPublic)
	assert.ErrorIs(t, err, domain.ErrMalformed)
	_, ok := o.Rooms.Get("r1")
	assert.False(t, ok)
}

func TestEndStreamTwice(t *testing.T) {
	o := newOrchestrator(t)
	viewer := connect(o, "viewer")
	join(t, o, "viewer", "room", "Viewer")
	require.NoError(t, o.StartStream("viewer", "room", time.Minute, 0, domain.VisibilityUnlisted))

	assert.True(t, o.EndStream("viewer", "room"))
	assert.False(t, o.EndStream("viewer", "room"))
	assert.Equal(t, 1, viewer.Count(domain.MsgTypeStreamEnded))
}

func TestKickPolicyClosesSlowMember(t *testing.T) {
	o := newOrchestrator(t)
	o.Policy = app.KickPolicy{}
	a, slow := connect(o, "a"), connect(o, "slow")
	join(t, o, "a", "room", "Alice")
	join(t, o, "slow", "room", "Slow")
	slow.SetFull(true)

	o.SendChat("a", "hi")
	assert.True(t, slow.Closed())
	assert.False(t, a.Closed())
}
