package signal

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Livecast/internal/domain"
)

func TestDecodeJoinRoom(t *testing.T) {
	req, err := decode[JoinRoomRequest]([]byte(`{"type":"join-room","roomId":" r1 ","participantId":"p","participantName":"Ann"}`))
	require.NoError(t, err)
	roomID, p, err := req.parse()
	require.NoError(t, err)
	assert.Equal(t, domain.RoomID("r1"), roomID)
	assert.Equal(t, "Ann", p.Name)

	for _, raw := range []string{
		`{"roomId":"r1","participantId":"p"}`,
		`{"roomId":"","participantId":"p","participantName":"Ann"}`,
		`{"roomId":"r1","participantName":"Ann"}`,
		`{"roomId":42}`,
		`not json`,
	} {
		_, err := decode[JoinRoomRequest]([]byte(raw))
		assert.ErrorIs(t, err, domain.ErrMalformed, raw)
	}
}

func TestStartStreamDuration(t *testing.T) {
	cases := []struct {
		minutes float64
		want    time.Duration
		err     error
	}{
		{1, time.Minute, nil},
		{0.5, 30 * time.Second, nil},
		{1.0 / 120, 0, domain.ErrInvalidDuration},
		{0, 0, domain.ErrInvalidDuration},
		{-3, 0, domain.ErrInvalidDuration},
		{math.NaN(), 0, domain.ErrInvalidDuration},
		{math.Inf(1), 0, domain.ErrDurationTooLong},
	}
	for _, tc := range cases {
		got, err := StartStreamRequest{DurationMinutes: tc.minutes}.Duration()
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, tc.minutes)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestStartStreamValidate(t *testing.T) {
	ok := StartStreamRequest{RoomID: "r", DurationMinutes: 5, PricePerMinute: 0, Visibility: "public"}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.PricePerMinute = -1
	assert.ErrorIs(t, bad.Validate(), domain.ErrNegativePrice)

	bad = ok
	bad.Visibility = "friends"
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidVisibility)

	bad = ok
	bad.RoomID = " "
	assert.ErrorIs(t, bad.Validate(), domain.ErrRoomIDEmpty)

	unlisted := ok
	unlisted.Visibility = ""
	assert.NoError(t, unlisted.Validate())
}

func TestChatRequest(t *testing.T) {
	assert.ErrorIs(t, ChatRequest{Text: "   "}.Validate(), domain.ErrTextEmpty)

	text, err := ChatRequest{Text: "  héllo "}.Trimmed(5)
	require.NoError(t, err)
	assert.Equal(t, "héllo", text)

	_, err = ChatRequest{Text: "héllo!"}.Trimmed(5)
	assert.ErrorIs(t, err, domain.ErrTextTooLong)
}

func TestSignalRequestValidate(t *testing.T) {
	assert.NoError(t, SignalRequest{Target: "c2", Kind: "ice-candidate"}.Validate())
	assert.NoError(t, SignalRequest{Target: "c2", Kind: "call-invite"}.Validate())
	assert.ErrorIs(t, SignalRequest{Target: "", Kind: "offer"}.Validate(), domain.ErrTargetEmpty)
	assert.ErrorIs(t, SignalRequest{Target: "c2", Kind: "bye"}.Validate(), domain.ErrInvalidSignalKind)
}
