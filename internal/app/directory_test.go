package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
)

type recordingObserver struct {
	live  []domain.RoomID
	ended []core.EndReason
}

func (o *recordingObserver) StreamLive(rec domain.BroadcastRecord) { o.live = append(o.live, rec.RoomID) }
func (o *recordingObserver) StreamEnded(_ domain.RoomID, reason core.EndReason) {
	o.ended = append(o.ended, reason)
}

func record(t *testing.T, id domain.RoomID, vis domain.Visibility) domain.BroadcastRecord {
	t.Helper()
	rec, err := domain.NewBroadcastRecord(id, 90*time.Second, 1.25, vis, time.UnixMilli(1_000), 0)
	require.NoError(t, err)
	return *rec
}

func TestPublicDirectoryTracksVisibility(t *testing.T) {
	next := &recordingObserver{}
	dir := NewPublicDirectory(next)

	dir.StreamLive(record(t, "zeta", domain.VisibilityPublic))
	dir.StreamLive(record(t, "alpha", domain.VisibilityPublic))
	dir.StreamLive(record(t, "hidden", domain.VisibilityUnlisted))

	list := dir.List()
	require.Len(t, list, 2)
	assert.Equal(t, domain.StreamListing{
		RoomID:          "alpha",
		PricePerMinute:  1.25,
		DurationSeconds: 90,
		EndTime:         91_000,
		Visibility:      domain.VisibilityPublic,
	}, list[0])
	assert.Equal(t, domain.RoomID("zeta"), list[1].RoomID)

	dir.StreamLive(record(t, "zeta", domain.VisibilityUnlisted))
	dir.StreamEnded("alpha", core.EndExpired)
	assert.Empty(t, dir.List())

	assert.Equal(t, []domain.RoomID{"zeta", "alpha", "hidden", "zeta"}, next.live)
	assert.Equal(t, []core.EndReason{core.EndExpired}, next.ended)
}
