package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/dkeye/Livecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

// PublicDirectory lists rooms whose live broadcast is public.
// It is fed only by room lifecycle transitions and forwards them to the
// observers it was built with.
type PublicDirectory struct {
	mu      sync.RWMutex
	entries map[domain.RoomID]domain.StreamListing
	next    []core.StreamObserver
}

func NewPublicDirectory(next ...core.StreamObserver) *PublicDirectory {
	return &PublicDirectory{
		entries: make(map[domain.RoomID]domain.StreamListing),
		next:    next,
	}
}

func (d *PublicDirectory) StreamLive(rec domain.BroadcastRecord) {
	d.mu.Lock()
	if rec.IsPublic() {
		d.entries[rec.RoomID] = rec.Listing()
	} else {
		delete(d.entries, rec.RoomID)
	}
	metrics.PublicStreams.Set(float64(len(d.entries)))
	d.mu.Unlock()

	log.Debug().Str("module", "app.directory").Str("room", string(rec.RoomID)).
		Bool("public", rec.IsPublic()).Msg("stream listed")
	for _, o := range d.next {
		o.StreamLive(rec)
	}
}

func (d *PublicDirectory) StreamEnded(roomID domain.RoomID, reason core.EndReason) {
	d.mu.Lock()
	delete(d.entries, roomID)
	metrics.PublicStreams.Set(float64(len(d.entries)))
	d.mu.Unlock()

	metrics.StreamsEnded.WithLabelValues(string(reason)).Inc()
	for _, o := range d.next {
		o.StreamEnded(roomID, reason)
	}
}

// List returns a copy of the current entries ordered by room id.
func (d *PublicDirectory) List() []domain.StreamListing {
	d.mu.RLock()
	out := make([]domain.StreamListing, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e)
	}
	d.mu.RUnlock()
	slices.SortFunc(out, func(a, b domain.StreamListing) int { return strings.Compare(string(a.RoomID), string(b.RoomID)) })
	return out
}
