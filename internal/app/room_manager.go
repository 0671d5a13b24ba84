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

type RoomManagerImpl struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]core.RoomService
	observer core.StreamObserver
}

func NewRoomManager(observer core.StreamObserver) core.RoomManager {
	return &RoomManagerImpl{
		rooms:    make(map[domain.RoomID]core.RoomService),
		observer: observer,
	}
}

func (f *RoomManagerImpl) GetOrCreate(id domain.RoomID) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[id]; ok {
		return room
	}
	room = core.NewRoomService(&domain.Room{ID: id}, f.observer)
	f.rooms[id] = room
	metrics.Rooms.Set(float64(len(f.rooms)))
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	return room
}

func (f *RoomManagerImpl) Get(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	rooms := make([]core.RoomService, 0, len(f.rooms))
	for _, r := range f.rooms {
		rooms = append(rooms, r)
	}
	f.mu.RUnlock()

	out := make([]core.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		_, state := r.Stream()
		out = append(out, core.RoomInfo{
			ID:          r.Room().ID,
			MemberCount: r.MemberCount(),
			Live:        state == domain.StreamLive,
		})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int { return strings.Compare(string(a.ID), string(b.ID)) })
	return out
}

// Sweep drops rooms with no members and no live broadcast. A retired room
// refuses joins, so a racing caller goes back to GetOrCreate for a fresh one.
func (f *RoomManagerImpl) Sweep() int {
	f.mu.RLock()
	candidates := make([]core.RoomService, 0, len(f.rooms))
	for _, r := range f.rooms {
		candidates = append(candidates, r)
	}
	f.mu.RUnlock()

	removed := 0
	for _, r := range candidates {
		if !r.TryRetire() {
			continue
		}
		id := r.Room().ID
		f.mu.Lock()
		if f.rooms[id] == r {
			delete(f.rooms, id)
			removed++
		}
		f.mu.Unlock()
	}
	f.mu.RLock()
	metrics.Rooms.Set(float64(len(f.rooms)))
	f.mu.RUnlock()
	if removed > 0 {
		log.Info().Str("module", "app.rooms").Int("removed", removed).Msg("swept empty rooms")
	}
	return removed
}
