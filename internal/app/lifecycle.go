package app

import (
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/dkeye/Livecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

var ErrLifecycleClosed = errors.New("lifecycle manager closed")

type countdown struct {
	gen  uint64
	stop chan struct{}
}

// Lifecycle arms one countdown per live room. Each start takes a fresh
// generation; a countdown only acts on the record that carries its generation.
type Lifecycle struct {
	rooms       core.RoomManager
	policy      Policy
	period      time.Duration
	maxDuration time.Duration
	now         func() time.Time

	mu     sync.Mutex
	gen    uint64
	timers map[domain.RoomID]*countdown
	closed bool
	wg     sync.WaitGroup
}

type LifecycleOption func(*Lifecycle)

func WithTickPeriod(d time.Duration) LifecycleOption {
	return func(l *Lifecycle) {
		if d > 0 {
			l.period = d
		}
	}
}

func WithMaxDuration(d time.Duration) LifecycleOption {
	return func(l *Lifecycle) { l.maxDuration = d }
}

func WithClock(now func() time.Time) LifecycleOption {
	return func(l *Lifecycle) { l.now = now }
}

func WithPolicy(p Policy) LifecycleOption {
	return func(l *Lifecycle) { l.policy = p }
}

func NewLifecycle(rooms core.RoomManager, opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{
		rooms:  rooms,
		policy: DropPolicy{},
		period: time.Second,
		now:    time.Now,
		timers: make(map[domain.RoomID]*countdown),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Start validates the request, replaces any running countdown for the room and
// makes the new record live.
func (l *Lifecycle) Start(
	roomID domain.RoomID,
	duration time.Duration,
	pricePerMinute float64,
	visibility domain.Visibility,
) (domain.BroadcastRecord, error) {
	rec, err := domain.NewBroadcastRecord(roomID, duration, pricePerMinute, visibility, l.now(), l.maxDuration)
	if err != nil {
		return domain.BroadcastRecord{}, err
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return domain.BroadcastRecord{}, ErrLifecycleClosed
	}
	l.gen++
	rec.Generation = l.gen
	if prev, ok := l.timers[roomID]; ok {
		close(prev.stop)
	}
	cd := &countdown{gen: rec.Generation, stop: make(chan struct{})}
	l.timers[roomID] = cd
	metrics.LiveBroadcasts.Set(float64(len(l.timers)))
	l.wg.Add(1)
	l.mu.Unlock()

	room := l.rooms.GetOrCreate(roomID)
	for {
		res, err := room.StartStream(rec)
		if errors.Is(err, core.ErrRoomRetired) {
			room = l.rooms.GetOrCreate(roomID)
			continue
		}
		if err != nil {
			l.release(roomID, cd)
			l.wg.Done()
			return domain.BroadcastRecord{}, err
		}
		Enforce(l.policy, room, res)
		break
	}

	log.Info().Str("module", "app.lifecycle").Str("room", string(roomID)).Uint64("gen", rec.Generation).
		Dur("duration", rec.Duration).Float64("price", rec.PricePerMinute).Str("visibility", string(rec.Visibility)).
		Msg("countdown armed")
	go l.run(room, cd)
	return *rec, nil
}

// End finishes the room's live broadcast. It reports false when nothing was live.
func (l *Lifecycle) End(roomID domain.RoomID) bool {
	room, ok := l.rooms.Get(roomID)
	if !ok {
		return false
	}
	gen, res, ok := room.EndStream()
	Enforce(l.policy, room, res)
	if !ok {
		log.Debug().Str("module", "app.lifecycle").Str("room", string(roomID)).Msg("end on idle room ignored")
		return false
	}

	l.mu.Lock()
	if cd, ok := l.timers[roomID]; ok && cd.gen == gen {
		close(cd.stop)
		delete(l.timers, roomID)
		metrics.LiveBroadcasts.Set(float64(len(l.timers)))
	}
	l.mu.Unlock()
	return true
}

// Armed reports how many countdowns are running.
func (l *Lifecycle) Armed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Close stops every countdown and waits for them to exit. Live records stay live.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	l.closed = true
	for id, cd := range l.timers {
		close(cd.stop)
		delete(l.timers, id)
	}
	metrics.LiveBroadcasts.Set(0)
	l.mu.Unlock()
	l.wg.Wait()
}

func (l *Lifecycle) run(room core.RoomService, cd *countdown) {
	defer l.wg.Done()
	defer l.release(room.Room().ID, cd)

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()
	for {
		select {
		case <-cd.stop:
			return
		case <-ticker.C:
			status, res := room.Tick(cd.gen, l.now())
			Enforce(l.policy, room, res)
			switch status {
			case core.TickExpired:
				log.Info().Str("module", "app.lifecycle").Str("room", string(room.Room().ID)).
					Uint64("gen", cd.gen).Msg("countdown expired")
				return
			case core.TickStale:
				log.Debug().Str("module", "app.lifecycle").Str("room", string(room.Room().ID)).
					Uint64("gen", cd.gen).Msg("stale tick discarded")
				return
			}
		}
	}
}

func (l *Lifecycle) release(roomID domain.RoomID, cd *countdown) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timers[roomID] == cd {
		delete(l.timers, roomID)
		metrics.LiveBroadcasts.Set(float64(len(l.timers)))
	}
}
