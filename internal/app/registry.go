package app

import (
	"sync"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/dkeye/Livecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	RoomID  domain.RoomID
	Session core.MemberSession
	Signal  core.SignalConnection
}

// Registry maps connection ids to their transport and, once joined, their room binding.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*sessionEntry)}
}

func (r *Registry) Register(sid core.SessionID, signal core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Signal: signal}
	metrics.Connections.Set(float64(len(r.sessions)))
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("registered connection")
}

// Bind attaches sid to a room under the given identity, overwriting any previous binding.
// It returns the new member session and the room sid was bound to before, if any.
func (r *Registry) Bind(
	sid core.SessionID,
	roomID domain.RoomID,
	p *domain.Participant,
) (sess core.MemberSession, prev domain.RoomID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return nil, "", false
	}
	prev = entry.RoomID
	entry.RoomID = roomID
	entry.Session = core.NewMemberSession(domain.NewMember(p), entry.Signal)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).
		Str("participant", string(p.ID)).Msg("bound session")
	return entry.Session, prev, true
}

// Unbind clears the room binding but keeps the connection registered.
func (r *Registry) Unbind(sid core.SessionID) (domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok || entry.RoomID == "" {
		return "", false
	}
	roomID := entry.RoomID
	entry.RoomID = ""
	entry.Session = nil
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).Msg("removed room association")
	return roomID, true
}

// Unregister forgets sid and reports the room it was bound to.
func (r *Registry) Unregister(sid core.SessionID) (domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return "", false
	}
	delete(r.sessions, sid)
	metrics.Connections.Set(float64(len(r.sessions)))
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unregistered connection")
	return entry.RoomID, entry.RoomID != ""
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomID, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[sid]
	if !ok || entry.RoomID == "" {
		return "", nil, false
	}
	return entry.RoomID, entry.Session, true
}

func (r *Registry) Signal(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every registered transport. Entries are removed by the disconnect path.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	signals := make([]core.SignalConnection, 0, len(r.sessions))
	for _, e := range r.sessions {
		signals = append(signals, e.Signal)
	}
	r.mu.RUnlock()
	for _, s := range signals {
		s.Close()
	}
	log.Info().Str("module", "app.registry").Int("count", len(signals)).Msg("closed all connections")
}
