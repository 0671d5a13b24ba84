// Package coretest provides an in-memory SignalConnection that records frames.
package coretest

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
)

// Conn records every frame it accepts. Set Full to simulate a slow reader.
type Conn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
}

func NewConn() *Conn { return &Conn{} }

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, append(core.Frame(nil), f...))
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) SetFull(full bool) {
	c.mu.Lock()
	c.full = full
	c.mu.Unlock()
}

func (c *Conn) Reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}

// Types returns the "type" field of every recorded frame in order.
func (c *Conn) Types() []string {
	out := []string{}
	for _, m := range c.Messages("") {
		t, _ := m["type"].(string)
		out = append(out, t)
	}
	return out
}

// Messages decodes recorded frames, keeping only those of typ (all when typ is empty).
func (c *Conn) Messages(typ string) []map[string]any {
	c.mu.Lock()
	frames := append([]core.Frame(nil), c.frames...)
	c.mu.Unlock()

	out := []map[string]any{}
	for _, f := range frames {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err != nil {
			continue
		}
		if typ == "" || m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *Conn) Count(typ string) int { return len(c.Messages(typ)) }

// NewSession builds a member session for a participant backed by conn.
func NewSession(id, name string, conn core.SignalConnection) core.MemberSession {
	p := &domain.Participant{ID: domain.ParticipantID(id), Name: name}
	return core.NewMemberSession(domain.NewMember(p), conn)
}
