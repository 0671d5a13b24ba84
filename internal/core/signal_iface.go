package core

import "errors"

// Frame is a raw encoded payload for one connection.
type Frame []byte

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend must never block.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
