// Package domain contains entity without logic, just meta-data
package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxParticipantIDLen   = 64
	MaxParticipantNameLen = 64
)

type ParticipantID string

// Participant is the client-supplied identity of a connection inside a room.
// Nothing here is authenticated.
type Participant struct {
	ID   ParticipantID `json:"participantId"`
	Name string        `json:"participantName"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewParticipant(id, name string) (*Participant, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return nil, ErrParticipantIDEmpty
	}
	if len(id) > MaxParticipantIDLen {
		return nil, fmt.Errorf("%w: participant id longer than %d", ErrMalformed, MaxParticipantIDLen)
	}
	if name == "" {
		return nil, ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxParticipantNameLen {
		return nil, ErrNameTooLong
	}
	return &Participant{ID: ParticipantID(id), Name: name}, nil
}
