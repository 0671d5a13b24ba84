package domain

import "strings"

const MaxRoomIDLen = 128

type RoomID string

type Room struct {
	ID RoomID
}

// ParseRoomID trims and validates a caller supplied room identifier.
func ParseRoomID(raw string) (RoomID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrRoomIDEmpty
	}
	if len(id) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	return RoomID(id), nil
}
