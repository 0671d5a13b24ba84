package domain

import (
	"errors"
	"fmt"
)

// ErrMalformed marks a request that is dropped without touching any state.
var ErrMalformed = errors.New("malformed request")

var (
	ErrRoomIDEmpty        = fmt.Errorf("%w: room id empty", ErrMalformed)
	ErrRoomIDTooLong      = fmt.Errorf("%w: room id too long", ErrMalformed)
	ErrParticipantIDEmpty = fmt.Errorf("%w: participant id empty", ErrMalformed)
	ErrNameEmpty          = fmt.Errorf("%w: participant name empty", ErrMalformed)
	ErrNameTooLong        = fmt.Errorf("%w: participant name too long", ErrMalformed)
	ErrInvalidDuration    = fmt.Errorf("%w: duration must be positive", ErrMalformed)
	ErrDurationTooLong    = fmt.Errorf("%w: duration too long", ErrMalformed)
	ErrNegativePrice      = fmt.Errorf("%w: price per minute must not be negative", ErrMalformed)
	ErrInvalidVisibility  = fmt.Errorf("%w: visibility must be public or unlisted", ErrMalformed)
	ErrTextEmpty          = fmt.Errorf("%w: chat text empty", ErrMalformed)
	ErrTextTooLong        = fmt.Errorf("%w: chat text too long", ErrMalformed)
	ErrInvalidSignalKind  = fmt.Errorf("%w: unknown signal kind", ErrMalformed)
	ErrTargetEmpty        = fmt.Errorf("%w: signal target empty", ErrMalformed)
)
