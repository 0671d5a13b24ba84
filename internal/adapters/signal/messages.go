package signal

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
)

// Client -> Server messages. Each is validated once here; handlers only see
// requests that passed Validate.

type JoinRoomRequest struct {
	RoomID          string `json:"roomId"`
	ParticipantID   string `json:"participantId"`
	ParticipantName string `json:"participantName"`
}

func (r JoinRoomRequest) Validate() error {
	_, _, err := r.parse()
	return err
}

func (r JoinRoomRequest) parse() (domain.RoomID, *domain.Participant, error) {
	roomID, err := domain.ParseRoomID(r.RoomID)
	if err != nil {
		return "", nil, err
	}
	p, err := domain.NewParticipant(r.ParticipantID, r.ParticipantName)
	if err != nil {
		return "", nil, err
	}
	return roomID, p, nil
}

type ChatRequest struct {
	Text string `json:"text"`
}

func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return domain.ErrTextEmpty
	}
	return nil
}

// Trimmed returns the text without surrounding whitespace, or an error when longer than maxRunes.
func (r ChatRequest) Trimmed(maxRunes int) (string, error) {
	text := strings.TrimSpace(r.Text)
	if len([]rune(text)) > maxRunes {
		return "", domain.ErrTextTooLong
	}
	return text, nil
}

type StartStreamRequest struct {
	RoomID          string  `json:"roomId"`
	DurationMinutes float64 `json:"durationMinutes"`
	PricePerMinute  float64 `json:"pricePerMinute"`
	Visibility      string  `json:"visibility"`
}

func (r StartStreamRequest) Validate() error {
	if _, err := domain.ParseRoomID(r.RoomID); err != nil {
		return err
	}
	if _, err := r.Duration(); err != nil {
		return err
	}
	if r.PricePerMinute < 0 {
		return domain.ErrNegativePrice
	}
	_, err := domain.ParseVisibility(r.Visibility)
	return err
}

// Duration converts the requested minutes into whole seconds.
func (r StartStreamRequest) Duration() (time.Duration, error) {
	m := r.DurationMinutes
	if math.IsNaN(m) || m <= 0 {
		return 0, domain.ErrInvalidDuration
	}
	ns := m * float64(time.Minute)
	if ns >= math.MaxInt64 {
		return 0, domain.ErrDurationTooLong
	}
	d := time.Duration(ns).Truncate(time.Second)
	if d <= 0 {
		return 0, domain.ErrInvalidDuration
	}
	return d, nil
}

type EndStreamRequest struct {
	RoomID string `json:"roomId"`
}

func (r EndStreamRequest) Validate() error {
	_, err := domain.ParseRoomID(r.RoomID)
	return err
}

type SignalRequest struct {
	Target  string          `json:"targetConnectionId"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func (r SignalRequest) Validate() error {
	if strings.TrimSpace(r.Target) == "" {
		return domain.ErrTargetEmpty
	}
	if !domain.SignalKind(r.Kind).Valid() {
		return domain.ErrInvalidSignalKind
	}
	return nil
}

func (r SignalRequest) target() core.SessionID { return core.SessionID(strings.TrimSpace(r.Target)) }
