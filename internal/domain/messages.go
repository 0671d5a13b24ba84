package domain

import "encoding/json"

// WebSocket message types from client.
const (
	MsgTypeJoinRoom         = "join-room"
	MsgTypeLeaveRoom        = "leave-room"
	MsgTypeChatMessage      = "chat-message"
	MsgTypeStartStream      = "start-stream"
	MsgTypeEndStream        = "end-stream"
	MsgTypeGetPublicStreams = "get-public-streams"
	MsgTypeSignal           = "signal"
	MsgTypeBroadcaster      = "broadcaster"
	MsgTypeWatcher          = "watcher"
	MsgTypePing             = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeWelcome           = "welcome"
	MsgTypeParticipantJoined = "participant-joined"
	MsgTypeParticipantLeft   = "participant-left"
	MsgTypeViewerCount       = "viewer-count"
	MsgTypePricePerMinute    = "price-per-minute"
	MsgTypeStreamVisibility  = "stream-visibility"
	MsgTypeRemainingTime     = "remaining-time"
	MsgTypeStreamEnded       = "stream-ended"
	MsgTypePublicStreams     = "public-streams"
	MsgTypeDisconnectPeer    = "disconnect-peer"
	MsgTypeLeft              = "left"
	MsgTypePong              = "pong"
	MsgTypeError             = "error"
)

type SignalKind string

const (
	SignalOffer        SignalKind = "offer"
	SignalAnswer       SignalKind = "answer"
	SignalICECandidate SignalKind = "ice-candidate"
	SignalCallInvite   SignalKind = "call-invite"
)

func (k SignalKind) Valid() bool {
	switch k {
	case SignalOffer, SignalAnswer, SignalICECandidate, SignalCallInvite:
		return true
	}
	return false
}

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Server -> Client messages

type WelcomeMessage struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
}

// PresenceMessage is used for participant-joined and participant-left.
type PresenceMessage struct {
	Type            string        `json:"type"`
	ConnectionID    string        `json:"connectionId"`
	ParticipantID   ParticipantID `json:"participantId"`
	ParticipantName string        `json:"participantName"`
}

type ViewerCountMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type ChatMessage struct {
	Type            string `json:"type"`
	Text            string `json:"text"`
	ParticipantName string `json:"participantName"`
}

type PricePerMinuteMessage struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

type StreamVisibilityMessage struct {
	Type       string     `json:"type"`
	Visibility Visibility `json:"visibility"`
}

type RemainingTimeMessage struct {
	Type    string `json:"type"`
	Seconds int64  `json:"seconds"`
}

type StreamEndedMessage struct {
	Type string `json:"type"`
}

type PublicStreamsMessage struct {
	Type    string          `json:"type"`
	Streams []StreamListing `json:"streams"`
}

// SignalMessage carries an opaque negotiation payload to one connection.
type SignalMessage struct {
	Type    string          `json:"type"`
	From    string          `json:"from"`
	Kind    SignalKind      `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PeerMessage is used for watcher and disconnect-peer notices sent to a broadcaster.
type PeerMessage struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeUnknownType = "UNKNOWN_TYPE"
)

// NewErrorMessage creates a new error message.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
