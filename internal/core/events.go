package core

import (
	"encoding/json"

	"recovery-center/internal/domain"
)

// Client-originated event types.
const (
	EvtJoinRoom     = "join-room"
	EvtLeaveRoom    = "leave-room"
	EvtChatMessage  = "chat-message"
	EvtOffer        = "offer"
	EvtAnswer       = "answer"
	EvtICECandidate = "ice-candidate"
)

// Server-originated event types. EvtChatMessage and the signaling types
// are reused in both directions.
const (
	EvtRoomUsers   = "room-users"
	EvtUserJoined  = "user-joined"
	EvtUserLeft    = "user-left"
	EvtChatHistory = "chat-message-history"
	EvtError       = "error"
)

// ClientEvent is the flat envelope every inbound frame decodes into.
// Fields are populated per event type; unknown types are ignored by the
// dispatcher rather than treated as an error.
type ClientEvent struct {
	Type    string          `json:"type"`
	RoomID  domain.RoomID   `json:"roomId,omitempty"`
	Name    string          `json:"name,omitempty"`
	Text    string          `json:"text,omitempty"`
	To      ConnID          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoomUsersEvent carries the full ordered roster snapshot of a room.
type RoomUsersEvent struct {
	Type  string        `json:"type"`
	Room  domain.RoomID `json:"roomId"`
	Users []Participant `json:"users"`
}

// PresenceEvent is the user-joined / user-left delta.
type PresenceEvent struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"roomId"`
	User Participant   `json:"user"`
}

type ChatMessageEvent struct {
	Type    string             `json:"type"`
	Message domain.ChatMessage `json:"message"`
}

// ChatHistoryEvent is sent once, right after the join roster and before any
// live message for that room reaches the new member.
type ChatHistoryEvent struct {
	Type     string               `json:"type"`
	Room     domain.RoomID        `json:"roomId"`
	Messages []domain.ChatMessage `json:"messages"`
}

// SignalEvent is a relayed offer/answer/ice-candidate. Payload is opaque:
// the server forwards it, it never parses SDP or candidates.
type SignalEvent struct {
	Type    string          `json:"type"`
	From    ConnID          `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewErrorEvent(msg string) ErrorEvent {
	return ErrorEvent{Type: EvtError, Error: msg}
}
