package domain

import "time"

// ChatMessage is a persisted, room-scoped text message. Immutable after
// persist; replay order is the store's insertion order, client clocks are
// never trusted for ordering.
type ChatMessage struct {
	ID       string `json:"id,omitempty" bson:"-"`
	RoomID   RoomID `json:"roomId" bson:"roomId"`
	Nickname string `json:"nickname" bson:"nickname"`
	Text     string `json:"text" bson:"text"`
	// Time is the human-readable wall clock ("HH:MM:SS") shown in chat UIs.
	Time      string    `json:"time" bson:"time"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
