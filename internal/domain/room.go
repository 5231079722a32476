package domain

// RoomID names an ephemeral chat/voice room. Callers supply it; whether it
// matches a persisted group is their concern, not the room core's.
type RoomID string
