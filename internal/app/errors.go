package app

import "errors"

var (
	// ErrDuplicateConnection means a live connection id was registered twice.
	// That is a transport-layer bug, not a user condition.
	ErrDuplicateConnection = errors.New("duplicate connection")

	// ErrUnknownConnection is almost always a lost race with a disconnect;
	// callers recover by treating the operation as a no-op.
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrEmptyMessage rejects whitespace-only chat text. Surfaced to the
	// sender only, never broadcast.
	ErrEmptyMessage = errors.New("empty message")

	// ErrNotInRoom rejects a chat send to a room the sender never joined.
	ErrNotInRoom = errors.New("not in room")
)
