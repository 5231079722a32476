package core

// Frame is an encoded wire payload.
type Frame []byte

// ConnID identifies one live transport session for its whole lifetime.
// A reconnecting client gets a fresh id.
type ConnID string

// SignalConnection abstracts the messaging transport of one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Participant is a read-only roster entry (no transport fields).
type Participant struct {
	ID   ConnID `json:"id"`
	Name string `json:"name"`
}
