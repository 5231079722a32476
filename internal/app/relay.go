package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"recovery-center/internal/core"
	"recovery-center/internal/domain"
)

// MessageStore is the persistence port of the chat relay. Append assigns
// the id; History returns store order, oldest first.
type MessageStore interface {
	Append(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
	History(ctx context.Context, roomID domain.RoomID) ([]domain.ChatMessage, error)
}

// Relay persists chat messages and fans them out to the room, sender
// included. Persist-before-broadcast: a message the store rejected is never
// seen live, so live and replay views cannot diverge.
type Relay struct {
	store MessageStore
	coord *Coordinator
}

func NewRelay(store MessageStore, coord *Coordinator) *Relay {
	return &Relay{store: store, coord: coord}
}

// Send rejects whitespace-only text and senders that are not members of the
// room. Sends to the same room are serialized by the room lock shared with
// the presence coordinator, which yields per-room FIFO delivery and keeps a
// concurrent join from slipping between persist and broadcast.
func (r *Relay) Send(ctx context.Context, id core.ConnID, roomID domain.RoomID, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	mu := r.coord.lockRoom(roomID)
	mu.Lock()
	defer mu.Unlock()

	if !r.coord.InRoom(id, roomID) {
		return nil, ErrNotInRoom
	}
	nickname, ok := r.coord.registry.Name(id)
	if !ok {
		return nil, ErrUnknownConnection
	}

	now := time.Now()
	msg := &domain.ChatMessage{
		RoomID:    roomID,
		Nickname:  nickname,
		Text:      text,
		Time:      now.Format("15:04:05"),
		CreatedAt: now,
	}
	persisted, err := r.store.Append(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}

	r.coord.broadcast(roomID, core.ChatMessageEvent{Type: core.EvtChatMessage, Message: *persisted})
	log.Debug().Str("module", "app.relay").Str("room", string(roomID)).Str("conn", string(id)).Msg("message relayed")
	return persisted, nil
}

// History returns the room's persisted messages, oldest first.
func (r *Relay) History(ctx context.Context, roomID domain.RoomID) ([]domain.ChatMessage, error) {
	return r.store.History(ctx, roomID)
}
