package app

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"recovery-center/internal/core"
	"recovery-center/internal/domain"
)

// Coordinator drives the per-connection presence lifecycle:
// Disconnected -> Connected (no room) -> InRoom. It is the only writer of
// the Rooms directory and enforces single-room-at-a-time by leaving the
// previous room before a new join takes effect.
//
// Every join, leave and chat send on the same room runs under that room's
// mutex, so all members observe one total order of roster and message
// events. Cross-room operations do not serialize against each other.
type Coordinator struct {
	registry *Registry
	rooms    *Rooms
	store    MessageStore // nil disables history hydration

	lmu     sync.Mutex
	roomMus map[domain.RoomID]*sync.Mutex
}

func NewCoordinator(registry *Registry, rooms *Rooms, store MessageStore) *Coordinator {
	return &Coordinator{
		registry: registry,
		rooms:    rooms,
		store:    store,
		roomMus:  make(map[domain.RoomID]*sync.Mutex),
	}
}

// lockRoom returns the mutex serializing all state-and-broadcast sequences
// for one room. Entries are never reaped; an idle mutex per seen room id is
// cheaper than the reuse races reaping would invite.
func (c *Coordinator) lockRoom(roomID domain.RoomID) *sync.Mutex {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	mu, ok := c.roomMus[roomID]
	if !ok {
		mu = &sync.Mutex{}
		c.roomMus[roomID] = mu
	}
	return mu
}

// Join moves the connection into roomID, implicitly leaving any previous
// room first. Joining the room it is already in is a no-op. The new member
// gets the roster snapshot followed by the message history; existing
// members get the roster and a user-joined delta.
func (c *Coordinator) Join(ctx context.Context, id core.ConnID, roomID domain.RoomID, name string) {
	if prev, ok := c.rooms.RoomOf(id); ok {
		if prev == roomID {
			return
		}
		c.Leave(id, prev)
	}

	mu := c.lockRoom(roomID)
	mu.Lock()
	defer mu.Unlock()

	if name != "" {
		if err := c.registry.SetDisplayName(id, name); err != nil {
			// Lost the race with a disconnect; nothing to join.
			log.Warn().Str("module", "app.presence").Str("conn", string(id)).Msg("join for gone connection")
			return
		}
	} else {
		n, ok := c.registry.Name(id)
		if !ok {
			log.Warn().Str("module", "app.presence").Str("conn", string(id)).Msg("join for gone connection")
			return
		}
		name = n
	}

	if !c.rooms.Add(roomID, id, name) {
		return
	}
	log.Info().Str("module", "app.presence").Str("conn", string(id)).Str("room", string(roomID)).Str("name", name).Msg("joined room")

	roster := c.rooms.Participants(roomID)
	c.fanOut(roster, core.RoomUsersEvent{Type: core.EvtRoomUsers, Room: roomID, Users: roster})

	joined := core.PresenceEvent{Type: core.EvtUserJoined, Room: roomID, User: core.Participant{ID: id, Name: name}}
	for _, p := range roster {
		if p.ID != id {
			c.sendTo(p.ID, joined)
		}
	}

	c.sendHistory(ctx, id, roomID)
}

// sendHistory runs inside the room lock: the snapshot it reads contains
// exactly the messages persisted before this join, and no live message can
// be relayed for the room until the lock is released. No gap, no duplicate.
func (c *Coordinator) sendHistory(ctx context.Context, id core.ConnID, roomID domain.RoomID) {
	if c.store == nil {
		return
	}
	msgs, err := c.store.History(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Str("room", string(roomID)).Msg("history load failed")
		return
	}
	c.sendTo(id, core.ChatHistoryEvent{Type: core.EvtChatHistory, Room: roomID, Messages: msgs})
}

// Leave removes the connection from roomID. An empty roomID falls back to
// the directory's reverse lookup. Leaving a room the connection is not in
// is a no-op: no error, no spurious user-left broadcast.
func (c *Coordinator) Leave(id core.ConnID, roomID domain.RoomID) {
	if roomID == "" {
		r, ok := c.rooms.RoomOf(id)
		if !ok {
			return
		}
		roomID = r
	}

	mu := c.lockRoom(roomID)
	mu.Lock()
	defer mu.Unlock()

	name, _ := c.registry.Name(id)
	c.departLocked(id, roomID, name)
}

// Disconnect handles transport close, abrupt or explicit. It is idempotent:
// cleanup racing a prior explicit leave degrades to no-ops.
func (c *Coordinator) Disconnect(id core.ConnID) {
	roomID, inRoom := c.rooms.RoomOf(id)

	info, ok := c.registry.Remove(id)
	if !ok && !inRoom {
		return
	}

	if inRoom {
		mu := c.lockRoom(roomID)
		mu.Lock()
		defer mu.Unlock()
		c.departLocked(id, roomID, info.Name)
	}
	log.Info().Str("module", "app.presence").Str("conn", string(id)).Msg("disconnected")
}

func (c *Coordinator) departLocked(id core.ConnID, roomID domain.RoomID, name string) {
	if !c.rooms.Remove(roomID, id) {
		return
	}
	log.Info().Str("module", "app.presence").Str("conn", string(id)).Str("room", string(roomID)).Msg("left room")

	remaining := c.rooms.Participants(roomID)
	left := core.PresenceEvent{Type: core.EvtUserLeft, Room: roomID, User: core.Participant{ID: id, Name: name}}
	c.fanOut(remaining, left)
	c.fanOut(remaining, core.RoomUsersEvent{Type: core.EvtRoomUsers, Room: roomID, Users: remaining})
}

// broadcast delivers v to every current participant of the room. Callers
// that need ordering against joins/sends must hold the room lock.
func (c *Coordinator) broadcast(roomID domain.RoomID, v any) {
	c.fanOut(c.rooms.Participants(roomID), v)
}

func (c *Coordinator) fanOut(to []core.Participant, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("encode broadcast")
		return
	}
	for _, p := range to {
		conn, ok := c.registry.Get(p.ID)
		if !ok {
			continue
		}
		if err := conn.TrySend(data); err != nil {
			// Slow consumer; drop the frame rather than block the room.
			log.Debug().Str("module", "app.presence").Str("conn", string(p.ID)).Err(err).Msg("dropped frame")
		}
	}
}

func (c *Coordinator) sendTo(id core.ConnID, v any) {
	conn, ok := c.registry.Get(id)
	if !ok {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("encode event")
		return
	}
	if err := conn.TrySend(data); err != nil {
		log.Debug().Str("module", "app.presence").Str("conn", string(id)).Err(err).Msg("dropped frame")
	}
}

// InRoom reports whether the connection is currently a member of roomID.
func (c *Coordinator) InRoom(id core.ConnID, roomID domain.RoomID) bool {
	return c.rooms.Contains(roomID, id)
}
