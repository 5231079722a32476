package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"recovery-center/internal/core"
	"recovery-center/internal/domain"
)

// roomState keeps participants in join order. The slice is the order, the
// index map makes membership checks cheap.
type roomState struct {
	order []core.Participant
	index map[core.ConnID]int
}

// Rooms is the room directory: roomID to its ordered participant set, plus
// the reverse connection-to-room index. Rooms are created implicitly on
// first join and retained when they empty out; a stale empty entry is
// harmless and avoids recreate-vs-reuse races.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]*roomState
	byConn map[core.ConnID]domain.RoomID
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:  make(map[domain.RoomID]*roomState),
		byConn: make(map[core.ConnID]domain.RoomID),
	}
}

// Add appends the connection to the room, creating the room if needed.
// A duplicate add is a no-op and reports false.
func (rs *Rooms) Add(roomID domain.RoomID, id core.ConnID, name string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r, ok := rs.rooms[roomID]
	if !ok {
		r = &roomState{index: make(map[core.ConnID]int)}
		rs.rooms[roomID] = r
	}
	if _, dup := r.index[id]; dup {
		return false
	}
	r.index[id] = len(r.order)
	r.order = append(r.order, core.Participant{ID: id, Name: name})
	rs.byConn[id] = roomID
	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("conn", string(id)).Msg("participant added")
	return true
}

// Remove reports false for an absent room or participant; late and duplicate
// leave events are expected and must not error.
func (rs *Rooms) Remove(roomID domain.RoomID, id core.ConnID) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r, ok := rs.rooms[roomID]
	if !ok {
		return false
	}
	pos, ok := r.index[id]
	if !ok {
		return false
	}
	r.order = append(r.order[:pos], r.order[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.order); i++ {
		r.index[r.order[i].ID] = i
	}
	delete(rs.byConn, id)
	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("conn", string(id)).Msg("participant removed")
	return true
}

// Participants returns the join-ordered roster; empty for an unknown room.
func (rs *Rooms) Participants(roomID domain.RoomID) []core.Participant {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	r, ok := rs.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]core.Participant, len(r.order))
	copy(out, r.order)
	return out
}

// RoomOf supports "leave without naming the room" on disconnect.
func (rs *Rooms) RoomOf(id core.ConnID) (domain.RoomID, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	roomID, ok := rs.byConn[id]
	return roomID, ok
}

func (rs *Rooms) Contains(roomID domain.RoomID, id core.ConnID) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	r, ok := rs.rooms[roomID]
	if !ok {
		return false
	}
	_, ok = r.index[id]
	return ok
}
