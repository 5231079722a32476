package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"recovery-center/internal/core"
	"recovery-center/internal/domain"
)

// fakeConn records every frame it is handed so tests can assert on the
// exact event sequence a client would observe.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make(core.Frame, len(f))
	copy(cp, f)
	c.frames = append(c.frames, cp)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// eventTypes returns the "type" discriminator of every recorded frame, in
// receive order.
func (c *fakeConn) eventTypes(t *testing.T) []string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(f, &env))
		out = append(out, env.Type)
	}
	return out
}

// decodeFrame unmarshals the i-th recorded frame into dst.
func (c *fakeConn) decodeFrame(t *testing.T, i int, dst any) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.Less(t, i, len(c.frames), "frame index out of range")
	require.NoError(t, json.Unmarshal(c.frames[i], dst))
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// memStore is an in-memory MessageStore assigning sequential ids in append
// order.
type memStore struct {
	mu         sync.Mutex
	byRoom     map[domain.RoomID][]domain.ChatMessage
	seq        int
	appendErr  error
	appendHook func()
}

func newMemStore() *memStore {
	return &memStore{byRoom: make(map[domain.RoomID][]domain.ChatMessage)}
}

func (s *memStore) Append(_ context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return nil, s.appendErr
	}
	if s.appendHook != nil {
		s.appendHook()
	}
	s.seq++
	out := *msg
	out.ID = fmt.Sprintf("m%d", s.seq)
	s.byRoom[msg.RoomID] = append(s.byRoom[msg.RoomID], out)
	return &out, nil
}

func (s *memStore) History(_ context.Context, roomID domain.RoomID) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.byRoom[roomID]))
	copy(out, s.byRoom[roomID])
	return out, nil
}

// fixture wires a registry, directory, coordinator and relay over an
// in-memory store.
type fixture struct {
	registry *Registry
	rooms    *Rooms
	coord    *Coordinator
	relay    *Relay
	store    *memStore
}

func newFixture() *fixture {
	registry := NewRegistry()
	rooms := NewRooms()
	store := newMemStore()
	coord := NewCoordinator(registry, rooms, store)
	return &fixture{
		registry: registry,
		rooms:    rooms,
		coord:    coord,
		relay:    NewRelay(store, coord),
		store:    store,
	}
}

// connect registers a connection and returns its recording fake.
func (f *fixture) connect(t *testing.T, id core.ConnID) *fakeConn {
	t.Helper()
	conn := &fakeConn{}
	require.NoError(t, f.registry.Register(id, conn))
	return conn
}
