package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"recovery-center/internal/core"
)

type connEntry struct {
	Name string
	Conn core.SignalConnection
}

// ConnInfo is the snapshot Remove hands back so callers can drive cleanup
// after the live entry is gone.
type ConnInfo struct {
	ID   core.ConnID
	Name string
}

// Registry owns the identity of every live connection. It never broadcasts
// and keeps no room state; rooms are the Rooms directory's concern.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

func (r *Registry) Register(id core.ConnID, conn core.SignalConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; ok {
		return ErrDuplicateConnection
	}
	r.conns[id] = &connEntry{Conn: conn}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("registered connection")
	return nil
}

func (r *Registry) SetDisplayName(id core.ConnID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	e.Name = name
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("name", name).Msg("updated display name")
	return nil
}

func (r *Registry) Name(id core.ConnID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return "", false
	}
	return e.Name, true
}

func (r *Registry) Get(id core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}

// Remove never fails; removing an absent id returns ok=false.
func (r *Registry) Remove(id core.ConnID) (ConnInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return ConnInfo{}, false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("removed connection")
	return ConnInfo{ID: id, Name: e.Name}, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
