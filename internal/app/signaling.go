package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"recovery-center/internal/core"
)

// Signaler forwards WebRTC offer/answer/ice-candidate envelopes between two
// connections by id. It is stateless and room-agnostic: voice grouping need
// not match chat-room grouping, so addressing is connection to connection.
//
// Delivery is best effort. A gone target is an expected race with a
// disconnect mid-negotiation and is dropped quietly; the initiating client
// owns retry.
type Signaler struct {
	registry *Registry
}

func NewSignaler(registry *Registry) *Signaler {
	return &Signaler{registry: registry}
}

func (s *Signaler) Relay(kind string, from, to core.ConnID, payload json.RawMessage) {
	conn, ok := s.registry.Get(to)
	if !ok {
		log.Debug().Str("module", "app.signaling").Str("kind", kind).Str("to", string(to)).Msg("target gone, dropping")
		return
	}
	data, err := json.Marshal(core.SignalEvent{Type: kind, From: from, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "app.signaling").Msg("encode signal")
		return
	}
	if err := conn.TrySend(data); err != nil {
		log.Debug().Str("module", "app.signaling").Str("kind", kind).Str("to", string(to)).Err(err).Msg("dropped signal")
	}
}
