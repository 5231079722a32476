package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recovery-center/internal/core"
)

// Two joins in order: the late joiner gets the full roster and history, the
// existing member gets the new roster plus a user-joined delta.
func TestJoinRosterAndDelta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	x := f.connect(t, "x")
	y := f.connect(t, "y")

	f.coord.Join(ctx, "x", "g1", "Alice")
	f.coord.Join(ctx, "y", "g1", "Bob")

	require.Equal(t, []string{core.EvtRoomUsers, core.EvtChatHistory, core.EvtRoomUsers, core.EvtUserJoined}, x.eventTypes(t))
	require.Equal(t, []string{core.EvtRoomUsers, core.EvtChatHistory}, y.eventTypes(t))

	var roster core.RoomUsersEvent
	y.decodeFrame(t, 0, &roster)
	require.Len(t, roster.Users, 2)
	assert.Equal(t, core.Participant{ID: "x", Name: "Alice"}, roster.Users[0])
	assert.Equal(t, core.Participant{ID: "y", Name: "Bob"}, roster.Users[1])

	var joined core.PresenceEvent
	x.decodeFrame(t, 3, &joined)
	assert.Equal(t, core.Participant{ID: "y", Name: "Bob"}, joined.User)
}

func TestJoinSameRoomIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	x := f.connect(t, "x")

	f.coord.Join(ctx, "x", "g1", "Alice")
	before := x.frameCount()
	f.coord.Join(ctx, "x", "g1", "Alice")

	assert.Equal(t, before, x.frameCount(), "re-join must not re-broadcast")
	assert.Len(t, f.rooms.Participants("g1"), 1)
}

// Joining a second room implicitly leaves the first: the single-room
// invariant holds and the old room sees a departure.
func TestJoinSwitchesRooms(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.connect(t, "x")
	y := f.connect(t, "y")

	f.coord.Join(ctx, "x", "g1", "Alice")
	f.coord.Join(ctx, "y", "g1", "Bob")
	f.coord.Join(ctx, "x", "g2", "Alice")

	roomID, ok := f.rooms.RoomOf("x")
	require.True(t, ok)
	assert.Equal(t, "g2", string(roomID))
	assert.Len(t, f.rooms.Participants("g1"), 1)
	assert.Len(t, f.rooms.Participants("g2"), 1)

	types := y.eventTypes(t)
	assert.Contains(t, types, core.EvtUserLeft)

	var left core.PresenceEvent
	for i, typ := range types {
		if typ == core.EvtUserLeft {
			y.decodeFrame(t, i, &left)
		}
	}
	assert.Equal(t, core.ConnID("x"), left.User.ID)
}

// Abrupt disconnect: remaining members get user-left followed by the new
// roster, and the registry entry is gone.
func TestDisconnectCleansUp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.connect(t, "x")
	y := f.connect(t, "y")

	f.coord.Join(ctx, "x", "g1", "Alice")
	f.coord.Join(ctx, "y", "g1", "Bob")
	yBefore := y.frameCount()

	f.coord.Disconnect("x")

	types := y.eventTypes(t)[yBefore:]
	require.Equal(t, []string{core.EvtUserLeft, core.EvtRoomUsers}, types)

	var left core.PresenceEvent
	y.decodeFrame(t, yBefore, &left)
	assert.Equal(t, core.Participant{ID: "x", Name: "Alice"}, left.User)

	var roster core.RoomUsersEvent
	y.decodeFrame(t, yBefore+1, &roster)
	require.Len(t, roster.Users, 1)
	assert.Equal(t, core.ConnID("y"), roster.Users[0].ID)

	_, ok := f.registry.Get("x")
	assert.False(t, ok)
	_, ok = f.rooms.RoomOf("x")
	assert.False(t, ok)
}

// A leave followed by the disconnect racing in must both be harmless.
func TestDisconnectAfterLeaveIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.connect(t, "x")
	y := f.connect(t, "y")

	f.coord.Join(ctx, "x", "g1", "Alice")
	f.coord.Join(ctx, "y", "g1", "Bob")

	f.coord.Leave("x", "g1")
	yAfterLeave := y.frameCount()
	f.coord.Disconnect("x")
	f.coord.Disconnect("x")

	assert.Equal(t, yAfterLeave, y.frameCount(), "no spurious broadcasts after cleanup ran once")
}

// Leaving a room the connection never joined: no error, no broadcast.
func TestLeaveNonMemberIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.connect(t, "x")
	y := f.connect(t, "y")

	f.coord.Join(ctx, "y", "g1", "Bob")
	before := y.frameCount()

	f.coord.Leave("x", "g1")
	assert.Equal(t, before, y.frameCount())
}

// Leave with no room named falls back to the directory's reverse lookup.
func TestLeaveWithoutRoomID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.connect(t, "x")

	f.coord.Join(ctx, "x", "g1", "Alice")
	f.coord.Leave("x", "")

	_, ok := f.rooms.RoomOf("x")
	assert.False(t, ok)
}

// A member joining after messages were persisted receives them all in the
// history event and nothing via live broadcast.
func TestJoinHydratesHistoryWithoutDuplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.connect(t, "x")
	f.coord.Join(ctx, "x", "g1", "Alice")

	_, err := f.relay.Send(ctx, "x", "g1", "one")
	require.NoError(t, err)
	_, err = f.relay.Send(ctx, "x", "g1", "two")
	require.NoError(t, err)

	z := f.connect(t, "z")
	f.coord.Join(ctx, "z", "g1", "Zoe")

	require.Equal(t, []string{core.EvtRoomUsers, core.EvtChatHistory}, z.eventTypes(t))

	var history core.ChatHistoryEvent
	z.decodeFrame(t, 1, &history)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "one", history.Messages[0].Text)
	assert.Equal(t, "two", history.Messages[1].Text)
}
