// Package ws is the websocket transport for presence, chat and signaling.
// It decodes client frames, hands them to the room core and tears the
// connection state down on close.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"recovery-center/internal/app"
	"recovery-center/internal/core"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	Registry *app.Registry
	Presence *app.Coordinator
	Relay    *app.Relay
	Signaler *app.Signaler
	Limiter  *app.ChatRateLimiter

	ReadLimit  int64
	PingPeriod time.Duration
}

// Handle upgrades the request and runs the connection until it drops. Each
// upgrade gets a fresh connection id; identity does not survive reconnects.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	wsc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}

	id := core.ConnID(uuid.NewString())
	conn := newWSConn(wsc)
	if err := ctl.Registry.Register(id, conn); err != nil {
		// uuid collision on a live id; nothing sane to do with this socket.
		log.Error().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("register failed")
		conn.Close()
		return
	}
	log.Info().Str("module", "ws").Str("conn", string(id)).Msg("connection opened")

	if ctl.ReadLimit > 0 {
		wsc.SetReadLimit(ctl.ReadLimit)
	}

	ctx, cancel := context.WithCancel(ctx)
	go conn.writePump(ctx, ctl.PingPeriod)
	go ctl.readPump(ctx, cancel, id, conn)
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id core.ConnID, conn *wsConn) {
	defer func() {
		cancel()
		ctl.Presence.Disconnect(id)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(id)
		}
		conn.Close()
		log.Info().Str("module", "ws").Str("conn", string(id)).Msg("connection closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := conn.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("read error")
				}
				return
			}
			ctl.dispatch(ctx, id, conn, data)
		}
	}
}

func (ctl *Controller) dispatch(ctx context.Context, id core.ConnID, conn *wsConn, data []byte) {
	var evt core.ClientEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("bad frame")
		ctl.sendError(conn, "bad_payload")
		return
	}

	switch evt.Type {
	case core.EvtJoinRoom:
		if evt.RoomID == "" {
			ctl.sendError(conn, "missing roomId")
			return
		}
		name := evt.Name
		if name == "" {
			name = "guest"
		}
		ctl.Presence.Join(ctx, id, evt.RoomID, name)

	case core.EvtLeaveRoom:
		ctl.Presence.Leave(id, evt.RoomID)

	case core.EvtChatMessage:
		if ctl.Limiter != nil && !ctl.Limiter.Allow(id) {
			ctl.sendError(conn, "too many messages")
			return
		}
		if _, err := ctl.Relay.Send(ctx, id, evt.RoomID, evt.Text); err != nil {
			switch {
			case errors.Is(err, app.ErrEmptyMessage):
				ctl.sendError(conn, "empty message")
			case errors.Is(err, app.ErrNotInRoom):
				ctl.sendError(conn, "not in room")
			default:
				log.Error().Err(err).Str("module", "ws").Str("room", string(evt.RoomID)).Msg("send failed")
				ctl.sendError(conn, "message not delivered")
			}
		}

	case core.EvtOffer, core.EvtAnswer, core.EvtICECandidate:
		if evt.To == "" {
			ctl.sendError(conn, "missing target")
			return
		}
		ctl.Signaler.Relay(evt.Type, id, evt.To, evt.Payload)

	default:
		log.Warn().Str("module", "ws").Str("type", evt.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendError(conn *wsConn, msg string) {
	data, err := json.Marshal(core.NewErrorEvent(msg))
	if err != nil {
		return
	}
	_ = conn.TrySend(data)
}
