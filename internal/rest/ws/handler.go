package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/playkit/gameroom/internal/idgen"
	"github.com/playkit/gameroom/internal/registry"
	"github.com/playkit/gameroom/internal/room"
)

var ErrInvalidMessage = errors.New("invalid message")

// Inbound events.
const (
	EventRoomCreate = "roomCreate"
	EventRoomCheck  = "roomCheck"
	EventRoomJoin   = "roomJoin"
	EventRoomKick   = "roomKick"
	EventRoomStart  = "roomStart"
	EventRoomLeave  = "roomLeave"
)

// Outbound events.
const (
	EventID            = "id"
	EventRoomCreated   = "roomCreated"
	EventScene         = "scene"
	EventRoomUserState = "roomUserState"
)

// Config carries the room policy and the application hooks.
type Config struct {
	// MinUsers is the minimum member count required to start a room.
	MinUsers int

	// PingPeriod is the keepalive interval. A connection that misses two
	// consecutive pings is reaped through the normal disconnect path.
	// Zero disables keepalive.
	PingPeriod time.Duration

	// OnConnection is invoked with the client handle on every new
	// connection.
	OnConnection func(room.Client)

	// OnUserCreate may contribute extra fields to a member's application
	// data at create/join time.
	OnUserCreate func(map[string]interface{}) map[string]interface{}

	// OnRoomStart is invoked with the member list when the owner starts
	// the room.
	OnRoomStart func([]room.PublicMember)
}

type WebSocketHandler struct {
	// upgrader is used to upgrade the HTTP connection to a WebSocket connection
	upgrader *websocket.Upgrader

	// registry is the shared room store
	registry *registry.Registry

	// hub is the transport group primitive
	hub *Hub

	// idGen issues one unique identifier per connection
	idGen idgen.Generator

	// sessionMtx serializes lifecycle operations across all sessions, so
	// hub groups and broadcasts follow registry mutations in order
	sessionMtx *sync.Mutex

	config *Config

	logger *zap.Logger
}

func NewWebSocketHandler(
	reg *registry.Registry,
	hub *Hub,
	idGen idgen.Generator,
	config *Config,
	logger *zap.Logger,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		registry:   reg,
		hub:        hub,
		idGen:      idGen,
		sessionMtx: &sync.Mutex{},
		config:     config,
		logger:     logger,
	}
}

func (ws *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	c := newClient(conn)
	memberID := ws.idGen.NewID()
	ws.logger.Info("connection established", zap.String("memberID", memberID))

	if ws.config.OnConnection != nil {
		ws.config.OnConnection(c)
	}

	sess := newSession(memberID, c, ws.registry, ws.hub, ws.sessionMtx, ws.config, ws.logger)
	sess.emitID()

	if ws.config.PingPeriod > 0 {
		stop := ws.keepalive(conn, c)
		defer close(stop)
	}

	// Events are dispatched on the read loop goroutine: the session state
	// machine relies on its events arriving one at a time.
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil || mt == websocket.CloseMessage {
			sess.leaveRoom()
			ws.logger.Info("connection closed", zap.String("memberID", memberID))
			break
		}
		ws.dispatch(sess, msg)
	}
}

func (ws *WebSocketHandler) dispatch(sess *session, msg []byte) {
	message, err := messageDefiner(msg)
	if err != nil {
		ws.logger.Debug("failed to define message", zap.Error(err))
		return
	}

	switch v := message.(type) {
	case MessageRoomCreateRequest:
		sess.roomCreate(v.User)
	case MessageRoomCheckRequest:
		sess.roomCheck(v.RoomID)
	case MessageRoomJoinRequest:
		sess.roomJoin(v.RoomID, v.User)
	case MessageRoomKickRequest:
		sess.roomKick(v.UserID)
	case MessageRoomStartRequest:
		sess.roomStart()
	case MessageRoomLeaveRequest:
		sess.leaveRoom()
	}
}

// keepalive pings the connection every PingPeriod and extends the read
// deadline on every pong. A silent connection fails its next read, which
// funnels into the disconnect path of the read loop.
func (ws *WebSocketHandler) keepalive(conn *websocket.Conn, c *client) chan struct{} {
	deadline := 2 * ws.config.PingPeriod
	_ = conn.SetReadDeadline(time.Now().Add(deadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deadline))
	})

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(ws.config.PingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.ping(); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()
	return stop
}

func messageDefiner(msg []byte) (interface{}, error) {
	var message Message
	if err := json.Unmarshal(msg, &message); err != nil {
		return nil, ErrInvalidMessage
	}
	switch message.Event {
	case EventRoomCreate:
		var request MessageRoomCreateRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error unmarshaling MessageRoomCreateRequest: %w", err)
		}
		return request, nil
	case EventRoomCheck:
		var request MessageRoomCheckRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error unmarshaling MessageRoomCheckRequest: %w", err)
		}
		return request, nil
	case EventRoomJoin:
		var request MessageRoomJoinRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error unmarshaling MessageRoomJoinRequest: %w", err)
		}
		return request, nil
	case EventRoomKick:
		var request MessageRoomKickRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error unmarshaling MessageRoomKickRequest: %w", err)
		}
		return request, nil
	case EventRoomStart:
		return MessageRoomStartRequest{Message: message}, nil
	case EventRoomLeave:
		return MessageRoomLeaveRequest{Message: message}, nil
	}
	return nil, ErrInvalidMessage
}
