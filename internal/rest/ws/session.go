package ws

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/playkit/gameroom/internal/registry"
	"github.com/playkit/gameroom/internal/room"
)

type sessionState int

const (
	// stateIdle: connected, not bound to a room.
	stateIdle sessionState = iota

	// stateInRoom: bound to currentRoomID, as owner or guest.
	stateInRoom
)

// session is the per-connection state machine. It interprets inbound
// lifecycle events, validates them against the shared registry and produces
// direct and group broadcasts. Sessions never reference each other; all
// coordination goes through the registry and the hub.
//
// All methods run on the connection's read loop goroutine, so session
// fields need no locking. Lifecycle operations additionally serialize on a
// mutex shared by every session of one handler: a registry mutation, the
// matching hub update and the broadcast of the new member list form one
// step, so broadcasts reach the group in registry order and every member
// ends up holding the registry's current state.
type session struct {
	memberID      string
	currentRoomID string
	state         sessionState

	client   room.Client
	registry *registry.Registry
	hub      *Hub
	mtx      *sync.Mutex

	minUsers     int
	onUserCreate func(map[string]interface{}) map[string]interface{}
	onRoomStart  func([]room.PublicMember)

	logger *zap.Logger
}

func newSession(
	memberID string,
	c room.Client,
	reg *registry.Registry,
	hub *Hub,
	mtx *sync.Mutex,
	config *Config,
	logger *zap.Logger,
) *session {
	return &session{
		memberID:     memberID,
		state:        stateIdle,
		client:       c,
		registry:     reg,
		hub:          hub,
		mtx:          mtx,
		minUsers:     config.MinUsers,
		onUserCreate: config.OnUserCreate,
		onRoomStart:  config.OnRoomStart,
		logger:       logger,
	}
}

// emitID sends the assigned member identifier to the client right after the
// connection handshake.
func (s *session) emitID() {
	_ = s.client.Send(MessageIDResponse{
		Message: Message{Event: EventID},
		UserID:  s.memberID,
	})
}

func (s *session) emitScene(scene string) {
	_ = s.client.Send(MessageSceneResponse{
		Message: Message{Event: EventScene},
		Scene:   scene,
	})
}

func (s *session) broadcastScene(roomID, scene string) {
	s.hub.Broadcast(roomID, MessageSceneResponse{
		Message: Message{Event: EventScene},
		Scene:   scene,
	})
}

func (s *session) broadcastUserState(roomID string, users []room.PublicMember) {
	s.hub.Broadcast(roomID, MessageRoomUserStateResponse{
		Message: Message{Event: EventRoomUserState},
		Users:   users,
	})
}

// makeMember builds this session's member record. The user payload is
// opaque; the OnUserCreate hook may contribute extra fields, which are
// merged over the supplied payload.
func (s *session) makeMember(user map[string]interface{}) *room.Member {
	data := make(map[string]interface{}, len(user))
	for k, v := range user {
		data[k] = v
	}
	if s.onUserCreate != nil {
		for k, v := range s.onUserCreate(user) {
			data[k] = v
		}
	}
	return &room.Member{
		ID:     s.memberID,
		Client: s.client,
		Data:   data,
	}
}

// rejoinable reports whether the session may bind to a new room: it is
// Idle, or the room it was bound to no longer lists it because it was
// kicked or the room was destroyed. A revoked binding is dropped here; the
// session must stay usable after a kick.
func (s *session) rejoinable() bool {
	if s.state == stateIdle {
		return true
	}
	if s.registry.HasMember(s.currentRoomID, s.memberID) {
		return false
	}

	s.hub.Leave(s.currentRoomID, s.client)
	s.state = stateIdle
	s.currentRoomID = ""
	return true
}

// roomCreate opens a new room with this session as its owner. The room
// identifier is the session's member identifier, so a user who creates,
// leaves and creates again reuses the same room id.
func (s *session) roomCreate(user map[string]interface{}) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.rejoinable() {
		return
	}

	s.currentRoomID = s.memberID
	users, err := s.registry.Create(s.currentRoomID, s.makeMember(user))
	if err != nil {
		s.logger.Warn("room create rejected",
			zap.String("roomID", s.currentRoomID),
			zap.Error(err),
		)
		s.currentRoomID = ""
		return
	}

	_ = s.client.Send(MessageRoomCreatedResponse{
		Message: Message{Event: EventRoomCreated},
		RoomID:  s.currentRoomID,
	})
	s.hub.Join(s.currentRoomID, s.client)
	s.state = stateInRoom
	s.broadcastUserState(s.currentRoomID, users)
}

// roomCheck answers a client probing a room id before joining. Failures are
// reported as scene statuses; a joinable room produces no reply.
func (s *session) roomCheck(roomID string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	err := s.registry.CheckRoom(roomID)
	switch {
	case errors.Is(err, registry.ErrRoomNotFound):
		s.emitScene(SceneNotExistsRoom)
		return false
	case errors.Is(err, registry.ErrRoomFull):
		s.emitScene(SceneFullRoom)
		return false
	}
	return true
}

// roomJoin adds this session to an existing room. Existence and capacity
// are checked by AddMember inside the registry's critical section, so a
// racing join can never overfill the room; a rejection leaves the registry
// untouched and the session in Idle.
func (s *session) roomJoin(roomID string, user map[string]interface{}) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.rejoinable() {
		return
	}

	s.currentRoomID = roomID
	users, err := s.registry.AddMember(roomID, s.makeMember(user))
	switch {
	case errors.Is(err, registry.ErrRoomNotFound):
		s.emitScene(SceneNotExistsRoom)
		return
	case errors.Is(err, registry.ErrRoomFull):
		s.emitScene(SceneFullRoom)
		return
	}

	s.hub.Join(roomID, s.client)
	s.state = stateInRoom
	s.broadcastUserState(roomID, users)
}

// roomKick removes the target member from this session's room. Any member
// may kick; ownership is not required. An absent target is a silent no-op.
func (s *session) roomKick(targetID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state != stateInRoom {
		return
	}

	info, users := s.registry.RemoveMember(s.currentRoomID, targetID)
	if info.Member == nil {
		return
	}

	target := info.Member.Client
	_ = target.Send(MessageSceneResponse{
		Message: Message{Event: EventScene},
		Scene:   SceneKickedRoom,
	})
	s.hub.Leave(s.currentRoomID, target)

	if info.Empty {
		s.registry.Destroy(s.currentRoomID)
		return
	}
	s.broadcastUserState(s.currentRoomID, users)
}

// roomStart launches the session for the whole room. Only the owner may
// start, and only once the room has reached the configured minimum;
// anything else is silently ignored.
func (s *session) roomStart() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state != stateInRoom {
		return
	}
	if !s.registry.IsOwner(s.currentRoomID, s.memberID) {
		return
	}

	users, err := s.registry.ListPublicMembers(s.currentRoomID)
	if err != nil || len(users) < s.minUsers {
		return
	}

	s.broadcastScene(s.currentRoomID, SceneGame)
	s.logger.Info("room started",
		zap.String("roomID", s.currentRoomID),
		zap.Int("members", len(users)),
	)
	if s.onRoomStart != nil {
		s.onRoomStart(users)
	}
}

// leaveRoom handles both a voluntary leave and a disconnect. The owner's
// departure tears the whole room down: survivors are told the room no
// longer exists instead of being promoted under a new owner.
func (s *session) leaveRoom() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state != stateInRoom {
		return
	}

	roomID := s.currentRoomID
	s.state = stateIdle
	s.currentRoomID = ""

	info, users := s.registry.RemoveMember(roomID, s.memberID)
	s.hub.Leave(roomID, s.client)
	if !info.RoomFound {
		return
	}

	if info.WasOwner || info.Empty {
		s.broadcastScene(roomID, SceneNotExistsRoom)
		s.registry.Destroy(roomID)
		return
	}
	s.broadcastUserState(roomID, users)
}
