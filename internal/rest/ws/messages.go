package ws

import (
	"github.com/playkit/gameroom/internal/room"
)

// Scene statuses delivered to clients.
const (
	SceneNotExistsRoom = "NOT_EXISTS_ROOM"
	SceneFullRoom      = "FULL_ROOM"
	SceneKickedRoom    = "KICKED_ROOM"
	SceneGame          = "GAME"
)

type Message struct {
	Event string `json:"event"`
}

type MessageRoomCreateRequest struct {
	Message
	User map[string]interface{} `json:"user,omitempty"`
}

type MessageRoomCheckRequest struct {
	Message
	RoomID string `json:"room_id"`
}

type MessageRoomJoinRequest struct {
	Message
	RoomID string                 `json:"room_id"`
	User   map[string]interface{} `json:"user,omitempty"`
}

type MessageRoomKickRequest struct {
	Message
	UserID string `json:"user_id"`
}

type MessageRoomStartRequest struct {
	Message
}

type MessageRoomLeaveRequest struct {
	Message
}

type MessageIDResponse struct {
	Message
	UserID string `json:"user_id"`
}

type MessageRoomCreatedResponse struct {
	Message
	RoomID string `json:"room_id"`
}

type MessageSceneResponse struct {
	Message
	Scene string `json:"scene"`
}

type MessageRoomUserStateResponse struct {
	Message
	Users []room.PublicMember `json:"users"`
}
