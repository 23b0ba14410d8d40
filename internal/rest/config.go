package rest

import (
	"time"

	"go.uber.org/zap"

	"github.com/playkit/gameroom/internal/room"
)

type Config struct {
	// Port is the port where the server will listen
	Port int

	// MaxUsers is the capacity per room
	MaxUsers int

	// MinUsers is the minimum member count required to start a room
	MinUsers int

	// PingPeriod is the WebSocket keepalive interval; zero disables it
	PingPeriod time.Duration

	// OnConnection, OnUserCreate and OnRoomStart are the application hooks
	// passed through to the WebSocket handler
	OnConnection func(room.Client)
	OnUserCreate func(map[string]interface{}) map[string]interface{}
	OnRoomStart  func([]room.PublicMember)

	Logger *zap.Logger
}
