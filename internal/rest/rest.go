package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/playkit/gameroom/internal/idgen"
	"github.com/playkit/gameroom/internal/registry"
	"github.com/playkit/gameroom/internal/rest/ws"
)

type Rest struct {
	config *Config

	registry *registry.Registry

	server *http.Server
}

func NewRest(config *Config) *Rest {
	return &Rest{
		config:   config,
		registry: registry.NewRegistry(config.MaxUsers, config.Logger),
	}
}

func (rest *Rest) Start() {
	router := chi.NewRouter()

	// Define the /ping endpoint
	router.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte("pong"))
		if err != nil {
			return
		}
	})

	// Define the /rooms endpoint
	router.Get("/rooms", rest.handleRooms)

	// Define the /ws endpoint
	wsServer := ws.NewWebSocketHandler(
		rest.registry,
		ws.NewHub(),
		idgen.NewUUIDGenerator(),
		&ws.Config{
			MinUsers:     rest.config.MinUsers,
			PingPeriod:   rest.config.PingPeriod,
			OnConnection: rest.config.OnConnection,
			OnUserCreate: rest.config.OnUserCreate,
			OnRoomStart:  rest.config.OnRoomStart,
		},
		rest.config.Logger,
	)
	router.HandleFunc("/ws", wsServer.Handle)

	rest.server = &http.Server{
		Addr:              ":" + strconv.Itoa(rest.config.Port),
		Handler:           router,
		ReadHeaderTimeout: 0,
	}
	if err := rest.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		rest.config.Logger.Error("server error", zap.Error(err))
		return
	}
}

func (rest *Rest) Stop() {
	// A shutdown signal can arrive before Start has built the server.
	if rest.server == nil {
		return
	}
	if err := rest.server.Shutdown(context.Background()); err != nil {
		rest.config.Logger.Error("server error", zap.Error(err))
	}
}

func (rest *Rest) handleRooms(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rest.registry.Snapshot()); err != nil {
		rest.config.Logger.Error("failed to encode rooms snapshot", zap.Error(err))
	}
}
