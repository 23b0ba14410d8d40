package ws

import (
	"sync"

	"github.com/playkit/gameroom/internal/room"
)

// Hub is the transport group primitive: it maintains sets of client handles
// keyed by room identifier and fans a message out to one group. It knows
// nothing about membership rules; sessions join and leave groups alongside
// the registry mutations they perform.
type Hub struct {
	mtx    sync.RWMutex
	groups map[string]map[room.Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		groups: make(map[string]map[room.Client]struct{}),
	}
}

// Join adds the client to the room's group.
func (h *Hub) Join(roomID string, c room.Client) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if _, ok := h.groups[roomID]; !ok {
		h.groups[roomID] = make(map[room.Client]struct{})
	}
	h.groups[roomID][c] = struct{}{}
}

// Leave removes the client from the room's group. The group entry is
// dropped once empty.
func (h *Hub) Leave(roomID string, c room.Client) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	group, ok := h.groups[roomID]
	if !ok {
		return
	}
	delete(group, c)
	if len(group) == 0 {
		delete(h.groups, roomID)
	}
}

// Broadcast sends the message to every client in the room's group. Send
// errors are ignored; a dead connection is cleaned up by its own read loop.
func (h *Hub) Broadcast(roomID string, v interface{}) {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	for c := range h.groups[roomID] {
		_ = c.Send(v)
	}
}
