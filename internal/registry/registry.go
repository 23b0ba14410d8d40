package registry

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/playkit/gameroom/internal/room"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrRoomAlreadyExists = errors.New("room already exists")
)

// RemovedInfo describes the outcome of a RemoveMember call.
type RemovedInfo struct {
	// RoomFound is false when the room had no registry entry.
	RoomFound bool

	// Member is the removed member, or nil if it was not in the room.
	Member *room.Member

	// WasOwner reports whether the removed identifier is the room's owner.
	// It is computed from the identifier, so it holds even when the owner
	// was already absent from the member list.
	WasOwner bool

	// Empty reports whether the room has no members left.
	Empty bool
}

// RoomInfo is a point-in-time view of one room, used by the debug endpoint.
type RoomInfo struct {
	RoomID  string `json:"room_id"`
	Members int    `json:"members"`
}

// Registry is the shared in-memory store mapping room identifiers to rooms.
// It owns all mutation of room membership and enforces capacity and
// existence invariants.
//
// A single mutex serializes all operations. Room sizes are small and every
// operation is a handful of map and slice touches, so one coarse lock is
// preferred over per-room locking. Mutating operations return the
// post-mutation member snapshot taken inside the same critical section, so
// callers broadcast a state that is consistent with the mutation they just
// performed.
type Registry struct {
	maxUsers int

	data   map[string]*room.Room
	logger *zap.Logger

	mtx *sync.Mutex
}

func NewRegistry(maxUsers int, logger *zap.Logger) *Registry {
	return &Registry{
		maxUsers: maxUsers,
		data:     make(map[string]*room.Room),
		logger:   logger,
		mtx:      &sync.Mutex{},
	}
}

// Exists reports whether a room with the given id is registered.
func (reg *Registry) Exists(roomID string) bool {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()
	_, ok := reg.data[roomID]
	return ok
}

// CheckRoom reports whether the room can accept one more member. It returns
// ErrRoomNotFound if the room is absent and ErrRoomFull if it is at
// capacity.
func (reg *Registry) CheckRoom(roomID string) error {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()
	return reg.checkRoom(roomID)
}

func (reg *Registry) checkRoom(roomID string) error {
	r, ok := reg.data[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	if len(r.Members) >= reg.maxUsers {
		return ErrRoomFull
	}
	return nil
}

// Create inserts a new room with the given member as its owner and sole
// occupant. The room identifier is the owner's member identifier, so a
// collision is practically unreachable, but it is still checked and
// reported as ErrRoomAlreadyExists.
func (reg *Registry) Create(roomID string, owner *room.Member) ([]room.PublicMember, error) {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	if _, ok := reg.data[roomID]; ok {
		reg.logger.Warn("room id collision on create", zap.String("roomID", roomID))
		return nil, ErrRoomAlreadyExists
	}

	r := room.NewRoom(roomID, owner)
	reg.data[roomID] = r
	reg.logger.Info("room created", zap.String("roomID", roomID))
	return r.PublicMembers(), nil
}

// AddMember appends the member to the room, preserving join order. It
// returns ErrRoomNotFound if the room is absent and ErrRoomFull if the room
// is at capacity; in both cases the registry is left untouched.
func (reg *Registry) AddMember(roomID string, m *room.Member) ([]room.PublicMember, error) {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	if err := reg.checkRoom(roomID); err != nil {
		return nil, err
	}

	r := reg.data[roomID]
	r.AddMember(m)
	reg.logger.Info("member joined room",
		zap.String("roomID", roomID),
		zap.String("memberID", m.ID),
		zap.Int("members", len(r.Members)),
	)
	return r.PublicMembers(), nil
}

// RemoveMember removes the member from the room if present. An absent
// member is not an error; the returned info reports what was found. The
// returned snapshot is the member list after removal, or nil when the room
// itself is absent.
func (reg *Registry) RemoveMember(roomID, memberID string) (RemovedInfo, []room.PublicMember) {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	r, ok := reg.data[roomID]
	if !ok {
		return RemovedInfo{}, nil
	}

	removed := r.RemoveMember(memberID)
	if removed != nil {
		reg.logger.Info("member left room",
			zap.String("roomID", roomID),
			zap.String("memberID", memberID),
			zap.Int("members", len(r.Members)),
		)
	}

	info := RemovedInfo{
		RoomFound: true,
		Member:    removed,
		WasOwner:  memberID == r.OwnerID,
		Empty:     len(r.Members) == 0,
	}
	return info, r.PublicMembers()
}

// Destroy removes the room entry. Destroying an absent room is not an
// error.
func (reg *Registry) Destroy(roomID string) {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	if _, ok := reg.data[roomID]; !ok {
		return
	}
	delete(reg.data, roomID)
	reg.logger.Info("room destroyed", zap.String("roomID", roomID))
}

// HasMember reports whether the room currently lists the member.
func (reg *Registry) HasMember(roomID, memberID string) bool {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	r, ok := reg.data[roomID]
	return ok && r.FindMember(memberID) != nil
}

// IsOwner reports whether the member owns the room. A missing room is never
// owned.
func (reg *Registry) IsOwner(roomID, memberID string) bool {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	r, ok := reg.data[roomID]
	return ok && r.OwnerID == memberID
}

// ListPublicMembers returns the room's members in join order with
// connection handles stripped.
func (reg *Registry) ListPublicMembers(roomID string) ([]room.PublicMember, error) {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	r, ok := reg.data[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.PublicMembers(), nil
}

// Snapshot returns a point-in-time view of all rooms.
func (reg *Registry) Snapshot() []RoomInfo {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	rooms := make([]RoomInfo, 0, len(reg.data))
	for id, r := range reg.data {
		rooms = append(rooms, RoomInfo{RoomID: id, Members: len(r.Members)})
	}
	return rooms
}
