package room

// Client is the transport-level handle of one connected member. The room
// layer never inspects it; it is carried so that lifecycle code can address
// the member directly, and it is stripped from every broadcast.
type Client interface {
	Send(v interface{}) error
	Close() error
}

// Member is one participant of a room.
type Member struct {
	// ID is the unique identifier of the member.
	ID string

	// Client is the connection handle of the member.
	Client Client

	// Data is the opaque application payload supplied at create/join time.
	Data map[string]interface{}
}

// Public returns the member record with the connection handle stripped.
func (m *Member) Public() PublicMember {
	return PublicMember{ID: m.ID, Data: m.Data}
}

// PublicMember is the shape of a member as broadcast to other clients.
type PublicMember struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// Room is a capacity-bounded group of members. The room identifier equals
// the identifier of the member who created it; OwnerID records that
// explicitly instead of relying on the comparison.
type Room struct {
	// ID is the unique identifier of the room.
	ID string

	// OwnerID is the identifier of the member who created the room.
	OwnerID string

	// Members holds the members in join order. Order is presentation-relevant:
	// the list is broadcast as-is on every membership change.
	Members []*Member
}

// NewRoom creates a room with the owner as its sole member.
func NewRoom(id string, owner *Member) *Room {
	return &Room{
		ID:      id,
		OwnerID: owner.ID,
		Members: []*Member{owner},
	}
}

// AddMember appends a member, preserving join order.
func (r *Room) AddMember(m *Member) {
	r.Members = append(r.Members, m)
}

// RemoveMember removes the member with the given id and returns it, or nil
// if no such member is present.
func (r *Room) RemoveMember(memberID string) *Member {
	for i, m := range r.Members {
		if m.ID == memberID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return m
		}
	}
	return nil
}

// FindMember returns the member with the given id, or nil.
func (r *Room) FindMember(memberID string) *Member {
	for _, m := range r.Members {
		if m.ID == memberID {
			return m
		}
	}
	return nil
}

// PublicMembers returns the members in join order with connection handles
// stripped.
func (r *Room) PublicMembers() []PublicMember {
	users := make([]PublicMember, 0, len(r.Members))
	for _, m := range r.Members {
		users = append(users, m.Public())
	}
	return users
}
