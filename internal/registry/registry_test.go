package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/playkit/gameroom/internal/room"
)

func newTestRegistry(maxUsers int) *Registry {
	return NewRegistry(maxUsers, zap.NewNop())
}

func member(id string) *room.Member {
	return &room.Member{ID: id}
}

func TestCreate(t *testing.T) {
	reg := newTestRegistry(4)

	users, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	require.Equal(t, []room.PublicMember{{ID: "a"}}, users)
	require.True(t, reg.Exists("a"))
}

func TestCreateAlreadyExists(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)

	_, err = reg.Create("a", member("a"))
	require.ErrorIs(t, err, ErrRoomAlreadyExists)
}

func TestCheckRoom(t *testing.T) {
	reg := newTestRegistry(2)

	require.ErrorIs(t, reg.CheckRoom("missing"), ErrRoomNotFound)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	require.NoError(t, reg.CheckRoom("a"))

	_, err = reg.AddMember("a", member("b"))
	require.NoError(t, err)
	require.ErrorIs(t, reg.CheckRoom("a"), ErrRoomFull)
}

func TestAddMemberPreservesJoinOrder(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)

	_, err = reg.AddMember("a", member("b"))
	require.NoError(t, err)
	users, err := reg.AddMember("a", member("c"))
	require.NoError(t, err)

	require.Equal(t, []room.PublicMember{{ID: "a"}, {ID: "b"}, {ID: "c"}}, users)
}

func TestAddMemberNotFound(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.AddMember("missing", member("b"))
	require.ErrorIs(t, err, ErrRoomNotFound)
	require.False(t, reg.Exists("missing"))
}

func TestAddMemberFull(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	for _, id := range []string{"b", "c", "d"} {
		_, err = reg.AddMember("a", member(id))
		require.NoError(t, err)
	}

	_, err = reg.AddMember("a", member("e"))
	require.ErrorIs(t, err, ErrRoomFull)

	users, err := reg.ListPublicMembers("a")
	require.NoError(t, err)
	require.Equal(t, []room.PublicMember{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}, users)
}

func TestRemoveMember(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	_, err = reg.AddMember("a", member("b"))
	require.NoError(t, err)

	info, users := reg.RemoveMember("a", "b")
	require.True(t, info.RoomFound)
	require.NotNil(t, info.Member)
	require.Equal(t, "b", info.Member.ID)
	require.False(t, info.WasOwner)
	require.False(t, info.Empty)
	require.Equal(t, []room.PublicMember{{ID: "a"}}, users)
}

func TestRemoveMemberAbsentIsNoop(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)

	info, users := reg.RemoveMember("a", "ghost")
	require.True(t, info.RoomFound)
	require.Nil(t, info.Member)
	require.Equal(t, []room.PublicMember{{ID: "a"}}, users)
}

func TestRemoveMemberMissingRoom(t *testing.T) {
	reg := newTestRegistry(4)

	info, users := reg.RemoveMember("missing", "a")
	require.False(t, info.RoomFound)
	require.Nil(t, users)
}

func TestRemoveMemberOwner(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	_, err = reg.AddMember("a", member("b"))
	require.NoError(t, err)

	info, _ := reg.RemoveMember("a", "a")
	require.True(t, info.WasOwner)
	require.False(t, info.Empty)
}

func TestRemoveLastMemberReportsEmpty(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)

	info, users := reg.RemoveMember("a", "a")
	require.True(t, info.WasOwner)
	require.True(t, info.Empty)
	require.Empty(t, users)
}

func TestDestroyIsIdempotent(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)

	reg.Destroy("a")
	require.False(t, reg.Exists("a"))
	reg.Destroy("a")
	reg.Destroy("never-existed")
}

func TestHasMember(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	_, err = reg.AddMember("a", member("b"))
	require.NoError(t, err)

	require.True(t, reg.HasMember("a", "b"))

	reg.RemoveMember("a", "b")
	require.False(t, reg.HasMember("a", "b"))
	require.False(t, reg.HasMember("missing", "a"))
}

func TestIsOwner(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	_, err = reg.AddMember("a", member("b"))
	require.NoError(t, err)

	require.True(t, reg.IsOwner("a", "a"))
	require.False(t, reg.IsOwner("a", "b"))
	require.False(t, reg.IsOwner("missing", "a"))
}

func TestListPublicMembersMissingRoom(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.ListPublicMembers("missing")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRecreateAfterDestroy(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	reg.RemoveMember("a", "a")
	reg.Destroy("a")

	users, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	require.Equal(t, []room.PublicMember{{ID: "a"}}, users)
}

func TestSnapshot(t *testing.T) {
	reg := newTestRegistry(4)

	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)
	_, err = reg.AddMember("a", member("b"))
	require.NoError(t, err)
	_, err = reg.Create("c", member("c"))
	require.NoError(t, err)

	rooms := reg.Snapshot()
	require.Len(t, rooms, 2)
	require.ElementsMatch(t, []RoomInfo{
		{RoomID: "a", Members: 2},
		{RoomID: "c", Members: 1},
	}, rooms)
}

// Concurrent joins against one room must never push it past capacity.
func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	const maxUsers = 4
	const joiners = 32

	reg := newTestRegistry(maxUsers)
	_, err := reg.Create("a", member("a"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var full, joined int64
	var mtx sync.Mutex
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := reg.AddMember("a", member(string(rune('b'+n))))
			mtx.Lock()
			defer mtx.Unlock()
			if err != nil {
				full++
			} else {
				joined++
			}
		}(i)
	}
	wg.Wait()

	users, err := reg.ListPublicMembers("a")
	require.NoError(t, err)
	require.Len(t, users, maxUsers)
	require.EqualValues(t, maxUsers-1, joined)
	require.EqualValues(t, joiners-(maxUsers-1), full)
}
