package runtime

import (
	"chat-relay/domain"
	"fmt"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func addr(port uint16) netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), port)
}

func names(participants []domain.Participant) []domain.Name {
	res := make([]domain.Name, 0, len(participants))
	for _, p := range participants {
		res = append(res, p.Name)
	}
	return res
}

func TestRegistry_Insert_Keeps_Insertion_Order(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given no participant is registered
	req.Zero(registry.Len())

	// When three participants log in
	registry.Insert(domain.NewParticipant(addr(1), "alice"))
	registry.Insert(domain.NewParticipant(addr(2), "bob"))
	registry.Insert(domain.NewParticipant(addr(3), "clara"))

	// Then they are listed in arrival order
	req.Equal(3, registry.Len())
	req.Equal([]domain.Name{"alice", "bob", "clara"}, names(registry.Participants()))
}

func TestRegistry_Insert_Same_Address_Replaces_In_Place(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Insert(domain.NewParticipant(addr(1), "alice"))
	registry.Insert(domain.NewParticipant(addr(2), "bob"))

	// When alice's address logs in again under another name
	replaced := registry.Insert(domain.NewParticipant(addr(1), "alicia"))

	// Then the entry is replaced without moving or duplicating it
	req.True(replaced)
	req.Equal(2, registry.Len())
	req.Equal([]domain.Name{"alicia", "bob"}, names(registry.Participants()))
}

func TestRegistry_Size_Equals_Distinct_Addresses(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	ports := []uint16{1, 2, 3, 2, 1, 4}
	for i, port := range ports {
		registry.Insert(domain.NewParticipant(addr(port), fmt.Sprintf("user-%d", i)))
	}

	req.Equal(4, registry.Len())
}

func TestRegistry_Remove(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Insert(domain.NewParticipant(addr(1), "alice"))
	registry.Insert(domain.NewParticipant(addr(2), "bob"))

	// When alice is removed
	req.True(registry.Remove(addr(1)))

	// Then only bob is left and alice is never yielded again
	req.False(registry.Contains(addr(1)))
	req.Equal([]domain.Name{"bob"}, names(registry.Participants()))
	registry.ForEach(func(p domain.Participant) {
		req.NotEqual(addr(1), p.Address)
	})
}

func TestRegistry_Remove_Unknown_Is_NoOp(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Insert(domain.NewParticipant(addr(1), "alice"))
	registry.Insert(domain.NewParticipant(addr(2), "bob"))
	before := registry.Participants()

	// When an address that never logged in is removed, twice
	req.False(registry.Remove(addr(9)))
	req.False(registry.Remove(addr(9)))

	// Then the registry is untouched
	req.Equal(before, registry.Participants())
}

func TestRegistry_ForEachExcept_Skips_Only_Excluded(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Insert(domain.NewParticipant(addr(1), "alice"))
	registry.Insert(domain.NewParticipant(addr(2), "bob"))
	registry.Insert(domain.NewParticipant(addr(3), "clara"))

	var visited []domain.Name
	registry.ForEachExcept(addr(2), func(p domain.Participant) {
		visited = append(visited, p.Name)
	})

	req.Equal([]domain.Name{"alice", "clara"}, visited)
}

func TestRegistry_ForEachExcept_Allows_Removal_During_Traversal(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Insert(domain.NewParticipant(addr(1), "alice"))
	registry.Insert(domain.NewParticipant(addr(2), "bob"))
	registry.Insert(domain.NewParticipant(addr(3), "clara"))

	// When every visited participant removes itself
	var visited []domain.Name
	registry.ForEachExcept(addr(9), func(p domain.Participant) {
		visited = append(visited, p.Name)
		registry.Remove(p.Address)
	})

	// Then the traversal still sees everyone exactly once
	req.Equal([]domain.Name{"alice", "bob", "clara"}, visited)
	req.Zero(registry.Len())
}
