package runtime

import (
	"chat-relay/domain"
	"net/netip"
	"sync"

	"github.com/samber/lo"
)

// Registry is the ordered set of logged-in participants.
// Entries keep insertion order and an address appears at most once.
type Registry struct {
	mu           sync.RWMutex
	participants []domain.Participant
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Insert appends p at the tail. A participant already registered under the
// same address is replaced in place and Insert reports true.
func (r *Registry) Insert(p domain.Participant) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, index, found := lo.FindIndexOf(r.participants, func(item domain.Participant) bool {
		return item.Address == p.Address
	})
	if found {
		r.participants[index] = p
		return true
	}
	r.participants = append(r.participants, p)
	return false
}

// Remove deletes the participant registered under address.
// Removing an unknown address is a no-op and reports false.
func (r *Registry) Remove(address netip.AddrPort) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.participants)
	r.participants = lo.Reject(r.participants, func(item domain.Participant, _ int) bool {
		return item.Address == address
	})
	return len(r.participants) != before
}

func (r *Registry) Contains(address netip.AddrPort) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.ContainsBy(r.participants, func(item domain.Participant) bool {
		return item.Address == address
	})
}

// ForEach visits every participant in insertion order.
func (r *Registry) ForEach(fn func(domain.Participant)) {
	for _, p := range r.Participants() {
		fn(p)
	}
}

// ForEachExcept visits every participant whose address differs from address.
// The traversal runs over a snapshot taken under the read lock, so fn may
// call back into the registry.
func (r *Registry) ForEachExcept(address netip.AddrPort, fn func(domain.Participant)) {
	for _, p := range r.Participants() {
		if p.Address != address {
			fn(p)
		}
	}
}

// Participants returns a copy of the current entries.
func (r *Registry) Participants() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]domain.Participant, len(r.participants))
	copy(snapshot, r.participants)
	return snapshot
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
