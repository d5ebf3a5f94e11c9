// Package domain contains core concepts of the chat relay.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"net/netip"
)

// Participant is a registered chat endpoint.
// The address is the identity; names are display only and may collide.
type Participant struct {
	Address netip.AddrPort
	Name    Name
}

func NewParticipant(address netip.AddrPort, name string) Participant {
	return Participant{Address: address, Name: NewName(name)}
}

func (p Participant) String() string {
	return fmt.Sprintf("%s@%s", p.Name, p.Address)
}
