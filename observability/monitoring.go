package observability

import (
	"sync/atomic"
)

// RelayStats counts datagrams crossing the relay. All methods are safe for
// concurrent use by the receive and console workers.
type RelayStats struct {
	received     atomic.Uint64
	dropped      atomic.Uint64
	delivered    atomic.Uint64
	sendFailures atomic.Uint64
	broadcasts   atomic.Uint64
}

// Snapshot is a point-in-time copy of RelayStats.
type Snapshot struct {
	Received     uint64 `json:"received"`
	Dropped      uint64 `json:"dropped"`
	Delivered    uint64 `json:"delivered"`
	SendFailures uint64 `json:"send_failures"`
	Broadcasts   uint64 `json:"broadcasts"`
}

func NewRelayStats() *RelayStats {
	return &RelayStats{}
}

func (s *RelayStats) IncrReceived()     { s.received.Add(1) }
func (s *RelayStats) IncrDropped()      { s.dropped.Add(1) }
func (s *RelayStats) IncrDelivered()    { s.delivered.Add(1) }
func (s *RelayStats) IncrSendFailures() { s.sendFailures.Add(1) }
func (s *RelayStats) IncrBroadcasts()   { s.broadcasts.Add(1) }

func (s *RelayStats) Snapshot() Snapshot {
	return Snapshot{
		Received:     s.received.Load(),
		Dropped:      s.dropped.Load(),
		Delivered:    s.delivered.Load(),
		SendFailures: s.sendFailures.Load(),
		Broadcasts:   s.broadcasts.Load(),
	}
}
