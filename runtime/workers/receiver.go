package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/infrastructure/udp"
	"chat-relay/observability"
	"context"
	"log/slog"
)

// ReceiverWorker is the receive-and-route duty: one datagram at a time,
// decoded, routed, then fanned out.
// A receive error is a transport fault and is returned as fatal.
type ReceiverWorker struct {
	log       *slog.Logger
	transport contract.Transport
	router    contract.IRouter
	stats     *observability.RelayStats
}

func NewReceiverWorker(log *slog.Logger, transport contract.Transport,
	router contract.IRouter, stats *observability.RelayStats) *ReceiverWorker {
	return &ReceiverWorker{log: log, transport: transport, router: router, stats: stats}
}

func (w *ReceiverWorker) Run(ctx context.Context) error {
	for {
		payload, from, err := w.transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.log.Debug("Stopping receiver")
				return ctx.Err()
			}
			return err
		}
		w.stats.IncrReceived()

		evt, err := udp.Decode(payload)
		if err != nil {
			w.stats.IncrDropped()
			w.log.Warn("Dropping malformed datagram", "from", from, "size", len(payload), "error", err)
			continue
		}

		deliver(ctx, w.log, w.transport, w.stats, w.router.Route(domain.NewEnvelope(from, evt)))
	}
}
