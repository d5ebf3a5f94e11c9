package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/infrastructure/udp"
	"chat-relay/observability"
	"context"
	"log/slog"
)

// deliver sends each delivery once. Failures are logged and counted, never retried.
func deliver(ctx context.Context, log *slog.Logger, transport contract.Transport,
	stats *observability.RelayStats, deliveries []domain.Delivery) {
	for _, d := range deliveries {
		if err := transport.Send(ctx, d.To, udp.Encode(d.Event)); err != nil {
			stats.IncrSendFailures()
			log.Warn("Send failed, dropping datagram", "to", d.To, "kind", d.Event.Kind(), "error", err)
			continue
		}
		stats.IncrDelivered()
	}
}
