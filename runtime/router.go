package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"log/slog"
	"net/netip"
)

// Router turns one inbound event into registry changes and outbound deliveries.
// It is the only writer of the registry. Route is called from a single
// goroutine; Broadcast only reads and may run concurrently with Route.
type Router struct {
	log      *slog.Logger
	registry contract.IRegistry
	strict   bool
}

func NewRouter(log *slog.Logger, registry contract.IRegistry, strict bool) *Router {
	return &Router{log: log, registry: registry, strict: strict}
}

// Route applies envelope to the registry and returns who must receive what.
func (r *Router) Route(envelope domain.Envelope) []domain.Delivery {
	from := envelope.From
	log := r.log.With("event_id", envelope.ID, "from", from, "kind", envelope.Event.Kind())

	if r.strict && envelope.Event.Kind() != domain.KindLogin && !r.registry.Contains(from) {
		log.Debug("Dropping event from unknown sender")
		return nil
	}

	switch evt := envelope.Event.(type) {
	case domain.Login:
		return r.login(log, from, evt)
	case domain.Chat:
		return r.chat(log, from, evt)
	case domain.Quit:
		return r.quit(log, from, evt)
	default:
		log.Warn("Unsupported event type")
		return nil
	}
}

// login announces the newcomer to everyone already present, then registers it.
// The sender is excluded so a re-login never announces itself.
func (r *Router) login(log *slog.Logger, from netip.AddrPort, evt domain.Login) []domain.Delivery {
	deliveries := r.collectExcept(from, domain.LoginAnnouncement(evt.Name))
	if replaced := r.registry.Insert(domain.Participant{Address: from, Name: evt.Name}); replaced {
		log.Info("Participant logged in again, entry replaced", "name", evt.Name)
	} else {
		log.Info("Participant logged in", "name", evt.Name, "participants", r.registry.Len())
	}
	return deliveries
}

func (r *Router) chat(log *slog.Logger, from netip.AddrPort, evt domain.Chat) []domain.Delivery {
	log.Info("Chat relayed", "name", evt.Name, "text", evt.Text)
	return r.collectExcept(from, evt)
}

// quit removes the sender before collecting targets, so the notification
// traversal never runs against an entry being deleted.
func (r *Router) quit(log *slog.Logger, from netip.AddrPort, evt domain.Quit) []domain.Delivery {
	if r.registry.Remove(from) {
		log.Info("Participant quit", "name", evt.Name, "participants", r.registry.Len())
	} else {
		log.Debug("Quit from unregistered address", "name", evt.Name)
	}
	return r.collect(evt)
}

// Broadcast sends a relay-originated message to every participant.
func (r *Router) Broadcast(text string) []domain.Delivery {
	evt := domain.ServerChat(text)
	r.log.Info("Server broadcast", "name", evt.Name, "text", evt.Text)
	return r.collect(evt)
}

func (r *Router) collect(evt domain.Event) []domain.Delivery {
	var deliveries []domain.Delivery
	r.registry.ForEach(func(p domain.Participant) {
		deliveries = append(deliveries, domain.Delivery{To: p.Address, Event: evt})
	})
	return deliveries
}

func (r *Router) collectExcept(except netip.AddrPort, evt domain.Event) []domain.Delivery {
	var deliveries []domain.Delivery
	r.registry.ForEachExcept(except, func(p domain.Participant) {
		deliveries = append(deliveries, domain.Delivery{To: p.Address, Event: evt})
	})
	return deliveries
}
