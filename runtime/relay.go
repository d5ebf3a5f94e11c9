// Package runtime wires the participant registry, the router and the workers
// that move datagrams in and out of the relay.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
	"context"
	"io"
	"log/slog"
	"time"
)

// Relay owns the registry and runs both relay duties under one supervisor:
// receive-and-route, and operator console broadcasts.
type Relay struct {
	log               *slog.Logger
	transport         contract.Transport
	registry          *Registry
	router            *Router
	stats             *observability.RelayStats
	supervisor        *workers.Supervisor
	console           io.Reader
	consoleOutput     io.Writer
	heartbeatInterval time.Duration
}

type Options struct {
	StrictMembership  bool
	RestartInterval   time.Duration
	HeartbeatInterval time.Duration
	// Console is the operator input. Nil disables server broadcasts.
	Console       io.Reader
	ConsoleOutput io.Writer
}

func NewRelay(log *slog.Logger, transport contract.Transport, opts Options) *Relay {
	registry := NewRegistry()
	output := opts.ConsoleOutput
	if output == nil {
		output = io.Discard
	}
	return &Relay{
		log:               log,
		transport:         transport,
		registry:          registry,
		router:            NewRouter(log, registry, opts.StrictMembership),
		stats:             observability.NewRelayStats(),
		supervisor:        workers.NewSupervisor(log, opts.RestartInterval),
		console:           opts.Console,
		consoleOutput:     output,
		heartbeatInterval: opts.HeartbeatInterval,
	}
}

// Run blocks until ctx is cancelled or a worker hits a fatal transport fault.
func (r *Relay) Run(ctx context.Context) error {
	r.supervisor.Add(workers.NewReceiverWorker(r.log, r.transport, r.router, r.stats))
	if r.console != nil {
		r.supervisor.Add(workers.NewConsoleWorker(r.log, r.console, r.consoleOutput,
			r.transport, r.router, r.registry, r.stats))
	}
	r.supervisor.Add(workers.NewHeartbeatWorker(r.log, r.heartbeatInterval, r.registry, r.stats))

	r.log.Info("Starting relay and all supervised workers")
	return r.supervisor.Run(ctx)
}

// Stop cancels every worker; Run returns once they are done.
func (r *Relay) Stop() {
	r.supervisor.Stop()
}

func (r *Relay) Registry() contract.IRegistry {
	return r.registry
}

func (r *Relay) Stats() observability.Snapshot {
	return r.stats.Snapshot()
}
