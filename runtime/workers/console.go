package workers

import (
	"bufio"
	"chat-relay/contract"
	"chat-relay/observability"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
)

const whoCommand = "/who"

// ConsoleWorker is the operator duty: every line typed on the relay console
// is broadcast to all participants as a server message.
// It only reads the registry.
type ConsoleWorker struct {
	log       *slog.Logger
	input     io.Reader
	output    io.Writer
	transport contract.Transport
	router    contract.IRouter
	registry  contract.IRegistry
	stats     *observability.RelayStats

	startOnce sync.Once
	stopOnce  sync.Once
	stopped   chan struct{}
	scanDone  chan struct{}
	lines     chan string
	readErr   chan error
}

func NewConsoleWorker(log *slog.Logger, input io.Reader, output io.Writer,
	transport contract.Transport, router contract.IRouter, registry contract.IRegistry,
	stats *observability.RelayStats) *ConsoleWorker {
	return &ConsoleWorker{
		log:       log,
		input:     input,
		output:    output,
		transport: transport,
		router:    router,
		registry:  registry,
		stats:     stats,
		stopped:   make(chan struct{}),
		scanDone:  make(chan struct{}),
		lines:     make(chan string),
		readErr:   make(chan error, 1),
	}
}

// Run returns nil once the input is exhausted: the relay keeps routing
// without a console.
func (w *ConsoleWorker) Run(ctx context.Context) error {
	// The reader goroutine survives restarts so no line is read twice.
	w.startOnce.Do(func() { go w.scan() })

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping console")
			w.stopOnce.Do(func() { close(w.stopped) })
			return ctx.Err()
		case err := <-w.readErr:
			if err != nil {
				w.log.Warn("Console input failed", "error", err)
			} else {
				w.log.Info("Console input closed, server broadcasts disabled")
			}
			return nil
		case line := <-w.lines:
			w.handle(ctx, line)
		}
	}
}

// scan gives up as soon as the worker is stopped, a line read after that
// point is discarded.
func (w *ConsoleWorker) scan() {
	defer close(w.scanDone)
	scanner := bufio.NewScanner(w.input)
	for scanner.Scan() {
		select {
		case w.lines <- scanner.Text():
		case <-w.stopped:
			return
		}
	}
	w.readErr <- scanner.Err()
}

func (w *ConsoleWorker) handle(ctx context.Context, line string) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case line == "":
		return
	case isCommand(line, whoCommand):
		w.printParticipants()
	default:
		w.stats.IncrBroadcasts()
		deliver(ctx, w.log, w.transport, w.stats, w.router.Broadcast(line))
	}
}

// isCommand matches the first word only, so "/whoami" is a plain broadcast.
func isCommand(line, command string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == command
}

func (w *ConsoleWorker) printParticipants() {
	participants := w.registry.Participants()

	table := tablewriter.NewWriter(w.output)
	table.SetHeader([]string{"#", "Name", "Address"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	for i, p := range participants {
		table.Append([]string{fmt.Sprint(i + 1), string(p.Name), p.Address.String()})
	}
	table.Render()
	_, _ = fmt.Fprintf(w.output, "%d participant(s)\n", len(participants))
}
