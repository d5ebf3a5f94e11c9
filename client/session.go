// Package client is the terminal side of the chat: it logs in, sends what the
// user types and prints what the relay forwards.
package client

import (
	"bufio"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/infrastructure/udp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"strings"
)

const quitCommand = "quit"

type Session struct {
	log       *slog.Logger
	transport contract.Transport
	server    netip.AddrPort
	printer   *Printer
}

func NewSession(log *slog.Logger, transport contract.Transport, server netip.AddrPort, printer *Printer) *Session {
	return &Session{log: log, transport: transport, server: server, printer: printer}
}

// ReadName prompts for the login name and reads one line from input.
func (s *Session) ReadName(input *bufio.Reader) (domain.Name, error) {
	s.printer.Prompt("please input login name>>")
	line, err := input.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read login name: %w", err)
	}
	return domain.NewName(strings.TrimRight(line, "\r\n")), nil
}

// Run logs in as name, then sends every input line until the user types
// "quit" or the input ends. Relayed messages are printed concurrently.
func (s *Session) Run(ctx context.Context, name domain.Name, input *bufio.Reader) error {
	if err := s.send(ctx, domain.Login{Name: name}); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.log.Info("Logged in", "server", s.server, "name", name)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	received := make(chan error, 1)
	go func() { received <- s.receive(ctx) }()

	sent := make(chan error, 1)
	go func() { sent <- s.sendLines(ctx, name, input) }()

	select {
	case err := <-sent:
		// Let the receiver drain before returning; Receive unblocks on cancel.
		cancel()
		if recvErr := <-received; err == nil {
			err = recvErr
		}
		return err
	case err := <-received:
		// The sender may be blocked on the terminal and is left behind.
		return err
	}
}

func (s *Session) sendLines(ctx context.Context, name domain.Name, input *bufio.Reader) error {
	for {
		line, err := input.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read input: %w", err)
		}
		text := strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(text, quitCommand) {
			return s.send(ctx, domain.Quit{Name: name, Text: domain.NewText(text)})
		}
		if text != "" {
			if sendErr := s.send(ctx, domain.Chat{Name: name, Text: domain.NewText(text)}); sendErr != nil {
				s.log.Warn("Send failed", "error", sendErr)
			}
		}
		if err == io.EOF {
			return s.send(ctx, domain.Quit{Name: name, Text: quitCommand})
		}
	}
}

func (s *Session) receive(ctx context.Context) error {
	for {
		payload, from, err := s.transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		evt, err := udp.Decode(payload)
		if err != nil {
			s.log.Warn("Dropping malformed datagram", "from", from, "error", err)
			continue
		}
		s.printer.Print(evt)
	}
}

func (s *Session) send(ctx context.Context, evt domain.Event) error {
	return s.transport.Send(ctx, s.server, udp.Encode(evt))
}
