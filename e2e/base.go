package e2e

import (
	"chat-relay/domain"
	"chat-relay/infrastructure/udp"
	"chat-relay/runtime"
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// BaseRelaySuite starts a real relay on loopback UDP for every test.
type BaseRelaySuite struct {
	suite.Suite
	Config Config

	relay     *runtime.Relay
	transport *udp.Transport
	done      chan error
	clients   []*Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseRelaySuite) SetupTest() {
	transport, err := udp.Listen(fmt.Sprintf("%s:0", s.Config.RelayHost), 0)
	s.Require().NoError(err)
	s.transport = transport
	s.relay = runtime.NewRelay(logs.GetLoggerFromLevel(slog.LevelDebug), transport, runtime.Options{
		RestartInterval: 50 * time.Millisecond,
	})
	s.done = make(chan error, 1)
	go func() { s.done <- s.relay.Run(context.Background()) }()
}

func (s *BaseRelaySuite) TearDownTest() {
	for _, c := range s.clients {
		c.close()
	}
	s.clients = nil
	s.relay.Stop()
	select {
	case err := <-s.done:
		s.NoError(err)
	case <-time.After(s.Config.Timeout):
		s.Fail("relay did not stop")
	}
	_ = s.transport.Close()
}

// Step prints a colorized header for a scenario step in the test logs
func (s *BaseRelaySuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Client opens a UDP socket that talks to the relay under test.
func (s *BaseRelaySuite) Client(name string) *Client {
	transport, err := udp.Dial(0)
	s.Require().NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		suite:     s,
		name:      domain.NewName(name),
		transport: transport,
		inbox:     make(chan domain.Event, 16),
		cancel:    cancel,
	}
	go c.listen(ctx)
	s.clients = append(s.clients, c)
	return c
}

func (s *BaseRelaySuite) RelayAddr() netip.AddrPort {
	return s.transport.LocalAddr()
}

// Registry exposes the participants of the relay under test.
func (s *BaseRelaySuite) Registry() []domain.Participant {
	return s.relay.Registry().Participants()
}

type Client struct {
	suite     *BaseRelaySuite
	name      domain.Name
	transport *udp.Transport
	inbox     chan domain.Event
	cancel    context.CancelFunc
}

func (c *Client) listen(ctx context.Context) {
	for {
		payload, _, err := c.transport.Receive(ctx)
		if err != nil {
			return
		}
		evt, err := udp.Decode(payload)
		if err != nil {
			continue
		}
		if c.suite.Config.DebugDatagrams {
			c.suite.T().Logf("%s <- %s %s: %s", c.name, evt.Kind(), evt.Author(), evt.Body())
		}
		c.inbox <- evt
	}
}

func (c *Client) Send(evt domain.Event) {
	if c.suite.Config.DebugDatagrams {
		c.suite.T().Logf("%s -> %s %s: %s", c.name, evt.Kind(), evt.Author(), evt.Body())
	}
	err := c.transport.Send(context.Background(), c.suite.RelayAddr(), udp.Encode(evt))
	c.suite.Require().NoError(err)
}

// SendRaw sends bytes that may not be a valid datagram.
func (c *Client) SendRaw(payload []byte) {
	err := c.transport.Send(context.Background(), c.suite.RelayAddr(), payload)
	c.suite.Require().NoError(err)
}

func (c *Client) Login()            { c.Send(domain.Login{Name: c.name}) }
func (c *Client) Say(text string)   { c.Send(domain.Chat{Name: c.name, Text: domain.NewText(text)}) }
func (c *Client) Quit()             { c.Send(domain.Quit{Name: c.name, Text: "quit"}) }
func (c *Client) Name() domain.Name { return c.name }

// Expect waits for the next relayed event and checks it.
func (c *Client) Expect(want domain.Event) {
	select {
	case got := <-c.inbox:
		c.suite.Equal(want, got, "unexpected event for %s", c.name)
	case <-time.After(c.suite.Config.Timeout):
		c.suite.Failf("missing event", "%s never received %v", c.name, want)
	}
}

// ExpectNothing checks no event arrives within wait.
func (c *Client) ExpectNothing(wait time.Duration) {
	select {
	case got := <-c.inbox:
		c.suite.Failf("unexpected event", "%s received %v", c.name, got)
	case <-time.After(wait):
	}
}

func (c *Client) close() {
	c.cancel()
	_ = c.transport.Close()
}

// WaitForParticipants blocks until the relay has registered n participants.
func (s *BaseRelaySuite) WaitForParticipants(n int) {
	s.Require().Eventually(func() bool {
		return len(s.Registry()) == n
	}, s.Config.Timeout, 10*time.Millisecond, "relay never reached %d participants", n)
}
