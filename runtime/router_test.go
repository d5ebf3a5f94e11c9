package runtime

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/mocks"
	"log/slog"
	"net/netip"
	"sync"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(strict bool) (*Router, *Registry) {
	registry := NewRegistry()
	return NewRouter(logs.GetLoggerFromLevel(slog.LevelDebug), registry, strict), registry
}

func login(from netip.AddrPort, name string) domain.Envelope {
	return domain.NewEnvelope(from, domain.Login{Name: domain.NewName(name)})
}

func chat(from netip.AddrPort, name, text string) domain.Envelope {
	return domain.NewEnvelope(from, domain.Chat{Name: domain.NewName(name), Text: domain.NewText(text)})
}

func quit(from netip.AddrPort, name string) domain.Envelope {
	return domain.NewEnvelope(from, domain.Quit{Name: domain.NewName(name), Text: "quit"})
}

func recipients(deliveries []domain.Delivery) []netip.AddrPort {
	res := make([]netip.AddrPort, 0, len(deliveries))
	for _, d := range deliveries {
		res = append(res, d.To)
	}
	return res
}

func TestRouter_First_Login_Sends_Nothing(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(false)

	deliveries := router.Route(login(addr(1), "alice"))

	req.Empty(deliveries)
	req.True(registry.Contains(addr(1)))
}

func TestRouter_Login_Is_Announced_To_Others_Only(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(false)
	router.Route(login(addr(1), "alice"))
	router.Route(login(addr(2), "bob"))

	// When clara logs in
	deliveries := router.Route(login(addr(3), "clara"))

	// Then alice and bob are told, clara is not
	req.Equal([]netip.AddrPort{addr(1), addr(2)}, recipients(deliveries))
	for _, d := range deliveries {
		req.Equal(domain.Chat{Name: domain.ServerName, Text: "clara login!"}, d.Event)
	}
	req.Equal(3, registry.Len())
}

func TestRouter_Relogin_Does_Not_Announce_To_Itself(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(false)
	router.Route(login(addr(1), "alice"))
	router.Route(login(addr(2), "bob"))

	// When alice's address logs in again
	deliveries := router.Route(login(addr(1), "alicia"))

	// Then only bob hears about it and no duplicate entry exists
	req.Equal([]netip.AddrPort{addr(2)}, recipients(deliveries))
	req.Equal(2, registry.Len())
}

func TestRouter_Chat_Scenario(t *testing.T) {
	req := require.New(t)
	router, _ := newRouter(false)
	alice, bob := addr(1), addr(2)

	// Given alice then bob log in
	req.Empty(router.Route(login(alice, "alice")))
	bobLogin := router.Route(login(bob, "bob"))

	// Then alice, and only alice, receives bob's announcement
	req.Equal([]domain.Delivery{{To: alice, Event: domain.Chat{Name: "server", Text: "bob login!"}}}, bobLogin)

	// When alice says hi
	deliveries := router.Route(chat(alice, "alice", "hi"))

	// Then bob receives it verbatim and alice receives nothing
	req.Equal([]domain.Delivery{{To: bob, Event: domain.Chat{Name: "alice", Text: "hi"}}}, deliveries)
}

func TestRouter_Quit_Removes_Then_Notifies_Remaining(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(false)
	router.Route(login(addr(1), "alice"))
	router.Route(login(addr(2), "bob"))
	router.Route(login(addr(3), "clara"))

	// When bob quits
	deliveries := router.Route(quit(addr(2), "bob"))

	// Then bob is gone and alice and clara get his quit payload
	req.False(registry.Contains(addr(2)))
	req.Equal([]netip.AddrPort{addr(1), addr(3)}, recipients(deliveries))
	req.Equal(domain.Quit{Name: "bob", Text: "quit"}, deliveries[0].Event)
}

func TestRouter_Quit_Twice_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(false)
	router.Route(login(addr(1), "alice"))
	router.Route(login(addr(2), "bob"))

	router.Route(quit(addr(2), "bob"))
	once := registry.Participants()
	router.Route(quit(addr(2), "bob"))

	req.Equal(once, registry.Participants())
}

func TestRouter_Chat_After_Quit_Reaches_Nobody(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(false)

	// Given alice logs in and quits
	router.Route(login(addr(1), "alice"))
	req.Empty(router.Route(quit(addr(1), "alice")))
	req.Zero(registry.Len())

	// When alice chats anyway
	deliveries := router.Route(chat(addr(1), "alice", "x"))

	// Then nobody is targeted
	req.Empty(deliveries)
}

func TestRouter_Unknown_Sender_Is_Routed_When_Permissive(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(false)
	router.Route(login(addr(1), "alice"))

	deliveries := router.Route(chat(addr(9), "mallory", "hello"))

	req.Equal([]netip.AddrPort{addr(1)}, recipients(deliveries))
	req.False(registry.Contains(addr(9)))
}

func TestRouter_Unknown_Sender_Is_Dropped_When_Strict(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(true)
	router.Route(login(addr(1), "alice"))

	req.Empty(router.Route(chat(addr(9), "mallory", "hello")))
	req.Empty(router.Route(quit(addr(9), "mallory")))
	req.Equal(1, registry.Len())
}

func TestRouter_Broadcast_Reaches_Everyone(t *testing.T) {
	req := require.New(t)
	router, _ := newRouter(false)
	router.Route(login(addr(1), "alice"))
	router.Route(login(addr(2), "bob"))

	deliveries := router.Broadcast("maintenance at noon")

	req.Equal([]netip.AddrPort{addr(1), addr(2)}, recipients(deliveries))
	req.Equal(domain.Chat{Name: "server", Text: "maintenance at noon"}, deliveries[1].Event)
}

func TestRouter_Quit_Removes_Before_Traversal(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	router := NewRouter(logs.GetLoggerFromLevel(slog.LevelDebug), registry, false)

	// Then removal happens strictly before the notification traversal
	gomock.InOrder(
		registry.EXPECT().Remove(addr(1)).Return(true),
		registry.EXPECT().Len().Return(0),
		registry.EXPECT().ForEach(gomock.Any()),
	)

	// When alice quits
	router.Route(quit(addr(1), "alice"))
}

func TestRouter_Broadcast_Concurrent_With_Route(t *testing.T) {
	req := require.New(t)
	router, registry := newRouter(false)
	var wg sync.WaitGroup
	var foreign int
	wg.Add(2)

	// Given the receive duty churning logins, chats and quits
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			from := addr(uint16(i%50 + 1))
			router.Route(login(from, "user"))
			router.Route(chat(from, "user", "hello"))
			if i%3 == 0 {
				router.Route(quit(from, "user"))
			}
		}
	}()

	// And the console duty broadcasting at the same time
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			for _, d := range router.Broadcast("notice") {
				if d.Event.Author() != domain.ServerName {
					foreign++
				}
			}
		}
	}()
	wg.Wait()
	req.Zero(foreign)

	// Then every address is present at most once
	seen := make(map[netip.AddrPort]struct{})
	for _, p := range registry.Participants() {
		_, duplicate := seen[p.Address]
		req.False(duplicate, "duplicate address %s", p.Address)
		seen[p.Address] = struct{}{}
	}
	req.Equal(len(seen), registry.Len())
}

func TestRouter_Logs_Constant_Messages(t *testing.T) {
	req := require.New(t)
	output := &bytes.Buffer{}
	registry := NewRegistry()
	router := NewRouter(slog.New(slog.NewJSONHandler(output, nil)), registry, false)
	router.Route(login(addr(1), "alice"))

	// When alice chats and the operator broadcasts
	router.Route(chat(addr(1), "alice", "hi"))
	router.Broadcast("maintenance")

	// Then the message stays constant and the data lives in attributes
	logged := output.String()
	req.Contains(logged, `"msg":"Chat relayed"`)
	req.Contains(logged, `"name":"alice","text":"hi"`)
	req.Contains(logged, `"msg":"Server broadcast","name":"server","text":"maintenance"`)
	req.NotContains(logged, "alice said hi")
}
