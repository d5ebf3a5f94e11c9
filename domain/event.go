package domain

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"
)

// ServerName is the author used for relay-originated messages.
const ServerName Name = "server"

// Kind is the wire tag of an event.
type Kind int32

const (
	KindLogin Kind = iota + 1
	KindChat
	KindQuit
)

func (k Kind) String() string {
	switch k {
	case KindLogin:
		return "login"
	case KindChat:
		return "chat"
	case KindQuit:
		return "quit"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

func (k Kind) Valid() bool {
	return k >= KindLogin && k <= KindQuit
}

// Event is one of Login, Chat or Quit.
type Event interface {
	Kind() Kind
	Author() Name
	Body() Text
}

type Login struct {
	Name Name
}

func (Login) Kind() Kind     { return KindLogin }
func (l Login) Author() Name { return l.Name }
func (Login) Body() Text     { return "" }

type Chat struct {
	Name Name
	Text Text
}

func (Chat) Kind() Kind     { return KindChat }
func (c Chat) Author() Name { return c.Name }
func (c Chat) Body() Text   { return c.Text }

// Quit carries the departing participant's last text, which is relayed as-is.
type Quit struct {
	Name Name
	Text Text
}

func (Quit) Kind() Kind     { return KindQuit }
func (q Quit) Author() Name { return q.Name }
func (q Quit) Body() Text   { return q.Text }

// NewEvent builds the event matching kind, applying the name and text bounds.
func NewEvent(kind Kind, name, text string) (Event, bool) {
	switch kind {
	case KindLogin:
		return Login{Name: NewName(name)}, true
	case KindChat:
		return Chat{Name: NewName(name), Text: NewText(text)}, true
	case KindQuit:
		return Quit{Name: NewName(name), Text: NewText(text)}, true
	default:
		return nil, false
	}
}

// ServerChat is a relay-originated chat message.
func ServerChat(text string) Chat {
	return Chat{Name: ServerName, Text: NewText(text)}
}

// LoginAnnouncement is what present participants receive when name logs in.
func LoginAnnouncement(name Name) Chat {
	return ServerChat(fmt.Sprintf("%s login!", name))
}

// Envelope is an inbound event together with its sender.
type Envelope struct {
	ID         uuid.UUID
	From       netip.AddrPort
	Event      Event
	ReceivedAt time.Time
}

func NewEnvelope(from netip.AddrPort, evt Event) Envelope {
	return Envelope{
		ID:         uuid.New(),
		From:       from,
		Event:      evt,
		ReceivedAt: time.Now().UTC(),
	}
}

// Delivery is one outbound send decided by the router.
type Delivery struct {
	To    netip.AddrPort
	Event Event
}
