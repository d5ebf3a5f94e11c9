//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"net/netip"
	"reflect"
)

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Transport receives and sends whole datagrams.
type Transport interface {
	Receive(ctx context.Context) ([]byte, netip.AddrPort, error)
	Send(ctx context.Context, to netip.AddrPort, payload []byte) error
}

type IRegistry interface {
	Insert(p domain.Participant) bool
	Remove(address netip.AddrPort) bool
	Contains(address netip.AddrPort) bool
	ForEach(fn func(domain.Participant))
	ForEachExcept(address netip.AddrPort, fn func(domain.Participant))
	Participants() []domain.Participant
	Len() int
}

type IRouter interface {
	Route(envelope domain.Envelope) []domain.Delivery
	Broadcast(text string) []domain.Delivery
}
