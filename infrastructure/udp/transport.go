package udp

import (
	"chat-relay/errors"
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"
)

// Transport moves raw datagrams over a single UDP socket.
// net.UDPConn is safe for concurrent use, so the receive and console workers share it.
type Transport struct {
	conn       *net.UDPConn
	bufferSize int
}

// Listen binds a UDP socket on address ("host:port").
func Listen(address string, bufferSize int) (*Transport, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", errors.ErrTransportFault, address, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: bind %s: %w", errors.ErrTransportFault, address, err)
	}
	return NewTransport(conn, bufferSize), nil
}

// Dial opens an unbound client socket. Datagrams still go through Send with
// an explicit destination so the client and relay share one code path.
func Dial(bufferSize int) (*Transport, error) {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: socket: %w", errors.ErrTransportFault, err)
	}
	return NewTransport(conn, bufferSize), nil
}

func NewTransport(conn *net.UDPConn, bufferSize int) *Transport {
	if bufferSize < MessageSize {
		bufferSize = MessageSize
	}
	return &Transport{conn: conn, bufferSize: bufferSize}
}

// Receive blocks until a datagram arrives or ctx is done.
func (t *Transport) Receive(ctx context.Context) ([]byte, netip.AddrPort, error) {
	if err := t.conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, netip.AddrPort{}, fmt.Errorf("%w: reset deadline: %w", errors.ErrTransportFault, err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = t.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, t.bufferSize)
	n, from, err := t.conn.ReadFromUDPAddrPort(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, netip.AddrPort{}, ctx.Err()
		}
		return nil, netip.AddrPort{}, fmt.Errorf("%w: receive: %w", errors.ErrTransportFault, err)
	}
	return buf[:n], unmap(from), nil
}

// Send writes one datagram. UDP gives no delivery feedback beyond local errors.
func (t *Transport) Send(ctx context.Context, to netip.AddrPort, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.conn.WriteToUDPAddrPort(payload, to); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}

func (t *Transport) LocalAddr() netip.AddrPort {
	return unmap(t.conn.LocalAddr().(*net.UDPAddr).AddrPort())
}

func (t *Transport) Close() error {
	return t.conn.Close()
}

// unmap folds IPv4-mapped IPv6 addresses so the same peer always has one key.
func unmap(addr netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(addr.Addr().Unmap(), addr.Port())
}
