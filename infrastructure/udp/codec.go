package udp

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/errors"
	"encoding/binary"
	"fmt"
)

// Layout of the fixed-size datagram: a little-endian int32 type followed by
// two NUL-terminated byte arrays.
const (
	kindSize    = 4
	nameSize    = domain.MaxNameLength + 1
	textSize    = domain.MaxTextLength + 1
	nameOffset  = kindSize
	textOffset  = nameOffset + nameSize
	MessageSize = textOffset + textSize
)

// Encode renders an event into a MessageSize datagram.
func Encode(evt domain.Event) []byte {
	buf := make([]byte, MessageSize)
	binary.LittleEndian.PutUint32(buf[:kindSize], uint32(evt.Kind()))
	copy(buf[nameOffset:nameOffset+nameSize-1], string(domain.NewName(string(evt.Author()))))
	copy(buf[textOffset:textOffset+textSize-1], string(domain.NewText(string(evt.Body()))))
	return buf
}

// Decode parses a datagram. Bytes past MessageSize are ignored, the way a
// fixed-size read would discard them.
func Decode(payload []byte) (domain.Event, error) {
	if len(payload) < MessageSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", errors.ErrShortDatagram, len(payload), MessageSize)
	}
	kind := domain.Kind(int32(binary.LittleEndian.Uint32(payload[:kindSize])))
	name := cString(payload[nameOffset : nameOffset+nameSize])
	text := cString(payload[textOffset : textOffset+textSize])

	evt, ok := domain.NewEvent(kind, name, text)
	if !ok {
		return nil, fmt.Errorf("%w: %d", errors.ErrUnknownKind, int32(kind))
	}
	return evt, nil
}

// cString returns the bytes before the first NUL. A field without terminator is
// taken whole and left to the domain bounds to truncate.
func cString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	return string(field)
}
