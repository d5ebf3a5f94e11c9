package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrTransportFault = fmt.Errorf("transport fault")
	ErrShortDatagram  = fmt.Errorf("datagram shorter than message size")
	ErrUnknownKind    = fmt.Errorf("unknown message type")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
)

// IsPanic reports whether err comes from a recovered worker panic.
func IsPanic(err error) bool {
	return stderrors.Is(err, ErrWorkerPanic)
}
