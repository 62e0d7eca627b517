// internal/framer/errors.go
package framer

import "fmt"

// Kind classifies a framing failure.
type Kind uint8

const (
	KindDeviceOff Kind = iota + 1
	KindMalformedFrame
	KindUnknownRead
	KindChecksumMismatch
)

// Sentinels for errors.Is. I/O failures from the reader are not wrapped
// and never match these.
var (
	ErrDeviceOff        = &Error{Kind: KindDeviceOff}
	ErrMalformedFrame   = &Error{Kind: KindMalformedFrame}
	ErrUnknownRead      = &Error{Kind: KindUnknownRead}
	ErrChecksumMismatch = &Error{Kind: KindChecksumMismatch}
)

// Error is a typed framing failure.
type Error struct {
	Kind  Kind
	Stage Stage // stage the offending byte arrived in
	Byte  byte
	N     int // read length (UnknownRead) or received checksum (ChecksumMismatch)
	Want  int // computed checksum (ChecksumMismatch)
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDeviceOff:
		return "framer: device is turned off"
	case KindMalformedFrame:
		return fmt.Sprintf("framer: malformed frame: unexpected byte 0x%02X in %s", e.Byte, e.Stage)
	case KindUnknownRead:
		return fmt.Sprintf("framer: invalid read length %d", e.N)
	case KindChecksumMismatch:
		return fmt.Sprintf("framer: checksum mismatch: got 0x%04X want 0x%04X", e.N, e.Want)
	default:
		return "framer: unknown error"
	}
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Code is the status-block error code for this failure.
func (e *Error) Code() uint16 {
	switch e.Kind {
	case KindDeviceOff:
		return 10
	case KindMalformedFrame:
		return 11
	case KindUnknownRead:
		return 12
	case KindChecksumMismatch:
		return 13
	default:
		return 1
	}
}
