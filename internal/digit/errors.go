// internal/digit/errors.go
package digit

import "fmt"

// Kind classifies a decode failure.
type Kind uint8

const (
	KindDigitParse Kind = iota + 1
	KindInvalidDecimalPoint
)

// Sentinels for errors.Is. Concrete failures are *Error values carrying the
// offending byte and cell.
var (
	ErrDigitParse          = &Error{Kind: KindDigitParse}
	ErrInvalidDecimalPoint = &Error{Kind: KindInvalidDecimalPoint}
)

// Error is a seven-segment decode failure.
type Error struct {
	Kind Kind
	Byte byte
	Cell int
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDigitParse:
		return fmt.Sprintf("digit: invalid segment byte 0x%02X in cell %d", e.Byte, e.Cell)
	case KindInvalidDecimalPoint:
		return fmt.Sprintf("digit: decimal point on cell %d (byte 0x%02X)", e.Cell, e.Byte)
	default:
		return "digit: unknown error"
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
	case KindDigitParse:
		return 20
	case KindInvalidDecimalPoint:
		return 21
	default:
		return 1
	}
}
