// internal/framer/framer.go
package framer

import (
	"errors"
	"io"
	"os"
)

// Framer extracts packets from a byte stream one byte at a time.
// State survives between ReadPacket calls so a frame split across reads
// is resumed. A Framer is not safe for concurrent use.
type Framer struct {
	r        io.Reader
	state    State
	validate bool
	buf      [1]byte
}

// Option configures a Framer.
type Option func(*Framer)

// WithChecksumValidation enables CRC16/MODBUS checking of every frame.
// Without it checksum bytes are consumed and discarded.
func WithChecksumValidation() Option {
	return func(f *Framer) {
		f.validate = true
	}
}

// New wraps r. The Framer owns r from here on.
func New(r io.Reader, opts ...Option) *Framer {
	f := &Framer{r: r}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a copy of the current parser state.
func (f *Framer) State() State {
	s := f.state
	s.Payload = append([]byte(nil), f.state.Payload...)
	return s
}

// ReadPacket blocks until one frame is complete and returns its payload.
//
// Zero-byte reads and read timeouts are retried without touching the state.
// A read length outside 0..1 is UnknownRead.
// Framing failures are returned as *Error with the state reset to WaitStart,
// so the next call resynchronises on the next START byte. Any other reader
// error is returned unchanged.
func (f *Framer) ReadPacket() ([]byte, error) {
	for {
		n, err := f.r.Read(f.buf[:])

		switch {
		case n > 1, n < 0:
			stage := f.state.Stage
			f.reset()
			return nil, &Error{Kind: KindUnknownRead, Stage: stage, N: n}

		case n == 1:
			pkt, done, ferr := f.feed(f.buf[0])
			if ferr != nil {
				return nil, ferr
			}
			if done {
				return pkt, nil
			}
			if err != nil && !isTimeout(err) {
				return nil, err
			}

		case err == nil, isTimeout(err):
			continue

		default:
			return nil, err
		}
	}
}

func (f *Framer) feed(b byte) ([]byte, bool, error) {
	next, err := Next(f.state, b)
	if err != nil {
		f.reset()
		return nil, false, err
	}
	if next.Stage != End {
		f.state = next
		return nil, false, nil
	}

	f.reset()
	if f.validate {
		if err := verify(next); err != nil {
			return nil, false, err
		}
	}
	return next.Payload, true, nil
}

func (f *Framer) reset() {
	f.state = State{Stage: WaitStart}
}

// isTimeout reports whether err only means "no byte yet".
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
