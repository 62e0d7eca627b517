// internal/framer/state.go
package framer

const (
	StartByte byte = 0x9B
	EndByte   byte = 0x9D

	// ChecksumLen is the number of checksum bytes between payload and END.
	ChecksumLen = 2

	// overhead is what LENGTH counts besides the payload: itself plus the checksum.
	overhead = 1 + ChecksumLen

	// MinLength is the smallest LENGTH that still carries one payload byte.
	MinLength = overhead + 1

	// MaxPayload is the largest payload a one-byte LENGTH can declare.
	MaxPayload = 0xFF - overhead
)

// Stage tags the variant of State.
type Stage uint8

const (
	WaitStart Stage = iota
	WaitLength
	WaitBody
	WaitChecksum
	WaitEnd
	End
)

func (s Stage) String() string {
	switch s {
	case WaitStart:
		return "WaitStart"
	case WaitLength:
		return "WaitLength"
	case WaitBody:
		return "WaitBody"
	case WaitChecksum:
		return "WaitChecksum"
	case WaitEnd:
		return "WaitEnd"
	case End:
		return "End"
	default:
		return "Stage(?)"
	}
}

// State is the parser state carried between reads.
//
// Length is the declared LENGTH byte, set on entry to WaitBody.
// Payload is only non-empty from WaitBody onwards.
// SumSeen counts checksum bytes consumed, in [0, ChecksumLen].
type State struct {
	Stage   Stage
	Length  int
	Payload []byte
	Sum     [ChecksumLen]byte
	SumSeen int
}

// Next is the pure transition function: given a state and one input byte
// it returns the following state or a framing error. The caller resets to
// WaitStart after End and after any error.
func Next(s State, b byte) (State, error) {
	switch s.Stage {
	case WaitStart:
		switch b {
		case StartByte:
			return State{Stage: WaitLength}, nil
		case 0x00:
			return State{}, &Error{Kind: KindDeviceOff, Stage: WaitStart, Byte: b}
		default:
			return State{}, &Error{Kind: KindMalformedFrame, Stage: WaitStart, Byte: b}
		}

	case WaitLength:
		if int(b) < MinLength {
			return State{}, &Error{Kind: KindMalformedFrame, Stage: WaitLength, Byte: b}
		}
		return State{
			Stage:   WaitBody,
			Length:  int(b),
			Payload: make([]byte, 0, int(b)-overhead),
		}, nil

	case WaitBody:
		s.Payload = append(s.Payload, b)
		if len(s.Payload) >= s.Length-overhead {
			s.Stage = WaitChecksum
			s.SumSeen = 0
		}
		return s, nil

	case WaitChecksum:
		s.Sum[s.SumSeen] = b
		s.SumSeen++
		if s.SumSeen >= ChecksumLen {
			s.Stage = WaitEnd
		}
		return s, nil

	case WaitEnd:
		if b != EndByte {
			return State{}, &Error{Kind: KindMalformedFrame, Stage: WaitEnd, Byte: b}
		}
		s.Stage = End
		return s, nil

	default:
		// End is terminal; the framer never feeds it.
		return State{}, &Error{Kind: KindMalformedFrame, Stage: s.Stage, Byte: b}
	}
}
