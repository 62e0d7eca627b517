// internal/poller/types.go
package poller

import "time"

// HeightReportTag is the packet type byte of a height report.
const HeightReportTag byte = 0x12

// heightReportLen is tag + three display cells.
const heightReportLen = 4

// Kind classifies one poll outcome.
type Kind uint8

const (
	KindHeight    Kind = iota + 1 // valid height report
	KindNoData                    // height report with blank display
	KindIgnored                   // some other packet type
	KindDeviceOff                 // idle line at zero
	KindError                     // framing, decode or I/O failure
)

func (k Kind) String() string {
	switch k {
	case KindHeight:
		return "height"
	case KindNoData:
		return "no_data"
	case KindIgnored:
		return "ignored"
	case KindDeviceOff:
		return "device_off"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Reading is the outcome of one poll cycle.
type Reading struct {
	At     time.Time
	Kind   Kind
	Height float64 // valid only for KindHeight
	Packet []byte  // raw payload when a frame was read
	Err    error   // non-nil for KindDeviceOff and KindError
}
