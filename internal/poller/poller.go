// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/deskheight/internal/digit"
	"github.com/tamzrod/deskheight/internal/framer"
)

// PacketReader is what the poller needs from the framer.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	// ErrorBackoff is slept after a reader I/O failure so a broken line
	// does not spin. Zero disables it.
	ErrorBackoff time.Duration

	// Coalesce makes Run keep only the newest unconsumed reading in out.
	Coalesce bool
}

// Poller turns packets into readings. It owns its PacketReader.
type Poller struct {
	cfg Config
	src PacketReader
	now func() time.Time
}

// New creates a poller.
func New(cfg Config, src PacketReader) (*Poller, error) {
	if src == nil {
		return nil, errors.New("poller: packet reader required")
	}
	if cfg.ErrorBackoff < 0 {
		return nil, errors.New("poller: error backoff must be >= 0")
	}
	return &Poller{cfg: cfg, src: src, now: time.Now}, nil
}

// PollOnce reads exactly one packet (or one failure) and classifies it.
func (p *Poller) PollOnce() Reading {
	pkt, err := p.src.ReadPacket()
	res := Reading{At: p.now()}

	if err != nil {
		res.Err = err
		if errors.Is(err, framer.ErrDeviceOff) {
			res.Kind = KindDeviceOff
		} else {
			res.Kind = KindError
		}
		return res
	}

	res.Packet = pkt
	if len(pkt) != heightReportLen || pkt[0] != HeightReportTag {
		res.Kind = KindIgnored
		return res
	}

	cells := [3]byte{pkt[1], pkt[2], pkt[3]}
	if cells == [3]byte{} {
		res.Kind = KindNoData
		return res
	}

	h, err := digit.Decode(cells)
	if err != nil {
		res.Kind = KindError
		res.Err = err
		return res
	}

	res.Kind = KindHeight
	res.Height = h
	return res
}
