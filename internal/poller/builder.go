// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/deskheight/internal/config"
	"github.com/tamzrod/deskheight/internal/framer"
	"github.com/tamzrod/deskheight/internal/serialport"
)

// errorBackoff throttles reads on a failing line.
const errorBackoff = 500 * time.Millisecond

// Build opens the desk's serial line and wires framer and poller on top.
// The port is opened once; the poller never re-opens it.
// The returned closer releases the port, which also unblocks Run.
func Build(c cfg.Config) (*Poller, func() error, error) {
	port, err := serialport.Open(serialport.Config{
		Path:        c.Device.Path,
		BaudRate:    c.Device.BaudRate,
		DataBits:    c.Device.DataBits,
		StopBits:    c.Device.StopBits,
		Parity:      c.Device.Parity,
		ReadTimeout: time.Duration(c.Device.ReadTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	var opts []framer.Option
	if c.Device.ValidateChecksum {
		opts = append(opts, framer.WithChecksumValidation())
	}

	p, err := New(
		Config{
			ErrorBackoff: errorBackoff,
			Coalesce:     true,
		},
		framer.New(port, opts...),
	)
	if err != nil {
		_ = port.Close()
		return nil, nil, err
	}

	return p, port.Close, nil
}
