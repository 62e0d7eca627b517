// internal/serialport/port.go
package serialport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/serial"
)

// Config is the serial line setup for the desk controller.
type Config struct {
	Path        string
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      string // N, E or O
	ReadTimeout time.Duration
}

// Port is a desk serial line with read timeouts reported as empty reads.
// Closing the port unblocks a pending Read with an error.
type Port struct {
	path string
	rwc  io.ReadWriteCloser

	once     sync.Once
	closeErr error
}

// Open opens the serial device. One attempt, no retries.
func Open(cfg Config) (*Port, error) {
	if cfg.Path == "" {
		return nil, errors.New("serialport: path required")
	}

	p, err := serial.Open(&serial.Config{
		Address:  cfg.Path,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.Path, err)
	}

	return newPort(cfg.Path, p), nil
}

func newPort(path string, rwc io.ReadWriteCloser) *Port {
	return &Port{path: path, rwc: rwc}
}

// Path returns the device path.
func (p *Port) Path() string { return p.path }

// Read implements io.Reader. A driver timeout yields (n, nil).
func (p *Port) Read(b []byte) (int, error) {
	n, err := p.rwc.Read(b)
	if errors.Is(err, serial.ErrTimeout) {
		return n, nil
	}
	return n, err
}

// Close releases the device. Safe to call more than once.
func (p *Port) Close() error {
	p.once.Do(func() {
		p.closeErr = p.rwc.Close()
	})
	return p.closeErr
}
