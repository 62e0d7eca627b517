// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxRegisters is the FC16 per-request register limit.
const MaxRegisters = 123

// defaultIdleTimeout drops the TCP connection between sparse desk updates.
const defaultIdleTimeout = time.Minute

var ErrRange = errors.New("writer modbus: register range out of bounds")

// EndpointClient writes holding registers into one Modbus TCP target.
//
// The connection is opened on first write and reopened after a failed
// one, so a target that is down at startup does not stop the daemon.
// Requests are serialized because SlaveId is set per write.
type EndpointClient struct {
	endpoint string

	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type Config struct {
	Endpoint    string
	Timeout     time.Duration
	IdleTimeout time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.IdleTimeout = cfg.IdleTimeout

	return &EndpointClient{
		endpoint: cfg.Endpoint,
		handler:  h,
		client:   modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteRegisters writes holding registers (FC16).
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}
	if err := CheckRange(addr, len(regs)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID

	if _, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), PackRegisters(regs)); err != nil {
		// next write dials again
		_ = c.handler.Close()
		return fmt.Errorf("writer modbus: %s unit=%d addr=%d: %w", c.endpoint, unitID, addr, err)
	}
	return nil
}

// CheckRange rejects writes that exceed FC16 limits or wrap the
// 16-bit address space.
func CheckRange(addr uint16, n int) error {
	if n > MaxRegisters {
		return fmt.Errorf("%w: %d registers (max %d)", ErrRange, n, MaxRegisters)
	}
	if int(addr)+n-1 > 0xFFFF {
		return fmt.Errorf("%w: addr=%d count=%d", ErrRange, addr, n)
	}
	return nil
}

// PackRegisters lays registers out big-endian, Modbus memory order.
func PackRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
