// internal/writer/ingest/client.go
package ingest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// Raw Ingest v1 framing.
const (
	Magic        = "RI"
	HeaderLen    = 10
	MaxRegisters = 125

	Version byte = 0x01

	// AreaHoldingRegisters is the only memory area the desk writes.
	AreaHoldingRegisters byte = 3
)

// Status is the one-byte reply to a packet.
type Status byte

const (
	StatusOK       Status = 0x00
	StatusRejected Status = 0x01
)

var (
	ErrRejected = errors.New("writer ingest: rejected")
	ErrRange    = errors.New("writer ingest: register range out of bounds")
)

// Packet is one holding-register write.
type Packet struct {
	Area      byte
	UnitID    uint8
	Address   uint16
	Registers []uint16
}

// MarshalBinary lays out the packet.
//
//	0-1  Magic "RI"
//	2    Version (0x01)
//	3    Area
//	4-5  UnitID
//	6-7  Address
//	8-9  Count
//	10+  Registers, big-endian
func (p Packet) MarshalBinary() ([]byte, error) {
	n := len(p.Registers)
	if n == 0 || n > MaxRegisters || int(p.Address)+n-1 > 0xFFFF {
		return nil, fmt.Errorf("%w: addr=%d count=%d", ErrRange, p.Address, n)
	}

	out := make([]byte, HeaderLen+2*n)
	copy(out[0:2], Magic)
	out[2] = Version
	out[3] = p.Area
	binary.BigEndian.PutUint16(out[4:6], uint16(p.UnitID))
	binary.BigEndian.PutUint16(out[6:8], p.Address)
	binary.BigEndian.PutUint16(out[8:10], uint16(n))
	for i, r := range p.Registers {
		binary.BigEndian.PutUint16(out[HeaderLen+2*i:], r)
	}
	return out, nil
}

// EndpointClient speaks Raw Ingest v1: stateless, one packet per connection.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
	dial     func(network, address string, timeout time.Duration) (net.Conn, error)
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		dial:     net.DialTimeout,
	}, nil
}

func (c *EndpointClient) Close() error { return nil }

// WriteRegisters sends one holding-register write and waits for the reply.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}

	pkt, err := Packet{
		Area:      AreaHoldingRegisters,
		UnitID:    unitID,
		Address:   addr,
		Registers: regs,
	}.MarshalBinary()
	if err != nil {
		return err
	}

	conn, err := c.dial("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("writer ingest: dial %s: %w", c.endpoint, err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))
	if _, err := conn.Write(pkt); err != nil {
		return fmt.Errorf("writer ingest: write: %w", err)
	}

	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("writer ingest: read status: %w", err)
	}

	switch Status(resp[0]) {
	case StatusOK:
		return nil
	case StatusRejected:
		return fmt.Errorf("%w: unit=%d addr=%d count=%d", ErrRejected, unitID, addr, len(regs))
	default:
		return fmt.Errorf("writer ingest: unknown status 0x%02x", resp[0])
	}
}
