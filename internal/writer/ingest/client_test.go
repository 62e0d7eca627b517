// internal/writer/ingest/client_test.go
package ingest

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacket_MarshalBinary(t *testing.T) {
	pkt, err := Packet{Area: AreaHoldingRegisters, UnitID: 1, Address: 40, Registers: []uint16{725}}.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		'R', 'I', 0x01, 0x03,
		0x00, 0x01,
		0x00, 0x28,
		0x00, 0x01,
		0x02, 0xD5,
	}, pkt)
}

func TestPacket_MarshalBinaryRange(t *testing.T) {
	_, err := Packet{Address: 0}.MarshalBinary()
	assert.ErrorIs(t, err, ErrRange)

	_, err = Packet{Address: 0xFFFF, Registers: []uint16{1, 2}}.MarshalBinary()
	assert.ErrorIs(t, err, ErrRange)

	_, err = Packet{Registers: make([]uint16, MaxRegisters+1)}.MarshalBinary()
	assert.ErrorIs(t, err, ErrRange)
}

// serveOnce accepts one connection, captures the packet and answers status.
func serveOnce(t *testing.T, status Status, want int) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, want)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		got <- buf
		_, _ = conn.Write([]byte{byte(status)})
	}()
	return ln.Addr().String(), got
}

func TestWriteRegisters_OK(t *testing.T) {
	addr, got := serveOnce(t, StatusOK, HeaderLen+2)

	c, err := NewEndpointClient(Config{Endpoint: addr})
	require.NoError(t, err)
	require.NoError(t, c.WriteRegisters(2, 7, []uint16{1234}))

	want, err := Packet{Area: AreaHoldingRegisters, UnitID: 2, Address: 7, Registers: []uint16{1234}}.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, want, <-got)
}

func TestWriteRegisters_Rejected(t *testing.T) {
	addr, _ := serveOnce(t, StatusRejected, HeaderLen+2)

	c, err := NewEndpointClient(Config{Endpoint: addr})
	require.NoError(t, err)
	assert.ErrorIs(t, c.WriteRegisters(2, 7, []uint16{1}), ErrRejected)
}

func TestWriteRegisters_UnknownStatus(t *testing.T) {
	addr, _ := serveOnce(t, Status(0x7F), HeaderLen+2)

	c, err := NewEndpointClient(Config{Endpoint: addr})
	require.NoError(t, err)
	err = c.WriteRegisters(2, 7, []uint16{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status 0x7f")
}

func TestWriteRegisters_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: 200 * time.Millisecond})
	require.NoError(t, err)
	assert.Error(t, c.WriteRegisters(1, 0, []uint16{1}))
}

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	_, err := NewEndpointClient(Config{})
	assert.Error(t, err)
}
