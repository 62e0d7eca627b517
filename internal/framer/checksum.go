// internal/framer/checksum.go
package framer

import "github.com/sigurn/crc16"

// The desk sends CRC16/MODBUS over LENGTH and payload, high byte first.
var modbusTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// Checksum computes the frame checksum for a declared length and payload.
func Checksum(length byte, payload []byte) uint16 {
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, length)
	buf = append(buf, payload...)
	return crc16.Checksum(buf, modbusTable)
}

func verify(s State) error {
	got := uint16(s.Sum[0])<<8 | uint16(s.Sum[1])
	want := Checksum(byte(s.Length), s.Payload)
	if got != want {
		return &Error{Kind: KindChecksumMismatch, Stage: WaitEnd, N: int(got), Want: int(want)}
	}
	return nil
}

// Encode builds a complete wire frame around payload.
// It panics if the payload cannot be described by a one-byte LENGTH.
func Encode(payload []byte) []byte {
	if len(payload) == 0 || len(payload) > MaxPayload {
		panic("framer: payload length out of range")
	}
	length := byte(len(payload) + overhead)
	sum := Checksum(length, payload)

	out := make([]byte, 0, len(payload)+5)
	out = append(out, StartByte, length)
	out = append(out, payload...)
	out = append(out, byte(sum>>8), byte(sum), EndByte)
	return out
}
