// internal/status/status_test.go
package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode_Layout(t *testing.T) {
	regs := Encode(Snapshot{
		Health:         HealthOK,
		LastErrorCode:  11,
		SecondsInError: 3,
		HeightX10:      725,
	}, "DESK-01")

	assert.Len(t, regs, SlotsPerDevice)
	assert.Equal(t, HealthOK, regs[SlotHealthCode])
	assert.Equal(t, uint16(11), regs[SlotLastErrorCode])
	assert.Equal(t, uint16(3), regs[SlotSecondsInError])
	assert.Equal(t, uint16(725), regs[SlotHeight])

	for i := SlotReservedStart; i <= SlotReservedEnd; i++ {
		assert.Zero(t, regs[i], "reserved slot %d", i)
	}

	assert.Equal(t, uint16('D')<<8|uint16('E'), regs[SlotDeviceNameStart])
	assert.Equal(t, uint16('1')<<8, regs[SlotDeviceNameStart+3])
	assert.Zero(t, regs[SlotDeviceNameEnd])
}

func TestEncodeDeviceName_SanitizeAndTruncate(t *testing.T) {
	regs := EncodeDeviceName("a\x01cdefghijklmnopqrstuvwxyz")
	assert.Len(t, regs, SlotDeviceNameSlots)
	assert.Equal(t, uint16('a')<<8|uint16('?'), regs[0])
	assert.Equal(t, uint16('o')<<8|uint16('p'), regs[7])
}

func TestHeightRegister(t *testing.T) {
	assert.Equal(t, uint16(725), HeightRegister(72.5, 10))
	assert.Equal(t, uint16(123), HeightRegister(123, 1))
	assert.Equal(t, uint16(0), HeightRegister(-1, 10))
	assert.Equal(t, uint16(65535), HeightRegister(1e9, 10))
}

func TestHealthName(t *testing.T) {
	assert.Equal(t, "device_off", HealthName(HealthDeviceOff))
	assert.Equal(t, "invalid", HealthName(99))
}
