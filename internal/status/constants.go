// internal/status/constants.go
package status

// Desk Status Block layout constants.
// These values define the register layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per status block.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the desk health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last framing/decode error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds how long (seconds) the desk has not been OK.
const SlotSecondsInError = 2

// SlotHeight holds the last height, times ten.
const SlotHeight = 3

// ---- RESERVED RANGE ----

// Slots 4-10 are reserved.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// The name always sits at the END of the block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for the name.
const DeviceNameMaxChars = 16

// MaxSecondsInError is where the seconds counter saturates.
const MaxSecondsInError = 65535

// ---- HEALTH CODES ----

// HealthUnknown is the boot state, before the first packet.
const HealthUnknown uint16 = 0

// HealthOK means the last packet was a valid height report.
const HealthOK uint16 = 1

// HealthError means the last packet failed framing or decoding.
const HealthError uint16 = 2

// HealthStale means no height report arrived for longer than the stale window.
const HealthStale uint16 = 3

// HealthDeviceOff means the line idles at zero: the desk is unpowered.
const HealthDeviceOff uint16 = 4
