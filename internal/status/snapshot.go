// internal/status/snapshot.go
package status

import "math"

// Snapshot is exactly what status consumers are allowed to see.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
	HeightX10      uint16
}

// HeightRegister scales a height into a register value, clamped to uint16.
func HeightRegister(height, scale float64) uint16 {
	v := math.Round(height * scale)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(v)
	}
}

// HealthName is the label used in logs, metrics and the stream.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	case HealthDeviceOff:
		return "device_off"
	default:
		return "invalid"
	}
}
