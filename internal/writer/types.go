// internal/writer/types.go
package writer

import "github.com/tamzrod/deskheight/internal/poller"

// StatusPlan places a desk status block inside a target's register memory.
type StatusPlan struct {
	UnitID     uint8
	BaseSlot   uint16 // block starts at BaseSlot * status.SlotsPerDevice
	DeviceName string
}

// Target is one remote register memory the height is replicated into.
type Target struct {
	ID       string
	Protocol string
	Endpoint string
	UnitID   uint8
	Address  uint16
	Scale    float64

	Status *StatusPlan // nil = status disabled for this target
}

// key identifies the shared client for a target.
func (t Target) key() string {
	return t.Protocol + "://" + t.Endpoint
}

// Plan is the fully-built write plan.
type Plan struct {
	Targets []Target
}

// Writer writes readings into targets.
type Writer interface {
	Write(res poller.Reading) error
}
