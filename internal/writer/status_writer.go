// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/deskheight/internal/status"
)

// StatusWriter is the delivery-only contract for desk status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// deviceStatusWriter writes one status block into one target.
type deviceStatusWriter struct {
	target string
	plan   *StatusPlan
	cli    endpointClient

	needFull bool
	last     status.Snapshot
}

// multiStatusWriter fans a snapshot out to every status-enabled target.
type multiStatusWriter struct {
	writers []*deviceStatusWriter
}

// NewStatusWriter builds a status writer over all targets that opted in.
// It reports false when no target has a status block.
func NewStatusWriter(plan Plan, clients map[string]endpointClient) (StatusWriter, bool) {
	var m multiStatusWriter
	for _, t := range plan.Targets {
		if t.Status == nil {
			continue
		}
		m.writers = append(m.writers, newDeviceStatusWriter(t, clients[t.key()]))
	}
	if len(m.writers) == 0 {
		return nil, false
	}
	return &m, true
}

func (m *multiStatusWriter) WriteStatus(s status.Snapshot) error {
	var errs []string
	for _, w := range m.writers {
		if err := w.WriteStatus(s); err != nil {
			errs = append(errs, fmt.Sprintf("target=%s: %v", w.target, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

func newDeviceStatusWriter(t Target, cli endpointClient) *deviceStatusWriter {
	return &deviceStatusWriter{
		target:   t.ID,
		plan:     t.Status,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		last:     status.Snapshot{Health: status.HealthUnknown},
	}
}

// WriteStatus delivers a snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for target %s", sw.target)
	}

	baseAddr := sw.baseAddr()
	unitID := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		regs := status.Encode(s, sw.plan.DeviceName)

		if err := sw.cli.WriteRegisters(unitID, baseAddr, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: one register per changed slot
	// ------------------------------------------------------------
	slots := []struct {
		name string
		slot uint16
		cur  *uint16
		next uint16
	}{
		{"health", status.SlotHealthCode, &sw.last.Health, s.Health},
		{"last_error", status.SlotLastErrorCode, &sw.last.LastErrorCode, s.LastErrorCode},
		{"seconds_in_error", status.SlotSecondsInError, &sw.last.SecondsInError, s.SecondsInError},
		{"height", status.SlotHeight, &sw.last.HeightX10, s.HeightX10},
	}

	var errs []string
	for _, sl := range slots {
		if *sl.cur == sl.next {
			continue
		}
		if err := sw.cli.WriteRegisters(unitID, baseAddr+sl.slot, []uint16{sl.next}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		*sl.cur = sl.next
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next write.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each desk owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}
