// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/deskheight/internal/poller"
	"github.com/tamzrod/deskheight/internal/status"
)

// endpointClient is the exact contract the writers use.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
	Close() error
}

type heightWriter struct {
	plan    Plan
	clients map[string]endpointClient
}

// New returns a Writer that replicates height readings into every target.
func New(plan Plan, clients map[string]endpointClient) Writer {
	return &heightWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write delivers one reading. Only height readings are written; the
// register keeps its last value otherwise (last-write-wins).
func (w *heightWriter) Write(res poller.Reading) error {
	if res.Kind != poller.KindHeight {
		return nil
	}

	var errs []string

	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.key()]
		if cli == nil {
			errs = append(errs, fmt.Sprintf(
				"writer: missing client for endpoint %s",
				tgt.Endpoint,
			))
			continue
		}

		reg := status.HeightRegister(res.Height, tgt.Scale)
		if err := cli.WriteRegisters(tgt.UnitID, tgt.Address, []uint16{reg}); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: target=%s ep=%s unit=%d addr=%d err=%v",
				tgt.ID, tgt.Endpoint, tgt.UnitID, tgt.Address, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}
