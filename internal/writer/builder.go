// internal/writer/builder.go
package writer

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/deskheight/internal/config"
	"github.com/tamzrod/deskheight/internal/writer/ingest"
	wmodbus "github.com/tamzrod/deskheight/internal/writer/modbus"
)

// BuildPlan converts the target configs into a write plan.
// Assumes config has already passed Validate and Normalize.
func BuildPlan(c cfg.Config) Plan {
	var plan Plan

	for _, t := range c.Targets {
		tg := Target{
			ID:       t.ID,
			Protocol: t.Protocol,
			Endpoint: t.Endpoint,
			UnitID:   t.UnitID,
			Address:  t.Address,
			Scale:    t.Scale,
		}
		if t.StatusSlot != nil && t.StatusUnitID != nil {
			tg.Status = &StatusPlan{
				UnitID:     *t.StatusUnitID,
				BaseSlot:   *t.StatusSlot,
				DeviceName: c.Device.Name,
			}
		}
		plan.Targets = append(plan.Targets, tg)
	}

	return plan
}

// BuildEndpointClients creates one client per unique protocol + endpoint.
func BuildEndpointClients(c cfg.Config) (map[string]endpointClient, func() error, error) {
	clients := make(map[string]endpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for _, t := range BuildPlan(c).Targets {
		k := t.key()
		if _, ok := clients[k]; ok {
			continue
		}

		timeout := time.Duration(timeoutFor(c, t.ID)) * time.Millisecond

		var (
			cli endpointClient
			err error
		)
		switch t.Protocol {
		case cfg.ProtocolIngest:
			cli, err = ingest.NewEndpointClient(ingest.Config{Endpoint: t.Endpoint, Timeout: timeout})
		case cfg.ProtocolModbus:
			cli, err = wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: t.Endpoint, Timeout: timeout})
		default:
			err = fmt.Errorf("writer: unknown protocol %q", t.Protocol)
		}
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("target %q: %w", t.ID, err)
		}

		clients[k] = cli
		closers = append(closers, cli.Close)
	}

	return clients, closeAll, nil
}

func timeoutFor(c cfg.Config, id string) int {
	for _, t := range c.Targets {
		if t.ID == id {
			return t.TimeoutMs
		}
	}
	return cfg.DefaultTargetTimeout
}
