// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/deskheight/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are allowed where Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	d := cfg.Device
	if d.BaudRate < 0 {
		return fmt.Errorf("device: baud_rate must be > 0")
	}
	if d.DataBits != 0 && (d.DataBits < 5 || d.DataBits > 8) {
		return fmt.Errorf("device: data_bits must be 5..8, got %d", d.DataBits)
	}
	if d.StopBits != 0 && d.StopBits != 1 && d.StopBits != 2 {
		return fmt.Errorf("device: stop_bits must be 1 or 2, got %d", d.StopBits)
	}
	switch strings.ToUpper(d.Parity) {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("device: parity must be N, E or O, got %q", d.Parity)
	}
	if d.ReadTimeoutMs < 0 {
		return fmt.Errorf("device: read_timeout_ms must be >= 0")
	}
	if d.StaleAfterMs < 0 {
		return fmt.Errorf("device: stale_after_ms must be >= 0")
	}
	for i := 0; i < len(d.Name); i++ {
		if d.Name[i] > 0x7F {
			return fmt.Errorf("device: name must contain ASCII characters only")
		}
	}

	// ------------------------------------------------------------
	// HTTP
	// ------------------------------------------------------------

	if p := cfg.Metrics.Path; p != "" && !strings.HasPrefix(p, "/") {
		return fmt.Errorf("metrics: path must start with /, got %q", p)
	}
	if p := cfg.Stream.Path; p != "" && !strings.HasPrefix(p, "/") {
		return fmt.Errorf("stream: path must start with /, got %q", p)
	}
	if cfg.Stream.Enabled {
		sp := orDefault(cfg.Stream.Path, DefaultStreamPath)
		if sp == orDefault(cfg.Metrics.Path, DefaultMetricsPath) || sp == HeightPath {
			return fmt.Errorf("stream: path %q collides with another route", sp)
		}
	}
	if orDefault(cfg.Metrics.Path, DefaultMetricsPath) == HeightPath {
		return fmt.Errorf("metrics: path %q is reserved", HeightPath)
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log: format must be console or json, got %q", cfg.Log.Format)
	}

	// ------------------------------------------------------------
	// TARGETS
	// ------------------------------------------------------------

	type span struct {
		start  uint16
		end    uint16
		target string
	}

	ids := make(map[string]struct{})

	// key = endpoint | unit_id
	spans := make(map[string][]span)

	claim := func(key string, s span) error {
		for _, o := range spans[key] {
			// overlap check (inclusive)
			if !(s.end < o.start || s.start > o.end) {
				return fmt.Errorf(
					"register overlap: %s range=%d-%d (target %q) overlaps range=%d-%d (target %q)",
					key, s.start, s.end, s.target, o.start, o.end, o.target,
				)
			}
		}
		spans[key] = append(spans[key], s)
		return nil
	}

	for i, t := range cfg.Targets {
		if t.ID == "" {
			return fmt.Errorf("targets[%d]: id required", i)
		}
		if _, dup := ids[t.ID]; dup {
			return fmt.Errorf("targets[%d]: duplicate id %q", i, t.ID)
		}
		ids[t.ID] = struct{}{}

		if t.Endpoint == "" {
			return fmt.Errorf("target %q: endpoint required", t.ID)
		}
		switch t.Protocol {
		case "", ProtocolModbus, ProtocolIngest:
		default:
			return fmt.Errorf("target %q: unknown protocol %q", t.ID, t.Protocol)
		}
		if t.Scale < 0 {
			return fmt.Errorf("target %q: scale must be >= 0", t.ID)
		}
		if t.TimeoutMs < 0 {
			return fmt.Errorf("target %q: timeout_ms must be >= 0", t.ID)
		}

		key := fmt.Sprintf("%s|%d", t.Endpoint, t.UnitID)
		if err := claim(key, span{start: t.Address, end: t.Address, target: t.ID}); err != nil {
			return err
		}

		// status is opt-in; both fields or neither
		if (t.StatusSlot == nil) != (t.StatusUnitID == nil) {
			return fmt.Errorf("target %q: status_slot and status_unit_id must be set together", t.ID)
		}
		if t.StatusSlot == nil {
			continue
		}

		base := uint32(*t.StatusSlot) * status.SlotsPerDevice
		if base+status.SlotsPerDevice-1 > 0xFFFF {
			return fmt.Errorf("target %q: status_slot %d out of register range", t.ID, *t.StatusSlot)
		}

		skey := fmt.Sprintf("%s|%d", t.Endpoint, *t.StatusUnitID)
		if err := claim(skey, span{
			start:  uint16(base),
			end:    uint16(base + status.SlotsPerDevice - 1),
			target: t.ID,
		}); err != nil {
			return fmt.Errorf("status block: %w", err)
		}
	}

	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
