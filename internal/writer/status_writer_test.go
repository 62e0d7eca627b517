// internal/writer/status_writer_test.go
package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/deskheight/internal/status"
)

func statusPlan(cli endpointClient) (Plan, map[string]endpointClient) {
	plan := Plan{
		Targets: []Target{
			{
				ID:       "plc",
				Protocol: "modbus",
				Endpoint: "status-endpoint",
				Status: &StatusPlan{
					UnitID:     1,
					BaseSlot:   2,
					DeviceName: "DESK-01",
				},
			},
		},
	}
	return plan, map[string]endpointClient{"modbus://status-endpoint": cli}
}

func TestStatusWriter_DisabledWithoutStatusTargets(t *testing.T) {
	_, enabled := NewStatusWriter(Plan{Targets: []Target{{ID: "x"}}}, nil)
	assert.False(t, enabled)
}

func TestStatusWriter_FullAssertThenIncremental(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan, clients := statusPlan(cli)

	sw, enabled := NewStatusWriter(plan, clients)
	require.True(t, enabled)

	// ---- first write: FULL ASSERT ----
	first := status.Snapshot{Health: status.HealthOK, HeightX10: 725}
	require.NoError(t, sw.WriteStatus(first))

	require.Len(t, cli.writes, 1)
	full := cli.last()
	assert.Equal(t, uint16(2*status.SlotsPerDevice), full.addr)
	assert.Equal(t, status.Encode(first, "DESK-01"), full.regs)

	// ---- second write: INCREMENTAL ONLY ----
	second := status.Snapshot{Health: status.HealthError, LastErrorCode: 11, HeightX10: 725}
	require.NoError(t, sw.WriteStatus(second))

	require.Len(t, cli.writes, 3)
	for _, w := range cli.writes[1:] {
		assert.Len(t, w.regs, 1, "device name must not be rewritten")
	}
	assert.Equal(t, uint16(40+status.SlotHealthCode), cli.writes[1].addr)
	assert.Equal(t, uint16(40+status.SlotLastErrorCode), cli.writes[2].addr)

	// ---- unchanged snapshot: nothing written ----
	require.NoError(t, sw.WriteStatus(second))
	assert.Len(t, cli.writes, 3)
}

func TestStatusWriter_SecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan, clients := statusPlan(cli)

	sw, _ := NewStatusWriter(plan, clients)

	require.NoError(t, sw.WriteStatus(status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  11,
		SecondsInError: 3,
	}))
	require.NoError(t, sw.WriteStatus(status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  11,
		SecondsInError: 0,
	}))

	got := cli.last()
	assert.Equal(t, uint16(40+status.SlotSecondsInError), got.addr)
	assert.Equal(t, []uint16{0}, got.regs)
}

func TestStatusWriter_FailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan, clients := statusPlan(cli)

	sw, _ := NewStatusWriter(plan, clients)
	require.NoError(t, sw.WriteStatus(status.Snapshot{Health: status.HealthOK}))

	cli.fail = true
	assert.Error(t, sw.WriteStatus(status.Snapshot{Health: status.HealthDeviceOff}))

	cli.fail = false
	require.NoError(t, sw.WriteStatus(status.Snapshot{Health: status.HealthDeviceOff}))
	assert.Len(t, cli.last().regs, status.SlotsPerDevice)
}

func TestStatusWriter_MissingClient(t *testing.T) {
	plan, _ := statusPlan(nil)
	sw, enabled := NewStatusWriter(plan, map[string]endpointClient{})
	require.True(t, enabled)
	assert.Error(t, sw.WriteStatus(status.Snapshot{}))
}
