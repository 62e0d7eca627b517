// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
device:
  path: /dev/ttyUSB0
  validate_checksum: true
  name: standing-desk
metrics:
  listen: 127.0.0.1:9150
stream:
  enabled: true
targets:
  - id: plc
    endpoint: 10.0.0.5:502
    unit_id: 1
    address: 40
    status_unit_id: 2
    status_slot: 0
`

const tomlConfig = `
[device]
path = "COM3"
baud_rate = 19200
parity = "e"

[log]
level = "DEBUG"
format = "json"

[[targets]]
id = "hmi"
protocol = "ingest"
endpoint = "hmi.local:9000"
address = 3
scale = 1.0
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "desk.yaml", yamlConfig))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Device.Path)
	assert.True(t, cfg.Device.ValidateChecksum)
	assert.Equal(t, 9600, cfg.Device.BaudRate)
	assert.Equal(t, "N", cfg.Device.Parity)
	assert.Equal(t, 100, cfg.Device.ReadTimeoutMs)
	assert.Equal(t, 10000, cfg.Device.StaleAfterMs)
	assert.Equal(t, "127.0.0.1:9150", cfg.Metrics.Listen)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "desk_height", cfg.Metrics.GaugeName)
	assert.Equal(t, "/ws", cfg.Stream.Path)

	require.Len(t, cfg.Targets, 1)
	tg := cfg.Targets[0]
	assert.Equal(t, ProtocolModbus, tg.Protocol)
	assert.Equal(t, uint16(40), tg.Address)
	assert.Equal(t, float64(10), tg.Scale)
	assert.Equal(t, 2000, tg.TimeoutMs)
	require.NotNil(t, tg.StatusSlot)
	assert.Equal(t, uint16(0), *tg.StatusSlot)
}

func TestLoad_TOML(t *testing.T) {
	cfg, err := Load(writeFile(t, "desk.toml", tomlConfig))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, "COM3", cfg.Device.Path)
	assert.Equal(t, 19200, cfg.Device.BaudRate)
	assert.Equal(t, "E", cfg.Device.Parity)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, ProtocolIngest, cfg.Targets[0].Protocol)
	assert.Equal(t, float64(1), cfg.Targets[0].Scale)
}

func TestLoad_UnknownKeysRejected(t *testing.T) {
	_, err := Load(writeFile(t, "desk.yaml", "device:\n  baud: 9600\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "desk.toml", "[device]\nbaud = 9600\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNormalize_DefaultsAndTruncation(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Name: "a-very-long-desk-name-indeed"}}
	Normalize(cfg)

	assert.Equal(t, DefaultDevicePath(), cfg.Device.Path)
	assert.Equal(t, 8, cfg.Device.DataBits)
	assert.Equal(t, 1, cfg.Device.StopBits)
	assert.Len(t, cfg.Device.Name, 16)
	assert.Equal(t, ":9150", cfg.Metrics.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestNormalize_Nil(t *testing.T) {
	Normalize(nil)
}

func TestLoad_EmptyYAMLIsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "desk.yml", ""))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
}

func TestLoad_ShippedExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "desk.yaml"))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	Normalize(cfg)
	assert.Equal(t, "DESK-01", cfg.Device.Name)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, ProtocolModbus, cfg.Targets[0].Protocol)
	assert.Equal(t, uint16(10), *cfg.Targets[0].StatusSlot)
}
