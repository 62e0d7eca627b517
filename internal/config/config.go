// internal/config/config.go
package config

type Config struct {
	Device  DeviceConfig   `yaml:"device" toml:"device"`
	Metrics MetricsConfig  `yaml:"metrics" toml:"metrics"`
	Stream  StreamConfig   `yaml:"stream" toml:"stream"`
	Log     LogConfig      `yaml:"log" toml:"log"`
	Targets []TargetConfig `yaml:"targets" toml:"targets"`
}

// ---- DEVICE (serial line) ----

type DeviceConfig struct {
	Path          string `yaml:"path" toml:"path"`
	BaudRate      int    `yaml:"baud_rate" toml:"baud_rate"`
	DataBits      int    `yaml:"data_bits" toml:"data_bits"`
	StopBits      int    `yaml:"stop_bits" toml:"stop_bits"`
	Parity        string `yaml:"parity" toml:"parity"` // N, E, O
	ReadTimeoutMs int    `yaml:"read_timeout_ms" toml:"read_timeout_ms"`

	// StaleAfterMs marks the height stale when no report arrives for this long.
	StaleAfterMs int `yaml:"stale_after_ms" toml:"stale_after_ms"`

	// Checksum validation is opt-in; the desk's checksum is trusted by default.
	ValidateChecksum bool `yaml:"validate_checksum" toml:"validate_checksum"`

	// Name is written into target status blocks (ASCII, max 16 chars).
	Name string `yaml:"name" toml:"name"`
}

// ---- METRICS / HTTP ----

type MetricsConfig struct {
	Listen    string `yaml:"listen" toml:"listen"`
	Path      string `yaml:"path" toml:"path"`
	GaugeName string `yaml:"gauge_name" toml:"gauge_name"`
}

// ---- LIVE STREAM ----

type StreamConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// ---- LOGGING ----

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // console, json
}

// ---- TARGET ----

// TargetConfig is one remote register memory the height is replicated into.
type TargetConfig struct {
	ID        string  `yaml:"id" toml:"id"`
	Protocol  string  `yaml:"protocol" toml:"protocol"` // modbus, ingest
	Endpoint  string  `yaml:"endpoint" toml:"endpoint"`
	UnitID    uint8   `yaml:"unit_id" toml:"unit_id"`
	Address   uint16  `yaml:"address" toml:"address"` // height holding register
	Scale     float64 `yaml:"scale" toml:"scale"`     // register = round(height * scale)
	TimeoutMs int     `yaml:"timeout_ms" toml:"timeout_ms"`

	// Device status block (optional, opt-in)
	StatusUnitID *uint8  `yaml:"status_unit_id" toml:"status_unit_id"`
	StatusSlot   *uint16 `yaml:"status_slot" toml:"status_slot"`
}

const (
	ProtocolModbus = "modbus"
	ProtocolIngest = "ingest"
)
