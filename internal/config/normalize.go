// internal/config/normalize.go
package config

import (
	"runtime"
	"strings"

	"github.com/tamzrod/deskheight/internal/status"
)

const (
	DefaultBaudRate      = 9600
	DefaultDataBits      = 8
	DefaultStopBits      = 1
	DefaultParity        = "N"
	DefaultReadTimeoutMs = 100
	DefaultStaleAfterMs  = 10000
	DefaultListen        = ":9150"
	DefaultMetricsPath   = "/metrics"
	DefaultGaugeName     = "desk_height"
	DefaultStreamPath    = "/ws"
	HeightPath           = "/height"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultTargetScale   = 10
	DefaultTargetTimeout = 2000
)

// DefaultDevicePath is the serial device used when none is configured.
func DefaultDevicePath() string {
	switch runtime.GOOS {
	case "windows":
		return "COM1"
	case "darwin":
		return "/dev/tty.usbserial"
	default:
		return "/dev/ttyS0"
	}
}

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Device
	if d.Path == "" {
		d.Path = DefaultDevicePath()
	}
	if d.BaudRate == 0 {
		d.BaudRate = DefaultBaudRate
	}
	if d.DataBits == 0 {
		d.DataBits = DefaultDataBits
	}
	if d.StopBits == 0 {
		d.StopBits = DefaultStopBits
	}
	d.Parity = strings.ToUpper(d.Parity)
	if d.Parity == "" {
		d.Parity = DefaultParity
	}
	if d.ReadTimeoutMs == 0 {
		d.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if d.StaleAfterMs == 0 {
		d.StaleAfterMs = DefaultStaleAfterMs
	}
	// ASCII already validated; truncate to what the status block can hold
	if len(d.Name) > status.DeviceNameMaxChars {
		d.Name = d.Name[:status.DeviceNameMaxChars]
	}

	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultListen
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.GaugeName == "" {
		cfg.Metrics.GaugeName = DefaultGaugeName
	}
	if cfg.Stream.Path == "" {
		cfg.Stream.Path = DefaultStreamPath
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	for i := range cfg.Targets {
		t := &cfg.Targets[i]
		if t.Protocol == "" {
			t.Protocol = ProtocolModbus
		}
		if t.Scale == 0 {
			t.Scale = DefaultTargetScale
		}
		if t.TimeoutMs == 0 {
			t.TimeoutMs = DefaultTargetTimeout
		}
	}
}
