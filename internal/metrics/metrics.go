// internal/metrics/metrics.go
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/deskheight/internal/digit"
	"github.com/tamzrod/deskheight/internal/framer"
	"github.com/tamzrod/deskheight/internal/poller"
)

const namespace = "deskheight"

// Metrics owns a private registry so independent instances never collide.
type Metrics struct {
	reg *prometheus.Registry

	height     prometheus.Gauge
	health     prometheus.Gauge
	lastHeight prometheus.Gauge
	packets    *prometheus.CounterVec
	errs       *prometheus.CounterVec
}

// New builds and registers all collectors. gaugeName is the height gauge,
// desk_height unless configured otherwise.
func New(gaugeName string) (*Metrics, error) {
	if gaugeName == "" {
		return nil, errors.New("metrics: gauge name required")
	}

	m := &Metrics{
		reg: prometheus.NewRegistry(),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: gaugeName,
			Help: "Current tabletop height as shown on the desk display.",
		}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "device_health",
			Help:      "Desk health code: 0 unknown, 1 ok, 2 error, 3 stale, 4 device off.",
		}),
		lastHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_height_timestamp_seconds",
			Help:      "Unix time of the last valid height report.",
		}),
		packets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "packets_total",
				Help:      "Poll outcomes by result.",
			},
			[]string{"result"},
		),
		errs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Framing, decoding and I/O failures by kind.",
			},
			[]string{"kind"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.height, m.health, m.lastHeight, m.packets, m.errs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// SetHeight sets the height gauge. Last write wins.
func (m *Metrics) SetHeight(v float64) {
	m.height.Set(v)
}

// SetHealth publishes the status health code.
func (m *Metrics) SetHealth(h uint16) {
	m.health.Set(float64(h))
}

// Observe counts one poll outcome. It does not touch the height gauge.
func (m *Metrics) Observe(r poller.Reading) {
	m.packets.WithLabelValues(r.Kind.String()).Inc()

	switch r.Kind {
	case poller.KindHeight:
		m.lastHeight.Set(float64(r.At.UnixNano()) / 1e9)
	case poller.KindError:
		m.errs.WithLabelValues(ErrorKind(r.Err)).Inc()
	}
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ErrorKind is the errors_total label for err.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, framer.ErrMalformedFrame):
		return "malformed_frame"
	case errors.Is(err, framer.ErrChecksumMismatch):
		return "checksum"
	case errors.Is(err, framer.ErrUnknownRead):
		return "unknown_read"
	case errors.Is(err, framer.ErrDeviceOff):
		return "device_off"
	case errors.Is(err, digit.ErrDigitParse):
		return "digit_parse"
	case errors.Is(err, digit.ErrInvalidDecimalPoint):
		return "decimal_point"
	default:
		return "io"
	}
}
