// internal/pipeline/orchestrator.go
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/deskheight/internal/poller"
	"github.com/tamzrod/deskheight/internal/status"
	"github.com/tamzrod/deskheight/internal/stream"
	"github.com/tamzrod/deskheight/internal/writer"
)

// Metrics is the part of the metrics registry the orchestrator drives.
type Metrics interface {
	SetHeight(v float64)
	SetHealth(h uint16)
	Observe(r poller.Reading)
}

// Publisher receives live events.
type Publisher interface {
	Publish(e stream.Event)
}

// Config tunes the orchestrator.
type Config struct {
	// StaleAfter moves health from OK to Stale when no height report
	// arrived for this long. Zero disables it.
	StaleAfter time.Duration
}

// Deps are the sinks fed by the orchestrator. Every field is optional.
type Deps struct {
	Data    writer.Writer
	Status  writer.StatusWriter
	Metrics Metrics
	Events  Publisher
}

// Latest is the most recent height and the current health.
type Latest struct {
	Height float64   `json:"height"`
	At     time.Time `json:"at"`
	Health string    `json:"health"`
}

// Orchestrator is the single consumer of poller readings. It owns the
// status snapshot and fans every change out to its sinks.
type Orchestrator struct {
	cfg  Config
	deps Deps
	log  zerolog.Logger
	now  func() time.Time

	mu           sync.RWMutex
	snap         status.Snapshot
	height       float64
	lastHeightAt time.Time
}

func New(cfg Config, deps Deps, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:  cfg,
		deps: deps,
		log:  log,
		now:  time.Now,
		snap: status.Snapshot{Health: status.HealthUnknown},
	}
}

// Start asserts the initial snapshot on every sink.
func (o *Orchestrator) Start() {
	o.mu.RLock()
	snap := o.snap
	o.mu.RUnlock()

	o.emitStatus(snap, true)
}

// Run consumes readings until ctx is done or in is closed. Seconds in
// error are counted on a 1 Hz ticker.
func (o *Orchestrator) Run(ctx context.Context, in <-chan poller.Reading) error {
	o.Start()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case res, ok := <-in:
			if !ok {
				return nil
			}
			o.Handle(res)

		case now := <-secTicker.C:
			o.Tick(now)
		}
	}
}

// Handle applies one reading.
func (o *Orchestrator) Handle(res poller.Reading) {
	if o.deps.Metrics != nil {
		o.deps.Metrics.Observe(res)
	}

	switch res.Kind {
	case poller.KindHeight:
		o.handleHeight(res)

	case poller.KindDeviceOff:
		o.log.Debug().Msg("desk is turned off")
		o.transition(status.HealthDeviceOff, errorCode(res.Err))

	case poller.KindError:
		o.log.Warn().Err(res.Err).Msg("poll failed")
		o.transition(status.HealthError, errorCode(res.Err))

	case poller.KindNoData:
		o.log.Trace().Msg("display blank")

	case poller.KindIgnored:
		o.log.Trace().Hex("packet", res.Packet).Msg("packet ignored")
	}
}

func (o *Orchestrator) handleHeight(res poller.Reading) {
	at := res.At
	if at.IsZero() {
		at = o.now()
	}

	if o.deps.Metrics != nil {
		o.deps.Metrics.SetHeight(res.Height)
	}
	if o.deps.Data != nil {
		if err := o.deps.Data.Write(res); err != nil {
			o.log.Error().Err(err).Msg("height write failed")
		}
	}
	if o.deps.Events != nil {
		o.deps.Events.Publish(stream.Event{
			Type:      stream.EventHeight,
			Timestamp: at.UTC(),
			Data:      stream.HeightData{Height: res.Height},
		})
	}

	o.log.Debug().Float64("height", res.Height).Msg("height")

	o.mu.Lock()
	o.height = res.Height
	o.lastHeightAt = at
	prev := o.snap
	o.snap.Health = status.HealthOK
	o.snap.LastErrorCode = 0
	o.snap.SecondsInError = 0
	o.snap.HeightX10 = status.HeightRegister(res.Height, 10)
	snap := o.snap
	o.mu.Unlock()

	if snap != prev {
		o.emitStatus(snap, snap.Health != prev.Health)
	}
}

func (o *Orchestrator) transition(health, code uint16) {
	o.mu.Lock()
	prev := o.snap
	o.snap.Health = health
	o.snap.LastErrorCode = code
	snap := o.snap
	o.mu.Unlock()

	if snap != prev {
		o.emitStatus(snap, snap.Health != prev.Health || snap.LastErrorCode != prev.LastErrorCode)
	}
}

// Tick advances time-based state: seconds in error while not OK, and
// OK to Stale once height reports stop.
func (o *Orchestrator) Tick(now time.Time) {
	o.mu.Lock()
	prev := o.snap

	if o.snap.Health == status.HealthOK &&
		o.cfg.StaleAfter > 0 &&
		now.Sub(o.lastHeightAt) > o.cfg.StaleAfter {
		o.snap.Health = status.HealthStale
	}

	if prev.Health != status.HealthOK && o.snap.SecondsInError < status.MaxSecondsInError {
		o.snap.SecondsInError++
	}
	snap := o.snap
	o.mu.Unlock()

	if snap != prev {
		o.emitStatus(snap, snap.Health != prev.Health)
	}
}

// Snapshot returns the current status snapshot.
func (o *Orchestrator) Snapshot() status.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snap
}

// Latest reports the last height. ok is false before the first report.
func (o *Orchestrator) Latest() (Latest, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	l := Latest{
		Height: o.height,
		At:     o.lastHeightAt,
		Health: status.HealthName(o.snap.Health),
	}
	return l, !o.lastHeightAt.IsZero()
}

// emitStatus writes snap to the status targets. Health metric and the
// status event only follow when announce is set.
func (o *Orchestrator) emitStatus(snap status.Snapshot, announce bool) {
	if o.deps.Status != nil {
		if err := o.deps.Status.WriteStatus(snap); err != nil {
			o.log.Error().Err(err).Msg("status write failed")
		}
	}

	if !announce {
		return
	}

	o.log.Info().
		Str("health", status.HealthName(snap.Health)).
		Uint16("last_error", snap.LastErrorCode).
		Msg("desk status")

	if o.deps.Metrics != nil {
		o.deps.Metrics.SetHealth(snap.Health)
	}
	if o.deps.Events != nil {
		o.deps.Events.Publish(stream.Event{
			Type:      stream.EventStatus,
			Timestamp: o.now().UTC(),
			Data: stream.StatusData{
				Health:         status.HealthName(snap.Health),
				HealthCode:     snap.Health,
				LastErrorCode:  snap.LastErrorCode,
				SecondsInError: snap.SecondsInError,
			},
		})
	}
}
