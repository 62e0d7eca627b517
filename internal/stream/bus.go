// internal/stream/bus.go
package stream

import (
	"sync"
	"time"
)

// EventType classifies a desk event for stream clients.
type EventType string

const (
	EventHeight EventType = "height"
	EventStatus EventType = "status"
)

// Event is the JSON envelope sent to every stream client.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// HeightData is the payload of an EventHeight.
type HeightData struct {
	Height float64 `json:"height"`
}

// StatusData is the payload of an EventStatus.
type StatusData struct {
	Health         string `json:"health"`
	HealthCode     uint16 `json:"health_code"`
	LastErrorCode  uint16 `json:"last_error_code"`
	SecondsInError uint16 `json:"seconds_in_error"`
}

// subscriberBuffer is the per-client backlog before events are dropped.
const subscriberBuffer = 32

type subscriber struct {
	ch chan Event
}

// Bus fans events out to all subscribers. A subscriber whose buffer is
// full misses the event; Publish never blocks.
type Bus struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a client. The returned func unsubscribes and closes
// the channel; it must be called exactly once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, subscriberBuffer)}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, s)
			b.mu.Unlock()
			close(s.ch)
		})
	}
}

// Publish stamps e if needed and delivers it to every subscriber.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		select {
		case s.ch <- e:
		default:
		}
	}
}

// Len returns the current subscriber count.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
