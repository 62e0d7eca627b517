// internal/stream/stream_test.go
package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishToSubscribers(t *testing.T) {
	b := NewBus()
	ch1, unsub1 := b.Subscribe()
	ch2, unsub2 := b.Subscribe()
	defer unsub1()
	defer unsub2()

	require.Equal(t, 2, b.Len())

	b.Publish(Event{Type: EventHeight, Data: HeightData{Height: 72.5}})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case e := <-ch:
			assert.Equal(t, EventHeight, e.Type)
			assert.False(t, e.Timestamp.IsZero())
			assert.Equal(t, HeightData{Height: 72.5}, e.Data)
		default:
			t.Fatal("event not delivered")
		}
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe()
	unsub()
	unsub()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())

	// publishing with no subscribers is a no-op
	b.Publish(Event{Type: EventStatus})
}

func TestBus_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe()
	defer unsub()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(Event{Type: EventHeight, Data: HeightData{Height: float64(i)}})
	}

	assert.Len(t, ch, subscriberBuffer)
	first := <-ch
	assert.Equal(t, HeightData{Height: 0}, first.Data)
}

func TestHandler_StreamsEvents(t *testing.T) {
	b := NewBus()
	srv := httptest.NewServer(Handler(b, zerolog.Nop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return b.Len() == 1 }, time.Second, 5*time.Millisecond)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b.Publish(Event{Type: EventHeight, Timestamp: ts, Data: HeightData{Height: 72.5}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type      string    `json:"type"`
		Timestamp time.Time `json:"timestamp"`
		Data      struct {
			Height float64 `json:"height"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "height", got.Type)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.Equal(t, 72.5, got.Data.Height)
}

func TestHandler_UnsubscribesOnClientClose(t *testing.T) {
	b := NewBus()
	srv := httptest.NewServer(Handler(b, zerolog.Nop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return b.Len() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return b.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
