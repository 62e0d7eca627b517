// internal/stream/handler.go
package stream

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// PingInterval is how often an idle connection is pinged.
const PingInterval = 20 * time.Second

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// Handler upgrades to WebSocket and streams bus events as JSON until the
// client goes away.
func Handler(bus *Bus, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("stream: upgrade")
			return
		}
		defer conn.Close()

		ch, unsub := bus.Subscribe()
		defer unsub()

		// reader goroutine only exists to notice the client closing
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		log.Debug().Str("remote", r.RemoteAddr).Msg("stream: client connected")

		ping := time.NewTicker(PingInterval)
		defer ping.Stop()

		for {
			select {
			case evt, ok := <-ch:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(evt); err != nil {
					log.Debug().Err(err).Msg("stream: write")
					return
				}
			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-gone:
				log.Debug().Str("remote", r.RemoteAddr).Msg("stream: client gone")
				return
			case <-r.Context().Done():
				return
			}
		}
	})
}
