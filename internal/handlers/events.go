package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"mp4-converter/internal/logging"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is same-host tooling; cross-origin browsers are not a
	// supported client.
	CheckOrigin: func(*http.Request) bool { return true },
}

// StreamEvents upgrades to a WebSocket and forwards progress events.
// With an {id} route variable only that task's events are sent;
// without one the client receives every task's events.
// GET /api/events and GET /api/events/{id}
func (h *Handlers) StreamEvents(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Debug("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch, cancel := h.service.Subscribe(taskID)
	defer cancel()

	logging.Debug("event stream opened (task %q)", taskID)

	// Reader goroutine: the client never sends data, but reading is
	// required to process close frames and detect disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				logging.Debug("event stream write failed: %v", err)
				return
			}
			// A single-task stream has nothing more to say after
			// the terminal event.
			if taskID != "" && ev.Terminal() {
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return

		case <-r.Context().Done():
			return
		}
	}
}
