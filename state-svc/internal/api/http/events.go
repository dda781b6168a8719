package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"budget-bites/state-svc/internal/domain"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamEvents sends the current snapshot and then one per mutation. A slow client only
// ever sees the latest snapshot; versions it missed are skipped.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := make(chan domain.Snapshot, 1)
	unsubscribe := st.Subscribe(func(snap domain.Snapshot) {
		select {
		case updates <- snap:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snap:
			default:
			}
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	current := st.Snapshot()
	if !send(conn, current) {
		return
	}
	last := current.Version
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if snap.Version <= last {
				continue
			}
			if !send(conn, snap) {
				return
			}
			last = snap.Version
		}
	}
}

func send(conn *websocket.Conn, snap domain.Snapshot) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap) == nil
}
