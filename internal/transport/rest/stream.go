package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/heartmarshall/mintmind/internal/service/appstate"
)

// StreamState pushes a state snapshot as a server-sent event after every
// mutation, starting with the current one. Slow clients only get the latest
// snapshot.
func (h *Handler) StreamState(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.closed:
		writeError(w, http.StatusServiceUnavailable, "server is shutting down", nil)
		return
	default:
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	updates := make(chan appstate.State, 1)
	unsubscribe := h.state.Subscribe(func(st appstate.State) {
		for {
			select {
			case updates <- st:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, h.state.Snapshot()); err != nil {
		return
	}

	ticker := h.clock.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.closed:
			return
		case st := <-updates:
			if err := writeEvent(w, rc, st); err != nil {
				h.log.DebugContext(r.Context(), "state stream closed", "error", err)
				return
			}
		case <-ticker.Chan():
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, st appstate.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
