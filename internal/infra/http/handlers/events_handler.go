package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xavierca1/sdr-dashboard/internal/infra/events"
)

type EventsHandler struct {
	Hub       *events.Hub
	KeepAlive time.Duration
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{Hub: hub, KeepAlive: 30 * time.Second}
}

// ServeSSE streams lead and view events until the client goes away.
func (h *EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorResponse(w, http.StatusInternalServerError, "STREAM_UNSUPPORTED", "Streaming unsupported.")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.KeepAlive)
	defer keepalive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Name, msg.Data)
			flusher.Flush()
		}
	}
}
