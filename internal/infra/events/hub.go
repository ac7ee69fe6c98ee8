package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

const EventViewChanged = "view.changed"

// Message is one server-sent event: Name goes on the "event:" line, Data on "data:".
type Message struct {
	Name string
	Data []byte
}

// Hub fans messages out to every connected dashboard. Slow subscribers lose
// messages instead of stalling publishers.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan Message]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan Message]struct{})}
}

func (h *Hub) Subscribe() chan Message {
	ch := make(chan Message, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
			// drop if slow
		}
	}
}

func (h *Hub) PublishJSON(name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Publish(Message{Name: name, Data: b})
	return nil
}

// PublishLeadEvent forwards a store mutation to the open streams.
func (h *Hub) PublishLeadEvent(_ context.Context, evt entity.LeadEvent) error {
	return h.PublishJSON(string(evt.Type), evt)
}

// ViewChanged is pushed whenever the session's effective query changes.
type ViewChanged struct {
	Params any           `json:"params"`
	Leads  []entity.Lead `json:"leads"`
}

func (h *Hub) PublishView(v ViewChanged) {
	if err := h.PublishJSON(EventViewChanged, v); err != nil {
		log.Printf("⚠️ could not encode view update: %v", err)
	}
}
