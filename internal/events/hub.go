package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// snapshotOrder is the replay order for late subscribers.
var snapshotOrder = []Type{TypeList, TypePeriods, TypeChartCreate, TypeSummary, TypeError}

// Hub fans events out to subscribers and remembers the latest event of each
// kind so a new subscriber can rebuild the current UI.
type Hub struct {
	mu        sync.Mutex
	seq       uint64
	latest    map[Type]Event
	nextSubID int
	subs      map[int]chan Event
	log       *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		latest: make(map[Type]Event),
		subs:   make(map[int]chan Event),
		log:    log,
	}
}

// Publish stamps an event, records it in the snapshot and delivers it to
// every subscriber. A subscriber whose buffer is full is dropped and its
// channel closed; it reconnects and receives a fresh snapshot.
func (h *Hub) Publish(typ Type, target string, payload any) Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	evt := Event{
		ID:      uuid.NewString(),
		Seq:     h.seq,
		Type:    typ,
		Target:  target,
		Time:    time.Now().UTC(),
		Payload: payload,
	}

	switch typ {
	case TypeChartDestroy:
		delete(h.latest, TypeChartCreate)
	case TypeError:
		h.latest[typ] = evt
	default:
		// A successful update replaces any error banner.
		delete(h.latest, TypeError)
		h.latest[typ] = evt
	}

	for id, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.log.Warn("dropping slow subscriber", "subID", id)
			close(ch)
			delete(h.subs, id)
		}
	}
	return evt
}

// Snapshot returns the latest event of each kind in replay order.
func (h *Hub) Snapshot() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Hub) snapshotLocked() []Event {
	var out []Event
	for _, typ := range snapshotOrder {
		if evt, ok := h.latest[typ]; ok {
			out = append(out, evt)
		}
	}
	return out
}

// Subscribe registers a subscriber and returns the snapshot taken at the
// same instant, so no event falls between the two.
func (h *Hub) Subscribe(bufSize int) (id int, ch <-chan Event, snapshot []Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id = h.nextSubID
	h.nextSubID++
	c := make(chan Event, bufSize)
	h.subs[id] = c
	return id, c, h.snapshotLocked()
}

// Unsubscribe removes a subscription and closes its channel.
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		close(ch)
		delete(h.subs, id)
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
