// internal/notify/hub.go
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"impostor/internal/game"
)

// subscriberBuffer is how many undelivered events a slow client may lag
// behind before the hub starts dropping for it.
const subscriberBuffer = 10

// Subscriber is a single client's presence on a room's event feed.
type Subscriber struct {
	out chan game.Event
}

// Events is the receive side of the feed. The channel is closed when the
// subscriber is detached from the hub.
func (s *Subscriber) Events() <-chan game.Event {
	return s.out
}

// write pushes an event non-blockingly. A full buffer means the client is
// not keeping up; the event is dropped rather than stalling the sender.
func (s *Subscriber) write(log *logrus.Logger, code string, ev game.Event) {
	select {
	case s.out <- ev:
	default:
		log.WithFields(logrus.Fields{
			"code": code, "event": ev.Type,
		}).Warn("subscriber buffer full, event dropped")
	}
}

// Hub fans room events out to websocket subscribers. It implements
// game.Notifier, so the engine stays unaware of transport details.
// Delivery is fire-and-forget: no subscriber, no problem.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
	log   *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.New()
	}
	return &Hub{
		rooms: make(map[string]map[*Subscriber]struct{}),
		log:   logger,
	}
}

var _ game.Notifier = (*Hub)(nil)

// Notify delivers ev to every subscriber of the room. Never blocks.
func (h *Hub) Notify(_ context.Context, code string, ev game.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[code] {
		sub.write(h.log, code, ev)
	}
}

// Subscribe attaches a new subscriber to the room's feed. The caller must
// Unsubscribe when done or the subscriber leaks.
func (h *Hub) Subscribe(code string) *Subscriber {
	sub := &Subscriber{out: make(chan game.Event, subscriberBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[code]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.rooms[code] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Unsubscribe detaches sub and closes its event channel. Idempotent.
func (h *Hub) Unsubscribe(code string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[code]
	if !ok {
		return
	}
	if _, attached := subs[sub]; !attached {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, code)
	}
	close(sub.out)
}

// SubscriberCount reports how many clients are on the room's feed.
func (h *Hub) SubscriberCount(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}
