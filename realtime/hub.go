package realtime

import "sync"

const subscriberBuffer = 16

// Hub is the in-process Broadcaster: one subscriber list per user id,
// mirroring per-user rooms. Sends never block; a subscriber that has
// fallen subscriberBuffer events behind misses the event and catches up
// on its next poll.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint][]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint][]chan Event)}
}

func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uint]bool, len(ev.Recipients))
	for _, id := range ev.Recipients {
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, ch := range h.subs[id] {
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

func (h *Hub) Subscribe(userID uint) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[userID] = append(h.subs[userID], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		list := h.subs[userID]
		for i, c := range list {
			if c == ch {
				h.subs[userID] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
	}
	return ch, cancel
}
