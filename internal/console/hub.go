package console

import "sync"

// Hub fans console batches out to subscribers and keeps a bounded history
// of the current session for replay when a console attaches mid-run.
// Publish never blocks: a subscriber that falls behind loses its oldest
// pending batch, not the publisher's time.
type Hub struct {
	mu      sync.Mutex
	subs    map[chan string]struct{}
	history []string
	size    int
	head    int
	count   int
}

// NewHub creates a hub retaining up to size batches of history.
func NewHub(size int) *Hub {
	return &Hub{
		subs:    make(map[chan string]struct{}),
		history: make([]string, size),
		size:    size,
	}
}

// Publish records the batch in history and delivers it to every
// subscriber. Ordering across Publish calls is preserved per subscriber.
// The sends stay under the lock: they never block, and it keeps
// Unsubscribe from closing a channel mid-send.
func (h *Hub) Publish(batch string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history[h.head] = batch
	h.head = (h.head + 1) % h.size
	if h.count < h.size {
		h.count++
	}

	for ch := range h.subs {
		select {
		case ch <- batch:
		default:
			// Full: drop the oldest pending batch to make room.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- batch:
			default:
			}
		}
	}
}

// Subscribe registers a new consumer channel with the given buffer depth.
func (h *Hub) Subscribe(buffer int) chan string {
	ch := make(chan string, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// History returns the retained batches in publish order.
func (h *Hub) History() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return nil
	}
	out := make([]string, 0, h.count)
	if h.count < h.size {
		out = append(out, h.history[:h.count]...)
	} else {
		out = append(out, h.history[h.head:]...)
		out = append(out, h.history[:h.head]...)
	}
	return out
}

// Reset clears the history at a session boundary. Subscribers stay
// attached.
func (h *Hub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.head = 0
	h.count = 0
}
