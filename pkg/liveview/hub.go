package liveview

import (
	"sync"
)

// Hub fans viewfinder frames out to subscribers.
type Hub struct {
	buffer int

	mu     sync.Mutex
	latest []byte
	subs   map[chan []byte]struct{}
	frames uint64
	closed bool
}

// NewHub creates a hub queueing up to buffer frames per subscriber.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		buffer: buffer,
		subs:   make(map[chan []byte]struct{}),
	}
}

// Publish distributes a frame. The frame is copied; subscribers whose
// queue is full skip it.
func (h *Hub) Publish(frame []byte) {
	if len(frame) == 0 {
		return
	}
	data := append([]byte(nil), frame...)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.latest = data
	h.frames++
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
		}
	}
}

// Subscribe registers a subscriber. The returned cancel function removes
// it and closes the channel.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Latest returns the most recent frame, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Stats returns the number of published frames and current subscribers.
func (h *Hub) Stats() (frames uint64, subscribers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames, len(h.subs)
}

// Close closes all subscriber channels. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
