package camera

import (
	"sync"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

// mailbox moves driver callbacks off the driver's goroutine. The callback
// only appends to the pending batch; one goroutine takes whole batches and
// hands them to the handler in order.
type mailbox struct {
	handler func(backend.Event)

	mu      sync.Mutex
	pending []backend.Event
	closed  bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newMailbox(handler func(backend.Event)) *mailbox {
	m := &mailbox{
		handler: handler,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

// push enqueues a driver event. Safe from any goroutine.
func (m *mailbox) push(ev backend.Event) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.pending = append(m.pending, ev)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// close stops the mailbox goroutine. Undelivered events are dropped.
// Must not be called from the handler.
func (m *mailbox) close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		<-m.done
		return
	}
	m.closed = true
	m.pending = nil
	m.mu.Unlock()

	close(m.quit)
	<-m.done
}

func (m *mailbox) run() {
	defer close(m.done)

	for {
		select {
		case <-m.quit:
			return
		case <-m.wake:
		}

		m.mu.Lock()
		batch := m.pending
		m.pending = nil
		m.mu.Unlock()

		for _, ev := range orderBatch(batch) {
			select {
			case <-m.quit:
				return
			default:
			}
			m.handler(ev)
		}
	}
}

// orderBatch moves a property-desc-changed event in front of a pending
// property-changed event for the same id. Everything else keeps its order.
func orderBatch(batch []backend.Event) []backend.Event {
	if len(batch) < 2 {
		return batch
	}

	out := make([]backend.Event, 0, len(batch))
	moved := make([]bool, len(batch))
	for i, ev := range batch {
		if moved[i] {
			continue
		}
		if ev.Kind == backend.EventPropertyChanged {
			for j := i + 1; j < len(batch); j++ {
				later := batch[j]
				if !moved[j] && later.Kind == backend.EventPropertyDescChanged && later.PropertyID == ev.PropertyID {
					out = append(out, later)
					moved[j] = true
					break
				}
			}
		}
		out = append(out, ev)
	}
	return out
}
