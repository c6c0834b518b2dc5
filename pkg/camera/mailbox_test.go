package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

func changed(id uint32) backend.Event {
	return backend.Event{Kind: backend.EventPropertyChanged, PropertyID: id}
}

func descChanged(id uint32) backend.Event {
	return backend.Event{Kind: backend.EventPropertyDescChanged, PropertyID: id}
}

func TestOrderBatch(t *testing.T) {
	shutdown := backend.Event{Kind: backend.EventShutdown}

	tests := []struct {
		name  string
		batch []backend.Event
		want  []backend.Event
	}{
		{
			name:  "empty",
			batch: nil,
			want:  nil,
		},
		{
			name:  "desc moves before changed",
			batch: []backend.Event{changed(1), descChanged(1)},
			want:  []backend.Event{descChanged(1), changed(1)},
		},
		{
			name:  "already ordered",
			batch: []backend.Event{descChanged(1), changed(1)},
			want:  []backend.Event{descChanged(1), changed(1)},
		},
		{
			name:  "different ids keep order",
			batch: []backend.Event{changed(1), descChanged(2)},
			want:  []backend.Event{changed(1), descChanged(2)},
		},
		{
			name:  "other events stay in place",
			batch: []backend.Event{changed(1), shutdown, descChanged(1), changed(2)},
			want:  []backend.Event{descChanged(1), changed(1), shutdown, changed(2)},
		},
		{
			name:  "each desc pairs once",
			batch: []backend.Event{changed(1), changed(1), descChanged(1)},
			want:  []backend.Event{descChanged(1), changed(1), changed(1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBatch(tt.batch))
		})
	}
}

func TestMailboxDeliversInOrder(t *testing.T) {
	got := make(chan backend.Event, 16)
	m := newMailbox(func(ev backend.Event) { got <- ev })
	defer m.close()

	for i := range 10 {
		m.push(changed(uint32(i)))
	}
	for i := range 10 {
		ev := <-got
		assert.Equal(t, uint32(i), ev.PropertyID)
	}
}

func TestMailboxCloseDropsEvents(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan backend.Event, 16)
	m := newMailbox(func(ev backend.Event) {
		delivered <- ev
		<-release
	})

	m.push(changed(1))
	first := <-delivered
	require.Equal(t, uint32(1), first.PropertyID)

	m.push(changed(2))
	done := make(chan struct{})
	go func() {
		m.close()
		close(done)
	}()
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.closed
	}, waitFor, pollEvery)
	close(release)
	<-done

	m.push(changed(3))
	m.close()
	assert.Empty(t, delivered)
}
