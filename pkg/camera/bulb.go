package camera

import (
	"errors"
	"sync"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/executor"
)

// BulbRelease is an open bulb exposure. The camera UI stays locked while
// the shutter is open.
type BulbRelease struct {
	rc *RemoteReleaseControl

	mu     sync.Mutex
	active bool
	start  time.Time
	end    time.Time
	timer  *executor.Timer
}

func newBulbRelease(rc *RemoteReleaseControl) *BulbRelease {
	return &BulbRelease{rc: rc}
}

// begin runs on the device executor.
func (b *BulbRelease) begin() error {
	d := b.rc.dev
	if err := d.sendCommand(backend.CommandUILock); err != nil {
		return err
	}
	if err := d.sendCommand(backend.CommandBulbStart); err != nil {
		if unlockErr := d.sendCommand(backend.CommandUIUnlock); unlockErr != nil {
			d.debug("unlocking camera UI failed", unlockErr)
		}
		return err
	}

	b.mu.Lock()
	b.active = true
	b.start = time.Now()
	b.mu.Unlock()
	return nil
}

// finish runs on the device executor. The UI unlock is attempted even
// when ending the exposure fails.
func (b *BulbRelease) finish() error {
	d := b.rc.dev
	endErr := d.sendCommand(backend.CommandBulbEnd)
	unlockErr := d.sendCommand(backend.CommandUIUnlock)
	return errors.Join(endErr, unlockErr)
}

// claim marks the exposure as ended and reports whether this call ended it.
func (b *BulbRelease) claim() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return false
	}
	b.active = false
	b.end = time.Now()
	if b.timer != nil {
		b.timer.Cancel()
		b.timer = nil
	}
	return true
}

// Active reports whether the shutter is open.
func (b *BulbRelease) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Elapsed returns the exposure time so far, or the total exposure time
// once stopped.
func (b *BulbRelease) Elapsed() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.active:
		return time.Since(b.start)
	case b.start.IsZero():
		return 0
	default:
		return b.end.Sub(b.start)
	}
}

// Stop closes the shutter and unlocks the camera UI. Stopping an exposure
// that already ended does nothing.
func (b *BulbRelease) Stop() error {
	if !b.claim() {
		return nil
	}
	return b.rc.dev.call(b.finish)
}

// StopAfter stops the exposure after d. A later call replaces the
// earlier deadline.
func (b *BulbRelease) StopAfter(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	if b.timer != nil {
		b.timer.Cancel()
	}
	b.timer = b.rc.dev.exec.After(d, b.expire)
}

// expire runs on the device executor, so it calls finish directly.
func (b *BulbRelease) expire() {
	if !b.claim() {
		return
	}
	if err := b.finish(); err != nil {
		b.rc.dev.debug("ending bulb exposure failed", err)
	}
}
