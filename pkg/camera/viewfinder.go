package camera

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/executor"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/subject"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

var histogramChannels = [...]backend.HistogramChannel{
	HistogramLuminance: backend.HistogramLuminance,
	HistogramRed:       backend.HistogramRed,
	HistogramGreen:     backend.HistogramGreen,
	HistogramBlue:      backend.HistogramBlue,
}

// RemoteViewfinder streams live-view frames. While a frame handler is
// set, a timer on the device executor polls the driver every
// ViewfinderInterval and hands each frame to the handler.
type RemoteViewfinder struct {
	rc     *RemoteReleaseControl
	dev    *Device
	frames *subject.Subject[[]byte]

	mu         sync.Mutex
	timer      *executor.Timer
	handlerID  int
	histograms [len(histogramChannels)][]uint32
	closed     bool
}

func newViewfinder(rc *RemoteReleaseControl) *RemoteViewfinder {
	return &RemoteViewfinder{
		rc:     rc,
		dev:    rc.dev,
		frames: subject.New[[]byte](rc.logger),
	}
}

// open turns on the PC output bit.
func (v *RemoteViewfinder) open() error {
	pc := v.dev.profile.LiveView.PC
	return v.dev.call(func() error {
		return v.updateOutput(func(cur uint32) uint32 { return cur | pc })
	})
}

// GetCapability reports whether the viewfinder supports c.
func (v *RemoteViewfinder) GetCapability(c ViewfinderCapability) bool {
	switch c {
	case CapOutputTypeVideoOut:
		return v.dev.profile.LiveView.Video != 0
	case CapGetHistogram:
		return true
	default:
		return false
	}
}

// SetOutputType selects the additional live-view output. The PC output
// stays on in every mode.
func (v *RemoteViewfinder) SetOutputType(t OutputType) error {
	lv := v.dev.profile.LiveView

	var bits uint32
	switch t {
	case OutputLCD:
		bits = lv.TFT | lv.PC
	case OutputVideoOut:
		if lv.Video == 0 {
			return fmt.Errorf("%w: video output", backend.ErrUnsupportedCapability)
		}
		bits = lv.Video | lv.PC
	case OutputOff:
		bits = lv.PC
	default:
		return fmt.Errorf("%w: output type %d", backend.ErrUnsupportedCapability, t)
	}

	if v.isClosed() {
		return ErrClosed
	}
	return v.dev.callOpen(func() error {
		return v.updateOutput(func(uint32) uint32 { return bits })
	})
}

// SetAvailImageHandler sets the frame handler. A non-nil handler starts
// streaming; nil stops it and returns once no further frame can be
// delivered.
func (v *RemoteViewfinder) SetAvailImageHandler(fn func(frame []byte)) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.handlerID != 0 {
		v.frames.Remove(v.handlerID)
		v.handlerID = 0
	}
	if fn != nil {
		v.handlerID = v.frames.Add(fn)
		if v.timer == nil {
			v.timer = v.dev.exec.Every(v.dev.config.ViewfinderInterval, v.tick)
		}
		v.mu.Unlock()
		return nil
	}
	timer := v.timer
	v.timer = nil
	v.mu.Unlock()

	return v.stop(timer)
}

// GetHistogram returns the histogram of the last frame, or nil before
// the first frame.
func (v *RemoteViewfinder) GetHistogram(t HistogramType) []uint32 {
	if int(t) >= len(v.histograms) {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.histograms[t])
}

// Close stops streaming and turns off the PC output bit. Failures are
// logged, not returned.
func (v *RemoteViewfinder) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	timer := v.timer
	v.timer = nil
	if v.handlerID != 0 {
		v.frames.Remove(v.handlerID)
		v.handlerID = 0
	}
	v.mu.Unlock()

	if err := v.stop(timer); err != nil {
		v.dev.debug("stopping viewfinder failed", err)
	}

	pc := v.dev.profile.LiveView.PC
	err := v.dev.call(func() error {
		return v.updateOutput(func(cur uint32) uint32 { return cur &^ pc })
	})
	if err != nil {
		v.dev.debug("turning off live-view output failed", err)
	}

	v.rc.detachViewfinder(v)
	v.frames.Clear()
}

func (v *RemoteViewfinder) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// stop waits until the executor has passed the last tick, pumping the
// driver meanwhile.
func (v *RemoteViewfinder) stop(timer *executor.Timer) error {
	if timer == nil {
		return nil
	}
	cfg := v.dev.config
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StopTimeout)
	defer cancel()
	return timer.Stop(ctx, cfg.PumpInterval, v.dev.driver.Idle)
}

// tick runs on the device executor.
func (v *RemoteViewfinder) tick() {
	d := v.dev

	var (
		raw   [len(histogramChannels)][]byte
		frame []byte
	)
	err := d.locked(func() (err error) {
		frame, err = d.driver.PollLiveViewFrame()
		if err == nil {
			for i, ch := range histogramChannels {
				raw[i], _ = d.driver.ReadHistogram(ch)
			}
		}
		return err
	})

	if errors.Is(err, backend.ErrNotAvailable) {
		return
	}
	if err != nil {
		d.debug("polling live-view frame failed", err)
		return
	}

	var hists [len(histogramChannels)][]uint32
	for i, data := range raw {
		hists[i] = decodeHistogram(data)
	}
	v.mu.Lock()
	for i, h := range hists {
		if h != nil {
			v.histograms[i] = h
		}
	}
	v.mu.Unlock()

	d.capture(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerCamera,
		Category:  log.CategoryFrame,
		Frame:     &log.FrameEvent{Size: len(frame)},
	})
	v.frames.Call(frame)
}

func decodeHistogram(data []byte) []uint32 {
	if len(data) < backend.HistogramBuckets*4 {
		return nil
	}
	h := make([]uint32, backend.HistogramBuckets)
	if _, err := binary.Decode(data, binary.LittleEndian, h); err != nil {
		return nil
	}
	return h
}

// updateOutput runs on the device executor and rewrites the live-view
// output property.
func (v *RemoteViewfinder) updateOutput(fn func(cur uint32) uint32) error {
	d := v.dev
	desc, ok := d.profile.Table.ByType(d.profile.LiveView.Type)
	if !ok {
		return fmt.Errorf("%w: live-view output", backend.ErrUnsupportedCapability)
	}

	cur, err := d.access.Get(desc.ID)
	if err != nil {
		return err
	}
	x, err := cur.Uint32()
	if err != nil {
		return err
	}
	next, err := variant.FromUint(cur.Kind(), uint64(fn(x)))
	if err != nil {
		return err
	}
	return d.access.Set(desc.ID, next)
}
