package log

import (
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileOptions select what a FileLogger keeps. The zero value keeps every
// event in full.
type FileOptions struct {
	// FrameEvery keeps one of every n viewfinder frame events of a
	// session. Values below 2 keep all of them.
	FrameEvery int

	// MaxFrameData caps the payload bytes kept per bridge frame event.
	// Longer payloads are cut and marked Truncated. Zero keeps them whole.
	MaxFrameData int

	// SkipProgress drops InProgress download events, keeping Started and
	// Finished.
	SkipProgress bool
}

// FileStats counts what a FileLogger did with the events it was given.
type FileStats struct {
	Written int
	Skipped int
	Failed  int
}

// FileLogger writes events as a CBOR stream. It is safe for concurrent use.
type FileLogger struct {
	opts FileOptions

	mu      sync.Mutex
	encoder *cbor.Encoder
	closer  io.Closer
	frames  map[string]int
	stats   FileStats
	closed  bool
}

// NewFileLogger appends every event to the file at path.
func NewFileLogger(path string) (*FileLogger, error) {
	return OpenFileLogger(path, FileOptions{})
}

// OpenFileLogger appends events selected by opts to the file at path,
// creating it with permissions 0644 if needed.
func OpenFileLogger(path string, opts FileOptions) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	l := NewStreamLogger(f, opts)
	return l, nil
}

// NewStreamLogger writes events selected by opts to w. Close closes w if
// it is an io.Closer.
func NewStreamLogger(w io.Writer, opts FileOptions) *FileLogger {
	l := &FileLogger{
		opts:    opts,
		encoder: newEncoder(w),
		frames:  make(map[string]int),
	}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// Log writes an event unless the options drop it. Encoding failures are
// counted, not reported.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	event, keep := l.filter(event)
	if !keep {
		l.stats.Skipped++
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		l.stats.Failed++
		return
	}
	l.stats.Written++
}

// filter applies the options to one event. Called with l.mu held.
func (l *FileLogger) filter(event Event) (Event, bool) {
	switch {
	case l.opts.SkipProgress && event.Download != nil && event.Download.Kind == "InProgress":
		return event, false

	case l.opts.FrameEvery > 1 && event.Category == CategoryFrame && event.Layer == LayerCamera:
		n := l.frames[event.SessionID]
		l.frames[event.SessionID] = n + 1
		return event, n%l.opts.FrameEvery == 0

	case l.opts.MaxFrameData > 0 && event.Frame != nil && len(event.Frame.Data) > l.opts.MaxFrameData:
		frame := *event.Frame
		frame.Data = frame.Data[:l.opts.MaxFrameData]
		frame.Truncated = true
		event.Frame = &frame
	}
	return event, true
}

// Stats returns the counters since the logger was opened.
func (l *FileLogger) Stats() FileStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Close closes the underlying file. Later Log calls are ignored.
// It is safe to call Close multiple times.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

var _ Logger = (*FileLogger)(nil)
