package log

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

type captureLogger struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureLogger) Log(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func TestEventRoundTrip(t *testing.T) {
	v := variant.Of(uint16(400))
	code := uint32(0x8d01)
	now := time.Now()

	events := []Event{
		{Timestamp: now, SessionID: "s1", Category: CategoryProperty,
			Property: &PropertyEvent{ID: 0x0505, Value: &v}},
		{Timestamp: now, SessionID: "s1", Category: CategoryState,
			State: &StateEvent{Kind: "ReleaseError", Value: 0x8d01}},
		{Timestamp: now, SessionID: "s1", Direction: DirectionOut, Layer: LayerDriver, Category: CategoryError,
			Error: &ErrorEventData{Layer: LayerDriver, Message: "busy", Code: &code, Op: "TriggerRelease"}},
	}

	for _, want := range events {
		data, err := EncodeEvent(want)
		if err != nil {
			t.Fatalf("EncodeEvent failed: %v", err)
		}
		got, err := DecodeEvent(data)
		if err != nil {
			t.Fatalf("DecodeEvent failed: %v", err)
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("timestamp: got %v, want %v", got.Timestamp, want.Timestamp)
		}
		if got.Category != want.Category || got.SessionID != want.SessionID || got.Direction != want.Direction {
			t.Errorf("header mismatch: got %+v", got)
		}
	}

	data, _ := EncodeEvent(events[0])
	got, _ := DecodeEvent(data)
	if got.Property == nil || got.Property.Value == nil {
		t.Fatal("property payload lost")
	}
	if eq, err := got.Property.Value.Equal(v); err != nil || !eq {
		t.Errorf("property value: got %v", got.Property.Value)
	}
}

func TestFileLoggerAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rptlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	base := time.Now()
	for i := range 6 {
		cat := CategoryProperty
		if i%2 == 1 {
			cat = CategoryDownload
		}
		logger.Log(Event{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			SessionID: "s1",
			Category:  cat,
			Property:  &PropertyEvent{ID: uint32(i)},
		})
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	logger.Log(Event{SessionID: "after close"})
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	cat := CategoryDownload
	r, err := NewFilteredReader(path, Filter{Category: &cat})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer r.Close()

	var n int
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if e.Category != CategoryDownload {
			t.Errorf("unexpected category %s", e.Category)
		}
		n++
	}
	if n != 3 {
		t.Errorf("got %d events, want 3", n)
	}
}

func TestFilterMatches(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Minute)
	id := uint32(7)
	layer := LayerBridge

	e := Event{Timestamp: now, SessionID: "a", Model: "G2", Layer: LayerCamera,
		Property: &PropertyEvent{ID: 7}}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"session", Filter{SessionID: "a"}, true},
		{"other session", Filter{SessionID: "b"}, false},
		{"model", Filter{Model: "G2"}, true},
		{"layer", Filter{Layer: &layer}, false},
		{"property", Filter{PropertyID: &id}, true},
		{"time start", Filter{TimeStart: &later}, false},
		{"time end", Filter{TimeEnd: &later}, true},
		{"time end exclusive", Filter{TimeEnd: &now}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(e); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStreamLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStreamLogger(&buf, FileOptions{})
	l.Log(Event{SessionID: "x", Category: CategoryFrame, Frame: &FrameEvent{Size: 12}})
	l.Log(Event{SessionID: "y", Category: CategoryFrame, Frame: &FrameEvent{Size: 13}})

	r := NewStreamReader(&buf, Filter{SessionID: "y"})
	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if e.Frame == nil || e.Frame.Size != 13 {
		t.Errorf("unexpected event %+v", e)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
	if got := l.Stats(); got != (FileStats{Written: 2}) {
		t.Errorf("Stats = %+v", got)
	}
}

func TestStreamLoggerSamplesViewfinderFrames(t *testing.T) {
	var buf bytes.Buffer
	l := NewStreamLogger(&buf, FileOptions{FrameEvery: 3})
	for i := 0; i < 7; i++ {
		for _, session := range []string{"a", "b"} {
			l.Log(Event{SessionID: session, Layer: LayerCamera, Category: CategoryFrame,
				Frame: &FrameEvent{Size: i}})
		}
	}
	l.Log(Event{SessionID: "a", Layer: LayerBridge, Category: CategoryFrame, Frame: &FrameEvent{Size: 99}})

	var sizes []int
	r := NewStreamReader(&buf, Filter{SessionID: "a"})
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		sizes = append(sizes, e.Frame.Size)
	}
	if want := []int{0, 3, 6, 99}; !slices.Equal(sizes, want) {
		t.Errorf("kept sizes %v, want %v", sizes, want)
	}
	if got := l.Stats(); got.Written != 7 || got.Skipped != 8 {
		t.Errorf("Stats = %+v", got)
	}
}

func TestStreamLoggerCapsFrameData(t *testing.T) {
	var buf bytes.Buffer
	l := NewStreamLogger(&buf, FileOptions{MaxFrameData: 4})
	data := []byte{1, 2, 3, 4, 5, 6}
	l.Log(Event{Layer: LayerBridge, Category: CategoryFrame, Frame: &FrameEvent{Size: 6, Data: data}})
	l.Log(Event{Layer: LayerBridge, Category: CategoryFrame, Frame: &FrameEvent{Size: 2, Data: []byte{7, 8}}})

	r := NewStreamReader(&buf, Filter{})
	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !bytes.Equal(e.Frame.Data, []byte{1, 2, 3, 4}) || !e.Frame.Truncated || e.Frame.Size != 6 {
		t.Errorf("capped frame = %+v", e.Frame)
	}
	if len(data) != 6 {
		t.Error("caller's frame data was modified")
	}

	e, err = r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !bytes.Equal(e.Frame.Data, []byte{7, 8}) || e.Frame.Truncated {
		t.Errorf("short frame = %+v", e.Frame)
	}
}

func TestStreamLoggerSkipsProgress(t *testing.T) {
	var buf bytes.Buffer
	l := NewStreamLogger(&buf, FileOptions{SkipProgress: true})
	for _, kind := range []string{"Started", "InProgress", "InProgress", "Finished"} {
		l.Log(Event{Category: CategoryDownload, Download: &DownloadEvent{Kind: kind, Object: "IMG_0001.JPG"}})
	}

	var kinds []string
	r := NewStreamReader(&buf, Filter{})
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		kinds = append(kinds, e.Download.Kind)
	}
	if want := []string{"Started", "Finished"}; !slices.Equal(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
	if got := l.Stats().Skipped; got != 2 {
		t.Errorf("Skipped = %d, want 2", got)
	}
}

func TestReaderStopsAtTruncatedEvent(t *testing.T) {
	var buf bytes.Buffer
	l := NewStreamLogger(&buf, FileOptions{})
	l.Log(Event{SessionID: "s1", Category: CategoryState, State: &StateEvent{Kind: "CameraShutdown"}})
	l.Log(Event{SessionID: "s1", Category: CategoryFrame, Frame: &FrameEvent{Size: 3, Data: []byte{1, 2, 3}}})
	cut := buf.Bytes()[:buf.Len()-2]

	r := NewStreamReader(bytes.NewReader(cut), Filter{})
	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if e.State == nil || e.State.Kind != "CameraShutdown" {
		t.Errorf("unexpected event %+v", e)
	}
	if r.Truncated() {
		t.Error("Truncated before reaching the cut")
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
	if !r.Truncated() {
		t.Error("Truncated = false after the cut event")
	}
}

func TestFileLoggerClosedIgnoresEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.rptlog")
	l, err := OpenFileLogger(path, FileOptions{})
	if err != nil {
		t.Fatalf("OpenFileLogger failed: %v", err)
	}
	l.Log(Event{SessionID: "1"})
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	l.Log(Event{SessionID: "2"})
	if got := l.Stats(); got != (FileStats{Written: 1}) {
		t.Errorf("Stats = %+v", got)
	}
}

func TestMultiLogger(t *testing.T) {
	a, b := &captureLogger{}, &captureLogger{}
	m := NewMultiLogger(a, nil, b, NoopLogger{})

	m.Log(Event{SessionID: "1"})
	m.Log(Event{SessionID: "2"})

	if len(a.events) != 2 || len(b.events) != 2 {
		t.Errorf("got %d and %d events, want 2 each", len(a.events), len(b.events))
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewSlogAdapter(logger)

	a.Log(Event{SessionID: "s1", Category: CategoryDownload, Model: "G2",
		Download: &DownloadEvent{Kind: "InProgress", Object: "IMG_0001.JPG", Percent: 40}})
	a.Log(Event{SessionID: "s1", Category: CategoryRelease,
		Release: &ReleaseStateEvent{OldState: "Idle", NewState: "Releasing"}})

	out := buf.String()
	for _, want := range []string{"camera event", "session=s1", "model=G2", "object=IMG_0001.JPG",
		"percent=40", "new_state=Releasing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("DOWNLOAD")
	if !ok || c != CategoryDownload {
		t.Errorf("ParseCategory(DOWNLOAD) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("nope"); ok {
		t.Error("ParseCategory accepted unknown name")
	}
}
