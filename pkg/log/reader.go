package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for selecting events.
// Empty or nil fields match all events.
type Filter struct {
	// SessionID filters by exact session id.
	SessionID string

	Direction *Direction
	Layer     *Layer
	Category  *Category

	// TimeStart selects events at or after this time.
	TimeStart *time.Time

	// TimeEnd selects events before this time.
	TimeEnd *time.Time

	// Model filters by camera model name.
	Model string

	// PropertyID selects property events for one id.
	PropertyID *uint32
}

// Matches reports whether the event matches all criteria.
func (f *Filter) Matches(event Event) bool {
	if f.SessionID != "" && event.SessionID != f.SessionID {
		return false
	}
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Layer != nil && event.Layer != *f.Layer {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.Model != "" && event.Model != f.Model {
		return false
	}
	if f.PropertyID != nil && (event.Property == nil || event.Property.ID != *f.PropertyID) {
		return false
	}
	return true
}

// Reader streams events from a CBOR event log.
type Reader struct {
	closer    io.Closer
	decoder   *cbor.Decoder
	filter    Filter
	truncated bool
}

// NewReader opens a log file and reads all events.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a log file and reads the events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewStreamReader(f, filter)
	r.closer = f
	return r, nil
}

// NewStreamReader reads the events matching filter from r.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{decoder: newDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the log.
// A partly written last event, as left by a crashed writer, also ends the
// log and sets Truncated.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				r.truncated = true
				return Event{}, io.EOF
			}
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Truncated reports whether the log ended inside an event.
func (r *Reader) Truncated() bool { return r.truncated }

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
