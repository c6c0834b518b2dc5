package log

// Logger receives captured camera events.
// Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and must
	// not block; events are logged from executor and callback goroutines.
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}

// MultiLogger sends each event to every logger in order.
type MultiLogger []Logger

// NewMultiLogger combines loggers, skipping nil and NoopLogger entries.
func NewMultiLogger(loggers ...Logger) MultiLogger {
	var m MultiLogger
	for _, l := range loggers {
		switch l.(type) {
		case nil, NoopLogger:
			continue
		}
		m = append(m, l)
	}
	return m
}

// Log forwards the event.
func (m MultiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}

var _ Logger = MultiLogger(nil)
