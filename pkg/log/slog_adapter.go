package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes captured events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Model != "" {
		attrs = append(attrs, slog.String("model", event.Model))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}

	switch {
	case event.Property != nil:
		attrs = append(attrs, slog.Any("property", event.Property.ID))
		if event.Property.Desc {
			attrs = append(attrs, slog.Bool("desc", true))
		}
		if event.Property.Value != nil {
			attrs = append(attrs, slog.String("value", event.Property.Value.String()))
		}
	case event.State != nil:
		attrs = append(attrs,
			slog.String("state_event", event.State.Kind),
			slog.Any("value", event.State.Value),
		)
	case event.Download != nil:
		attrs = append(attrs,
			slog.String("download", event.Download.Kind),
			slog.String("object", event.Download.Object),
			slog.Any("percent", event.Download.Percent),
		)
		if event.Download.Filename != "" {
			attrs = append(attrs, slog.String("file", event.Download.Filename))
		}
	case event.Release != nil:
		attrs = append(attrs,
			slog.String("old_state", event.Release.OldState),
			slog.String("new_state", event.Release.NewState),
		)
		if event.Release.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Release.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("op", event.Error.Op),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Any("code", *event.Error.Code))
		}
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "camera event", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
