package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
)

// eventLabel names the payload kind of an event.
func eventLabel(event log.Event) string {
	switch {
	case event.Property != nil:
		return "Property"
	case event.State != nil:
		return "State"
	case event.Download != nil:
		return "Download"
	case event.Release != nil:
		return "Release"
	case event.Error != nil:
		return "Error"
	case event.Frame != nil:
		return "Frame"
	default:
		return "Unknown"
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [session:%s] %-3s %s %s\n",
		ts, shortenID(event.SessionID), event.Direction.String(), event.Layer.String(), eventLabel(event))

	if event.Model != "" {
		fmt.Fprintf(w, "  Camera: %s", event.Model)
		if event.Serial != "" {
			fmt.Fprintf(w, " (%s)", event.Serial)
		}
		fmt.Fprintln(w)
	}
	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Remote: %s\n", event.RemoteAddr)
	}

	switch {
	case event.Property != nil:
		formatPropertyDetails(w, event.Property)
	case event.State != nil:
		fmt.Fprintf(w, "  %s: %d\n", event.State.Kind, event.State.Value)
	case event.Download != nil:
		formatDownloadDetails(w, event.Download)
	case event.Release != nil:
		formatReleaseDetails(w, event.Release)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatPropertyDetails(w io.Writer, p *log.PropertyEvent) {
	if p.ID == 0 {
		fmt.Fprintln(w, "  Property: all")
	} else {
		fmt.Fprintf(w, "  Property: 0x%04x\n", p.ID)
	}
	if p.Desc {
		fmt.Fprintln(w, "  Description changed")
	}
	if p.Value != nil {
		fmt.Fprintf(w, "  Value: %s\n", p.Value.String())
	}
}

func formatDownloadDetails(w io.Writer, d *log.DownloadEvent) {
	fmt.Fprintf(w, "  %s", d.Kind)
	if d.Object != "" {
		fmt.Fprintf(w, " %s", d.Object)
	}
	if d.Percent > 0 {
		fmt.Fprintf(w, " %d%%", d.Percent)
	}
	fmt.Fprintln(w)
	if d.Filename != "" {
		fmt.Fprintf(w, "  File: %s\n", d.Filename)
	}
}

func formatReleaseDetails(w io.Writer, r *log.ReleaseStateEvent) {
	if r.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", r.OldState, r.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", r.NewState)
	}
	if r.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", r.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	if err.Op != "" {
		fmt.Fprintf(w, "  Op: %s\n", err.Op)
	}
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: 0x%08x\n", *err.Code)
	}
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}
