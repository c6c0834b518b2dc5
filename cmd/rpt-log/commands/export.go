package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
)

// ExportRecord is the flat export form of an event.
type ExportRecord struct {
	Timestamp  string `json:"timestamp"`
	SessionID  string `json:"session_id"`
	Direction  string `json:"direction"`
	Layer      string `json:"layer"`
	Category   string `json:"category"`
	Model      string `json:"model,omitempty"`
	Serial     string `json:"serial,omitempty"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	Type       string `json:"type"`
	Detail     string `json:"detail,omitempty"`
	Value      string `json:"value,omitempty"`
}

func newExportRecord(event log.Event) ExportRecord {
	rec := ExportRecord{
		Timestamp:  event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		SessionID:  event.SessionID,
		Direction:  event.Direction.String(),
		Layer:      event.Layer.String(),
		Category:   event.Category.String(),
		Model:      event.Model,
		Serial:     event.Serial,
		RemoteAddr: event.RemoteAddr,
		Type:       eventLabel(event),
	}

	switch {
	case event.Property != nil:
		rec.Detail = fmt.Sprintf("0x%04x", event.Property.ID)
		if event.Property.Value != nil {
			rec.Value = event.Property.Value.String()
		}
	case event.State != nil:
		rec.Detail = event.State.Kind
		rec.Value = strconv.FormatUint(uint64(event.State.Value), 10)
	case event.Download != nil:
		rec.Detail = event.Download.Kind
		rec.Value = event.Download.Object
		if event.Download.Filename != "" {
			rec.Value = event.Download.Filename
		}
	case event.Release != nil:
		rec.Detail = event.Release.NewState
		rec.Value = event.Release.Reason
	case event.Error != nil:
		rec.Detail = event.Error.Op
		rec.Value = event.Error.Message
	case event.Frame != nil:
		rec.Detail = strconv.Itoa(event.Frame.Size)
	}
	return rec
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string, filter log.Filter) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(newExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp", "session_id", "direction", "layer", "category", "model", "serial", "remote_addr", "type", "detail", "value"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		rec := newExportRecord(event)
		row := []string{
			rec.Timestamp, rec.SessionID, rec.Direction, rec.Layer, rec.Category,
			rec.Model, rec.Serial, rec.RemoteAddr, rec.Type, rec.Detail, rec.Value,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
