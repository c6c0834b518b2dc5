package commands

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

var t0 = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleEvents() []log.Event {
	iso := variant.Of(uint16(0x50))
	code := uint32(0x2019)
	return []log.Event{
		{
			Timestamp: t0, SessionID: "6a1f0c2e-1111-2222-3333-444455556666",
			Direction: log.DirectionOut, Layer: log.LayerDriver, Category: log.CategoryProperty,
			Model: "PowerShot S45", Serial: "5120300042",
			Property: &log.PropertyEvent{ID: 0xd01c, Value: &iso},
		},
		{
			Timestamp: t0.Add(time.Second), SessionID: "6a1f0c2e-1111-2222-3333-444455556666",
			Direction: log.DirectionIn, Layer: log.LayerCamera, Category: log.CategoryRelease,
			Model:   "PowerShot S45",
			Release: &log.ReleaseStateEvent{OldState: "Idle", NewState: "Releasing"},
		},
		{
			Timestamp: t0.Add(2 * time.Second), SessionID: "6a1f0c2e-1111-2222-3333-444455556666",
			Direction: log.DirectionIn, Layer: log.LayerCamera, Category: log.CategoryDownload,
			Download: &log.DownloadEvent{Kind: "Finished", Object: "IMG_0001.JPG", Percent: 100, Filename: "/shots/IMG_0001.JPG"},
		},
		{
			Timestamp: t0.Add(3 * time.Second), SessionID: "9bb0aa01-0000-0000-0000-000000000000",
			Direction: log.DirectionIn, Layer: log.LayerDriver, Category: log.CategoryError,
			Model: "PowerShot G2",
			Error: &log.ErrorEventData{Layer: log.LayerDriver, Op: "SetProperty", Message: "device busy", Code: &code},
		},
		{
			Timestamp: t0.Add(4 * time.Second), SessionID: "conn-1",
			Direction: log.DirectionOut, Layer: log.LayerBridge, Category: log.CategoryFrame,
			RemoteAddr: "192.168.1.20:40000",
			Frame:      &log.FrameEvent{Size: 12, Data: []byte{0xa1, 0x01}, Truncated: true},
		},
	}
}

func writeLog(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camera.rlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestFormatEvents(t *testing.T) {
	events := sampleEvents()
	tests := []struct {
		event log.Event
		want  []string
	}{
		{events[0], []string{"2026-03-14T09:30:00.000000Z", "[session:6a1f0c2e]", "OUT DRIVER Property", "Camera: PowerShot S45 (5120300042)", "Property: 0xd01c", "Value: "}},
		{events[1], []string{"IN  CAMERA Release", "Idle -> Releasing"}},
		{events[2], []string{"Download", "Finished IMG_0001.JPG 100%", "File: /shots/IMG_0001.JPG"}},
		{events[3], []string{"Error", "Op: SetProperty", "Message: device busy", "Code: 0x00002019"}},
		{events[4], []string{"[session:conn-1]", "BRIDGE Frame", "Remote: 192.168.1.20:40000", "Size: 12 bytes", "Data: a101 (truncated)"}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		formatEvent(&buf, tt.event)
		output := buf.String()
		for _, want := range tt.want {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	}
}

func TestFormatRefreshAll(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.Event{Timestamp: t0, Property: &log.PropertyEvent{ID: 0, Desc: true}})
	if !strings.Contains(buf.String(), "Property: all") || !strings.Contains(buf.String(), "Description changed") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestBuildFilter(t *testing.T) {
	filter, err := BuildFilter(FilterOptions{
		Layer:      "Camera",
		Direction:  "in",
		Category:   "download",
		PropertyID: "0xd01c",
		TimeStart:  "2026-03-14T09:30:01Z",
	})
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	if *filter.Layer != log.LayerCamera || *filter.Direction != log.DirectionIn || *filter.Category != log.CategoryDownload {
		t.Errorf("unexpected filter %+v", filter)
	}
	if *filter.PropertyID != 0xd01c {
		t.Errorf("PropertyID = %#x", *filter.PropertyID)
	}

	bad := []FilterOptions{
		{Layer: "wire"},
		{Direction: "sideways"},
		{Category: "message"},
		{PropertyID: "iso"},
		{TimeStart: "yesterday"},
		{TimeEnd: "tomorrow"},
	}
	for _, opts := range bad {
		if _, err := BuildFilter(opts); err == nil {
			t.Errorf("BuildFilter(%+v) succeeded", opts)
		}
	}
}

func TestRunView(t *testing.T) {
	path := writeLog(t, sampleEvents())

	filter, _ := BuildFilter(FilterOptions{Category: "error"})
	var buf bytes.Buffer
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatalf("RunView: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "device busy") {
		t.Errorf("missing error event:\n%s", output)
	}
	if strings.Contains(output, "Release") {
		t.Errorf("filter let other events through:\n%s", output)
	}

	if err := RunView(filepath.Join(t.TempDir(), "missing.rlog"), log.Filter{}, &buf); err == nil {
		t.Error("RunView on a missing file succeeded")
	}
}

func TestRunExportJSONL(t *testing.T) {
	path := writeLog(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "events.jsonl")

	if err := RunExport(path, "jsonl", out, log.Filter{}); err != nil {
		t.Fatalf("RunExport: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var records []ExportRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec ExportRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	if records[0].Type != "Property" || records[0].Detail != "0xd01c" || records[0].Model != "PowerShot S45" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[2].Value != "/shots/IMG_0001.JPG" {
		t.Errorf("download value = %q", records[2].Value)
	}
	if records[3].Value != "device busy" || records[3].Detail != "SetProperty" {
		t.Errorf("error record = %+v", records[3])
	}
}

func TestRunExportCSV(t *testing.T) {
	path := writeLog(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "events.csv")

	filter, _ := BuildFilter(FilterOptions{Layer: "camera"})
	if err := RunExport(path, "csv", out, filter); err != nil {
		t.Fatalf("RunExport: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[1][8] != "Release" || rows[2][8] != "Download" {
		t.Errorf("unexpected rows %v", rows)
	}

	if err := RunExport(path, "xml", "", log.Filter{}); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestRunFilter(t *testing.T) {
	path := writeLog(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "session.rlog")

	filter := log.Filter{SessionID: "6a1f0c2e-1111-2222-3333-444455556666"}
	count, err := RunFilter(path, out, filter)
	if err != nil {
		t.Fatalf("RunFilter: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	stats, err := CollectStats(out)
	if err != nil {
		t.Fatalf("CollectStats: %v", err)
	}
	if stats.TotalEvents != 3 || len(stats.Sessions) != 1 {
		t.Errorf("filtered file has %d events in %d sessions", stats.TotalEvents, len(stats.Sessions))
	}
}

func TestStats(t *testing.T) {
	path := writeLog(t, sampleEvents())

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats: %v", err)
	}
	if stats.TotalEvents != 5 {
		t.Errorf("TotalEvents = %d, want 5", stats.TotalEvents)
	}
	if stats.Errors != 1 || stats.Downloads != 1 {
		t.Errorf("Errors = %d, Downloads = %d", stats.Errors, stats.Downloads)
	}
	if len(stats.Sessions) != 3 {
		t.Errorf("Sessions = %d, want 3", len(stats.Sessions))
	}
	sess := stats.Sessions["6a1f0c2e-1111-2222-3333-444455556666"]
	if sess == nil || sess.Releases != 1 || sess.Downloads != 1 || sess.Model != "PowerShot S45" {
		t.Errorf("session stats = %+v", sess)
	}
	if got := stats.TimeRange.End.Sub(stats.TimeRange.Start); got != 4*time.Second {
		t.Errorf("time range = %v, want 4s", got)
	}

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	output := buf.String()
	for _, want := range []string{"Total Events: 5", "DRIVER:", "BRIDGE:", "DOWNLOAD:", "Sessions: 3", "Camera: PowerShot S45 5120300042", "Releases: 1, downloads: 1", "Errors: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("stats output missing %q:\n%s", want, output)
		}
	}
}
