// Package log provides structured event capture for camera sessions.
//
// This package defines the Logger interface and Event types for capturing
// what happens between the control layer and a camera: property changes,
// state notifications, image transfers, release state transitions, failed
// backend calls and bridge frames. It is separate from operational logging
// (slog); the capture log is a machine-readable trace for later analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file, keeping every 10th
//	// viewfinder frame
//	fileLogger, _ := log.OpenFileLogger("session.rptlog", log.FileOptions{FrameEvery: 10})
//	cfg.EventLogger = fileLogger
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a stream of CBOR encoded events with no header, so logs
// can be appended to and concatenated. A Reader stops cleanly at an event
// cut short by a crash and reports it through Truncated. The rpt-log CLI tool
// provides viewing, filtering, export and statistics.
package log
