package camera

import (
	"log/slog"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
)

// Config configures an Instance and every device it opens.
type Config struct {
	// Logger receives operational logs. If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger captures camera events. If nil, capture is disabled.
	EventLogger log.Logger

	// Quirks supplies enumeration fallbacks. Nil uses property.DefaultQuirks.
	Quirks *property.Quirks

	// CommandTimeout bounds one call on the device executor.
	CommandTimeout time.Duration

	// TransferTimeout bounds how long a release waits for the previous
	// image transfer to finish.
	TransferTimeout time.Duration

	// StopTimeout bounds stopping the viewfinder stream.
	StopTimeout time.Duration

	// PumpInterval is the interval of driver Idle calls while waiting for
	// the executor.
	PumpInterval time.Duration

	// ViewfinderInterval is the live-view poll interval.
	ViewfinderInterval time.Duration

	// EnumLimit caps property enumeration; 0 uses the property package default.
	EnumLimit int

	// DownloadDir is where images without an explicit filename are stored.
	DownloadDir string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CommandTimeout:     10 * time.Second,
		TransferTimeout:    60 * time.Second,
		StopTimeout:        5 * time.Second,
		PumpInterval:       10 * time.Millisecond,
		ViewfinderInterval: 50 * time.Millisecond,
		EnumLimit:          property.DefaultEnumLimit,
		DownloadDir:        ".",
	}
}

// withDefaults fills zero durations from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = d.CommandTimeout
	}
	if c.TransferTimeout <= 0 {
		c.TransferTimeout = d.TransferTimeout
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = d.StopTimeout
	}
	if c.PumpInterval <= 0 {
		c.PumpInterval = d.PumpInterval
	}
	if c.ViewfinderInterval <= 0 {
		c.ViewfinderInterval = d.ViewfinderInterval
	}
	if c.DownloadDir == "" {
		c.DownloadDir = d.DownloadDir
	}
	if c.Quirks == nil {
		c.Quirks = property.DefaultQuirks()
	}
	if c.EventLogger == nil {
		c.EventLogger = log.NoopLogger{}
	}
	return c
}
