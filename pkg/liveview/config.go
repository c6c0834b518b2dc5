package liveview

import (
	"log/slog"
	"time"
)

// Config configures a live-view server.
type Config struct {
	// Address is the HTTP listen address.
	// Default: ":8080".
	Address string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 2 seconds.
	ShutdownTimeout time.Duration

	// ClientBuffer is the number of frames queued per stream client.
	// Default: 2.
	ClientBuffer int

	// Debug enables gin debug mode and request logging.
	Debug bool

	// Logger is used for operational logging. Nil disables logging.
	Logger *slog.Logger
}

// DefaultConfig returns the default live-view configuration.
func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		ShutdownTimeout: 2 * time.Second,
		ClientBuffer:    2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.ClientBuffer <= 0 {
		c.ClientBuffer = d.ClientBuffer
	}
	return c
}
