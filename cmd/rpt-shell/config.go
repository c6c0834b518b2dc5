package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file of rpt-shell. Flags given on
// the command line take precedence over file values.
type FileConfig struct {
	LogLevel    string        `yaml:"log_level"`
	EventLog    string        `yaml:"event_log"`
	EventFrames int           `yaml:"event_log_frames"`
	Simulate    *bool         `yaml:"simulate"`
	Settings    string        `yaml:"settings"`
	DownloadDir string        `yaml:"download_dir"`
	Quirks      string        `yaml:"quirks"`
	Bridges     []string      `yaml:"bridges"`
	Discover    time.Duration `yaml:"discover_timeout"`
	LiveView    string        `yaml:"liveview_address"`
}

// LoadConfig reads a FileConfig from path.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a FileConfig from YAML.
func ParseConfig(data []byte) (*FileConfig, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	switch fc.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log_level %q", fc.LogLevel)
	}
	if fc.EventFrames < 0 {
		return nil, fmt.Errorf("event_log_frames must not be negative")
	}
	if fc.Discover < 0 {
		return nil, fmt.Errorf("discover_timeout must not be negative")
	}
	return &fc, nil
}

// apply copies file values into cfg for every flag not in set.
func (fc *FileConfig) apply(cfg *Config, set map[string]bool) {
	if fc.LogLevel != "" && !set["log-level"] {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.EventLog != "" && !set["event-log"] {
		cfg.EventLog = fc.EventLog
	}
	if fc.EventFrames > 0 && !set["event-log-frames"] {
		cfg.EventLogFrames = fc.EventFrames
	}
	if fc.Simulate != nil && !set["sim"] {
		cfg.Simulate = *fc.Simulate
	}
	if fc.Settings != "" && !set["settings"] {
		cfg.Settings = fc.Settings
	}
	if fc.DownloadDir != "" && !set["download-dir"] {
		cfg.DownloadDir = fc.DownloadDir
	}
	if fc.Quirks != "" && !set["quirks"] {
		cfg.Quirks = fc.Quirks
	}
	if len(fc.Bridges) > 0 && !set["bridge"] {
		cfg.Bridges = fc.Bridges
	}
	if fc.Discover > 0 && !set["discover-timeout"] {
		cfg.DiscoverTimeout = fc.Discover
	}
	if fc.LiveView != "" && !set["liveview"] {
		cfg.LiveView = fc.LiveView
	}
}
