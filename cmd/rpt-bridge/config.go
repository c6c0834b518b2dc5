package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file of rpt-bridge. Flags given on
// the command line take precedence over file values.
type FileConfig struct {
	Port           int           `yaml:"port"`
	Name           string        `yaml:"name"`
	LogLevel       string        `yaml:"log_level"`
	EventLog       string        `yaml:"event_log"`
	EventLogBytes  int           `yaml:"event_log_frame_bytes"`
	Interface      string        `yaml:"interface"`
	NoAdvertise    bool          `yaml:"no_advertise"`
	RefreshEvery   time.Duration `yaml:"refresh_interval"`
	LiveView       string        `yaml:"liveview_address"`
	LiveViewDevice string        `yaml:"liveview_device"`
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
	if fc.Port < 0 || fc.Port > 65535 {
		return nil, fmt.Errorf("port must be 0-65535, got %d", fc.Port)
	}
	switch fc.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log_level %q", fc.LogLevel)
	}
	if fc.EventLogBytes < 0 {
		return nil, fmt.Errorf("event_log_frame_bytes must not be negative")
	}
	if fc.RefreshEvery < 0 {
		return nil, fmt.Errorf("refresh_interval must not be negative")
	}
	return &fc, nil
}

// apply copies file values into cfg for every flag not in set.
func (fc *FileConfig) apply(cfg *Config, set map[string]bool) {
	if fc.Port != 0 && !set["port"] {
		cfg.Port = fc.Port
	}
	if fc.Name != "" && !set["name"] {
		cfg.Name = fc.Name
	}
	if fc.LogLevel != "" && !set["log-level"] {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.EventLog != "" && !set["event-log"] {
		cfg.EventLog = fc.EventLog
	}
	if fc.EventLogBytes > 0 && !set["event-log-frame-bytes"] {
		cfg.EventLogBytes = fc.EventLogBytes
	}
	if fc.Interface != "" && !set["interface"] {
		cfg.Interface = fc.Interface
	}
	if fc.NoAdvertise && !set["no-advertise"] {
		cfg.NoAdvertise = true
	}
	if fc.RefreshEvery > 0 && !set["refresh"] {
		cfg.RefreshEvery = fc.RefreshEvery
	}
	if fc.LiveView != "" && !set["liveview"] {
		cfg.LiveView = fc.LiveView
	}
	if fc.LiveViewDevice != "" && !set["liveview-device"] {
		cfg.LiveViewDevice = fc.LiveViewDevice
	}
}
