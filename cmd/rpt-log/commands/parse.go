// Package commands implements the rpt-log CLI commands.
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
)

// FilterOptions holds the string form of filter flags.
type FilterOptions struct {
	SessionID  string
	Model      string
	PropertyID string
	TimeStart  string
	TimeEnd    string
	Layer      string
	Direction  string
	Category   string
}

// BuildFilter parses the options into a log filter.
func BuildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{
		SessionID: opts.SessionID,
		Model:     opts.Model,
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if opts.PropertyID != "" {
		id, err := strconv.ParseUint(opts.PropertyID, 0, 32)
		if err != nil {
			return filter, fmt.Errorf("invalid property id: %s", opts.PropertyID)
		}
		pid := uint32(id)
		filter.PropertyID = &pid
	}

	if opts.Layer != "" {
		l, err := ParseLayerFlag(opts.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}

	if opts.Direction != "" {
		d, err := ParseDirectionFlag(opts.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}

	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}

	return filter, nil
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "driver":
		return log.LayerDriver, nil
	case "camera":
		return log.LayerCamera, nil
	case "bridge":
		return log.LayerBridge, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be driver, camera, or bridge)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be property, state, download, release, error, or frame)", s)
	}
	return c, nil
}
