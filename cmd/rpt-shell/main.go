// Command rpt-shell is an interactive shell for remote camera control.
//
// It lists cameras of the built-in simulator and of network bridges,
// opens them, reads and writes shooting properties, releases the shutter
// and serves the viewfinder over HTTP.
//
// Usage:
//
//	rpt-shell [flags]
//
// Flags:
//
//	-config string            Configuration file path (YAML)
//	-log-level string         Log level: debug, info, warn, error (default "warn")
//	-event-log string         Write camera events to this file
//	-event-log-frames int     Keep one of every n viewfinder frame events (default 1)
//	-sim                      Offer the simulated cameras (default true)
//	-bridge list              Bridge addresses to add at startup (comma-separated)
//	-settings string          Release settings file (default "~/.rpt/settings.json")
//	-download-dir string      Directory for downloaded images (default ".")
//	-quirks string            Model quirk file replacing the built-in one
//	-discover-timeout dur     Bridge browse time (default 3s)
//	-liveview string          Live view listen address (default ":8080")
//
// Examples:
//
//	# Explore the simulated cameras
//	rpt-shell
//
//	# Use the cameras of a bridge and log all events
//	rpt-shell -sim=false -bridge studio:15741 -event-log session.rlog
//
// With -log-level debug, camera events are also written to the console.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/cmd/rpt-shell/interactive"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/bridge"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/discovery"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/liveview"
	rptlog "github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/persistence"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/profile"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
)

// Config holds the shell configuration.
type Config struct {
	ConfigFile      string
	LogLevel        string
	EventLog        string
	EventLogFrames  int
	Simulate        bool
	Bridges         stringList
	Settings        string
	DownloadDir     string
	Quirks          string
	DiscoverTimeout time.Duration
	LiveView        string
}

// stringList is a comma-separated list flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.StringVar(&config.EventLog, "event-log", "", "Write camera events to this file")
	flag.IntVar(&config.EventLogFrames, "event-log-frames", 1, "Keep one of every n viewfinder frame events")
	flag.BoolVar(&config.Simulate, "sim", true, "Offer the simulated cameras")
	flag.Var(&config.Bridges, "bridge", "Bridge addresses to add at startup (comma-separated)")
	flag.StringVar(&config.Settings, "settings", defaultSettingsPath(), "Release settings file")
	flag.StringVar(&config.DownloadDir, "download-dir", ".", "Directory for downloaded images")
	flag.StringVar(&config.Quirks, "quirks", "", "Model quirk file replacing the built-in one")
	flag.DurationVar(&config.DiscoverTimeout, "discover-timeout", 3*time.Second, "Bridge browse time")
	flag.StringVar(&config.LiveView, "liveview", liveview.DefaultConfig().Address, "Live view listen address")
}

func defaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rpt-settings.json"
	}
	return filepath.Join(home, ".rpt", "settings.json")
}

func main() {
	flag.Parse()

	if config.ConfigFile != "" {
		fc, err := LoadConfig(config.ConfigFile)
		if err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
		set := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		fc.apply(&config, set)
	}

	logger := setupLogging(config.LogLevel)

	camConfig := camera.DefaultConfig()
	camConfig.Logger = logger
	camConfig.DownloadDir = config.DownloadDir

	if config.Quirks != "" {
		quirks, err := property.LoadQuirks(config.Quirks)
		if err != nil {
			log.Fatalf("Failed to load quirks: %v", err)
		}
		camConfig.Quirks = quirks
	}

	var loggers []rptlog.Logger
	if config.EventLog != "" {
		fl, err := rptlog.OpenFileLogger(config.EventLog, rptlog.FileOptions{
			FrameEvery:   config.EventLogFrames,
			SkipProgress: config.EventLogFrames > 1,
		})
		if err != nil {
			log.Fatalf("Failed to create event log: %v", err)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}
	if config.LogLevel == "debug" {
		loggers = append(loggers, rptlog.NewSlogAdapter(logger))
	}
	var eventLogger rptlog.Logger
	if len(loggers) > 0 {
		eventLogger = rptlog.NewMultiLogger(loggers...)
		camConfig.EventLogger = eventLogger
	}

	inst := camera.New(camConfig)
	if err := profile.Register(inst); err != nil {
		log.Fatalf("Failed to register profiles: %v", err)
	}
	if config.Simulate {
		inst.RegisterModule(profile.NewSimModule(""))
	}

	bridgeConfig := bridge.DefaultClientConfig("")
	bridgeConfig.Logger = logger
	if eventLogger != nil {
		bridgeConfig.EventLogger = eventLogger
	}

	opts := interactive.Options{
		Settings:        persistence.NewSettingsStore(config.Settings),
		DiscoverTimeout: config.DiscoverTimeout,
		Bridge:          bridgeConfig,
		Logger:          logger,
	}
	opts.LiveView = liveview.DefaultConfig()
	opts.LiveView.Address = config.LiveView

	browser, err := discovery.NewMDNSBrowser(discovery.DefaultBrowserConfig())
	if err != nil {
		log.Printf("Warning: bridge discovery disabled: %v", err)
	} else {
		defer browser.Stop()
		opts.Browser = browser
	}

	shell := interactive.New(inst, opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, addr := range config.Bridges {
		shell.Execute(ctx, "bridge "+addr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Println("Remote Photo Tool shell")
	if err := shell.Run(ctx, cancel); err != nil {
		log.Fatalf("Shell failed: %v", err)
	}
}

// setupLogging configures the stdlib logger and returns the slog logger
// handed to the camera layer.
func setupLogging(level string) *slog.Logger {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	var lvl slog.Level
	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelError
	default:
		log.SetFlags(log.Ltime)
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
