// Command rpt-bridge makes the cameras attached to this host usable from
// other hosts.
//
// It serves the cameras over the bridge protocol, advertises itself via
// mDNS and can stream one camera's viewfinder over HTTP.
//
// Usage:
//
//	rpt-bridge [flags]
//
// Flags:
//
//	-config string          Configuration file path (YAML)
//	-port int               Listen port (default 15741)
//	-name string            User-friendly bridge name
//	-log-level string       Log level: debug, info, warn, error (default "info")
//	-event-log string       Write bridge frames and camera events to this file
//	-event-log-frame-bytes int  Keep at most this many payload bytes per logged frame (default: all)
//	-interface string       Network interface for mDNS (default: all)
//	-no-advertise           Do not advertise the bridge via mDNS
//	-refresh duration       Camera list refresh interval (default 30s)
//	-liveview string        Serve the viewfinder on this HTTP address
//	-liveview-device string Camera id for the live view (default: first camera)
//
// Examples:
//
//	# Serve the attached cameras
//	rpt-bridge -name Studio
//
//	# Keep one camera local and stream its viewfinder
//	rpt-bridge -liveview :8080 -liveview-device ptp-1
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/bridge"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/discovery"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/liveview"
	rptlog "github.com/vividos/RemotePhotoTool-sub000/pkg/log"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/profile"
)

// Config holds the bridge configuration.
type Config struct {
	ConfigFile     string
	Port           int
	Name           string
	LogLevel       string
	EventLog       string
	EventLogBytes  int
	Interface      string
	NoAdvertise    bool
	RefreshEvery   time.Duration
	LiveView       string
	LiveViewDevice string
}

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.IntVar(&config.Port, "port", discovery.DefaultPort, "Listen port")
	flag.StringVar(&config.Name, "name", "", "User-friendly bridge name")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.EventLog, "event-log", "", "Write bridge frames and camera events to this file")
	flag.IntVar(&config.EventLogBytes, "event-log-frame-bytes", 0, "Keep at most this many payload bytes per logged frame (default: all)")
	flag.StringVar(&config.Interface, "interface", "", "Network interface for mDNS (default: all)")
	flag.BoolVar(&config.NoAdvertise, "no-advertise", false, "Do not advertise the bridge via mDNS")
	flag.DurationVar(&config.RefreshEvery, "refresh", 30*time.Second, "Camera list refresh interval")
	flag.StringVar(&config.LiveView, "liveview", "", "Serve the viewfinder on this HTTP address")
	flag.StringVar(&config.LiveViewDevice, "liveview-device", "", "Camera id for the live view (default: first camera)")
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

	log.Println("Remote Photo Tool Bridge")
	log.Println("========================")
	log.Printf("Port: %d", config.Port)

	if err := validateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var eventLogger rptlog.Logger
	if config.EventLog != "" {
		fl, err := rptlog.OpenFileLogger(config.EventLog, rptlog.FileOptions{MaxFrameData: config.EventLogBytes})
		if err != nil {
			log.Fatalf("Failed to create event log: %v", err)
		}
		defer fl.Close()
		eventLogger = fl
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var module backend.Module = profile.NewSimModule("")

	if config.LiveView != "" {
		local, err := startLiveView(ctx, module, logger, eventLogger)
		if err != nil {
			log.Fatalf("Failed to start live view: %v", err)
		}
		defer local.stop()
		module = &hiddenModule{Module: module, hide: local.id}
		log.Printf("Live view of %s on http://%s/stream.mjpg", local.id, local.server.Addr())
	}

	srvConfig := bridge.DefaultServerConfig()
	srvConfig.Address = fmt.Sprintf(":%d", config.Port)
	srvConfig.Module = module
	srvConfig.Logger = logger
	srvConfig.EventLogger = eventLogger

	srv, err := bridge.NewServer(srvConfig)
	if err != nil {
		log.Fatalf("Failed to create bridge: %v", err)
	}
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start bridge: %v", err)
	}
	log.Printf("Bridge listening on %s", srv.Addr())

	if !config.NoAdvertise {
		adv, err := advertise(ctx, module, uint16(srv.Port()))
		if err != nil {
			log.Printf("Warning: mDNS advertisement failed: %v", err)
		} else {
			defer adv.StopBridge()
		}
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("Received signal: %v", sig)
	log.Println("Shutting down...")

	cancel()
	if err := srv.Stop(); err != nil {
		log.Printf("Error stopping bridge: %v", err)
	}

	log.Println("Goodbye!")
}

// advertise announces the bridge and keeps its TXT records current.
func advertise(ctx context.Context, module backend.Module, port uint16) (discovery.Advertiser, error) {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}

	info, err := bridgeInfo(ctx, module, discovery.BridgeID(host, port), config.Name, port)
	if err != nil {
		return nil, err
	}

	advConfig := discovery.DefaultAdvertiserConfig()
	advConfig.Interface = config.Interface
	adv, err := discovery.NewMDNSAdvertiser(advConfig)
	if err != nil {
		return nil, err
	}
	if err := adv.AdvertiseBridge(ctx, info); err != nil {
		return nil, err
	}
	log.Printf("Advertising %s (%d camera(s))", info.InstanceName(), info.DeviceCount)

	go refreshLoop(ctx, adv, module, info, config.RefreshEvery)
	return adv, nil
}

// localCamera is the camera kept on this host for the live view.
type localCamera struct {
	id     string
	dev    *camera.Device
	rc     camera.ReleaseControl
	vf     camera.Viewfinder
	server *liveview.Server
}

// startLiveView opens the live-view camera through the camera layer and
// serves its viewfinder.
func startLiveView(ctx context.Context, module backend.Module, logger *slog.Logger, events rptlog.Logger) (*localCamera, error) {
	camConfig := camera.DefaultConfig()
	camConfig.Logger = logger
	camConfig.EventLogger = events

	inst := camera.New(camConfig)
	if err := profile.Register(inst); err != nil {
		return nil, err
	}
	inst.RegisterModule(module)

	sources, err := inst.EnumerateDevices(ctx)
	if err != nil {
		return nil, err
	}
	var desc *backend.Descriptor
	for i := range sources {
		if config.LiveViewDevice == "" || sources[i].Descriptor.ID == config.LiveViewDevice {
			desc = &sources[i].Descriptor
			break
		}
	}
	if desc == nil {
		return nil, fmt.Errorf("no camera %q", config.LiveViewDevice)
	}

	local := &localCamera{id: desc.ID}
	if local.dev, err = inst.Open(ctx, *desc); err != nil {
		return nil, err
	}
	if local.rc, err = local.dev.EnterReleaseControl(); err != nil {
		local.stop()
		return nil, err
	}
	if local.vf, err = local.rc.StartViewfinder(); err != nil {
		local.stop()
		return nil, err
	}

	lvConfig := liveview.DefaultConfig()
	lvConfig.Address = config.LiveView
	lvConfig.Logger = logger
	local.server = liveview.NewServer(lvConfig, local.vf, local.rc, local.dev)
	if err := local.server.Start(); err != nil {
		local.server = nil
		local.stop()
		return nil, err
	}
	return local, nil
}

func (c *localCamera) stop() {
	if c.server != nil {
		c.server.Stop()
	}
	if c.vf != nil {
		c.vf.Close()
	}
	if c.rc != nil {
		c.rc.Close()
	}
	if c.dev != nil {
		c.dev.Close()
	}
}

// setupLogging configures the stdlib logger and returns the slog logger
// handed to the bridge.
func setupLogging(level string) *slog.Logger {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
		lvl = slog.LevelDebug
	case "warn":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelWarn
	case "error":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func validateConfig() error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port must be 0-65535, got %d", config.Port)
	}
	if config.RefreshEvery <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", config.RefreshEvery)
	}
	return nil
}
