package interactive

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/bridge"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/discovery"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/liveview"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/persistence"
)

var histogramChannels = map[string]camera.HistogramType{
	"luminance": camera.HistogramLuminance,
	"lum":       camera.HistogramLuminance,
	"red":       camera.HistogramRed,
	"green":     camera.HistogramGreen,
	"blue":      camera.HistogramBlue,
}

var outputTypes = map[string]camera.OutputType{
	"lcd":   camera.OutputLCD,
	"video": camera.OutputVideoOut,
	"off":   camera.OutputOff,
}

func (s *Shell) countFrame([]byte) {
	s.frames.Add(1)
}

func (s *Shell) cmdViewfinder(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: viewfinder start|stop|status|output <lcd|video|off>")
	}

	switch strings.ToLower(args[0]) {
	case "start":
		if s.vf != nil {
			s.println("Viewfinder already running")
			return nil
		}
		rc, err := s.releaseControl()
		if err != nil {
			return err
		}
		vf, err := rc.StartViewfinder()
		if err != nil {
			return err
		}
		s.frames.Store(0)
		if err := vf.SetAvailImageHandler(s.countFrame); err != nil {
			vf.Close()
			return err
		}
		s.vf = vf
		s.println("Viewfinder started")

	case "stop":
		if s.vf == nil {
			return ErrNoViewfinder
		}
		s.stopLiveView()
		s.vf.Close()
		s.vf = nil
		s.printf("Viewfinder stopped (%d frames)\n", s.frames.Load())

	case "status":
		if s.vf == nil {
			s.println("Viewfinder: stopped")
			return nil
		}
		s.printf("Viewfinder: running, %d frames\n", s.frames.Load())
		if s.live != nil {
			frames, clients := s.live.Hub().Stats()
			s.printf("Live view:  %s, %d frames, %d clients\n", s.live.Addr(), frames, clients)
		}

	case "output":
		if s.vf == nil {
			return ErrNoViewfinder
		}
		if len(args) < 2 {
			return fmt.Errorf("usage: viewfinder output <lcd|video|off>")
		}
		t, ok := outputTypes[strings.ToLower(args[1])]
		if !ok {
			return fmt.Errorf("unknown output %q", args[1])
		}
		if err := s.vf.SetOutputType(t); err != nil {
			return err
		}
		s.printf("Viewfinder output set to %s\n", t)

	default:
		return fmt.Errorf("unknown viewfinder command %q", args[0])
	}
	return nil
}

func (s *Shell) cmdHistogram(args []string) error {
	if s.vf == nil {
		return ErrNoViewfinder
	}
	channel := "luminance"
	if len(args) > 0 {
		channel = strings.ToLower(args[0])
	}
	t, ok := histogramChannels[channel]
	if !ok {
		return fmt.Errorf("unknown histogram channel %q", channel)
	}
	if !s.vf.GetCapability(camera.CapGetHistogram) {
		return fmt.Errorf("camera does not provide histograms")
	}

	bins := s.vf.GetHistogram(t)
	if len(bins) == 0 {
		s.printf("%s histogram: no data yet\n", t)
		return nil
	}

	var peak, total uint64
	peakBin := 0
	for i, b := range bins {
		total += uint64(b)
		if uint64(b) > peak {
			peak, peakBin = uint64(b), i
		}
	}
	s.printf("%s histogram: %d bins, %d samples, peak %d at bin %d\n", t, len(bins), total, peak, peakBin)
	return nil
}

func (s *Shell) cmdLiveView(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: liveview start [addr] | liveview stop")
	}

	switch strings.ToLower(args[0]) {
	case "start":
		if s.vf == nil {
			return ErrNoViewfinder
		}
		if s.live != nil {
			s.printf("Live view already serving on %s\n", s.live.Addr())
			return nil
		}
		config := s.opts.LiveView
		if len(args) > 1 {
			config.Address = args[1]
		}
		if config.Logger == nil {
			config.Logger = s.opts.Logger
		}
		srv := liveview.NewServer(config, s.vf, s.rc, s.dev)
		if err := srv.Start(); err != nil {
			return err
		}
		s.live = srv
		s.printf("Live view serving on http://%s/stream.mjpg\n", srv.Addr())

	case "stop":
		if s.live == nil {
			return ErrLiveViewInactive
		}
		s.stopLiveView()
		s.println("Live view stopped")

	default:
		return fmt.Errorf("unknown liveview command %q", args[0])
	}
	return nil
}

// stopLiveView stops the HTTP server and hands the frames back to the
// shell's frame counter.
func (s *Shell) stopLiveView() {
	if s.live == nil {
		return
	}
	s.live.Stop()
	s.live = nil
	if s.vf != nil {
		_ = s.vf.SetAvailImageHandler(s.countFrame)
	}
}

func (s *Shell) cmdSave() error {
	if s.opts.Settings == nil {
		return ErrNoSettingsStore
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	settings := persistence.Capture(s.dev, rc, nil)
	if err := s.opts.Settings.Put(settings); err != nil {
		return err
	}
	s.printf("Saved %d properties for %s\n", len(settings.Properties), settings.Key())
	return nil
}

func (s *Shell) cmdRestore() error {
	if s.opts.Settings == nil {
		return ErrNoSettingsStore
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	settings, ok, err := s.opts.Settings.Get(s.dev.ModelName(), s.dev.SerialNumber())
	if err != nil {
		return err
	}
	if !ok {
		s.printf("No saved settings for %s\n", persistence.Key(s.dev.ModelName(), s.dev.SerialNumber()))
		return nil
	}
	if err := persistence.Apply(rc, settings); err != nil {
		return fmt.Errorf("restore incomplete: %w", err)
	}
	s.printf("Restored %d properties\n", len(settings.Properties))
	return nil
}

func (s *Shell) cmdDiscover(ctx context.Context) error {
	if s.opts.Browser == nil {
		return ErrNoBrowser
	}
	s.printf("Browsing for bridges (%s)...\n", s.opts.DiscoverTimeout)
	found, err := discovery.Collect(ctx, s.opts.Browser, s.opts.DiscoverTimeout)
	if err != nil {
		return err
	}
	s.found = found

	if len(found) == 0 {
		s.println("No bridges found.")
		return nil
	}
	for i, svc := range found {
		s.printf("  %d. %-24s %s", i+1, svc.DisplayName(), svc.Address())
		if svc.DeviceCount > 0 {
			s.printf("  %d camera(s): %s", svc.DeviceCount, strings.Join(svc.Models, ", "))
		}
		s.println()
	}
	return nil
}

func (s *Shell) cmdBridge(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: bridge <host:port|n>")
	}
	address := args[0]
	if n, err := strconv.Atoi(address); err == nil {
		if n < 1 || n > len(s.found) {
			return fmt.Errorf("no bridge number %d (use 'discover')", n)
		}
		address = s.found[n-1].Address()
	}

	config := s.opts.Bridge
	config.Address = address
	if config.Logger == nil {
		config.Logger = s.opts.Logger
	}

	name := "bridge@" + address
	if old, ok := s.bridges[name]; ok {
		_ = old.Close()
	}
	m := bridge.NewModule(name, config)
	descs, err := m.Enumerate(ctx)
	if err != nil {
		_ = m.Close()
		return err
	}
	s.inst.RegisterModule(m)
	s.bridges[name] = m
	s.sources = nil

	s.printf("Bridge %s: %d camera(s) (use 'list')\n", address, len(descs))
	return nil
}
