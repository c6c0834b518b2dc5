package interactive

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
)

var sourceCapabilities = []camera.SourceCapability{
	camera.CapRemoteReleaseControl,
	camera.CapRemoteViewfinder,
	camera.CapCameraFileSystem,
}

var releaseCapabilities = []camera.ReleaseCapability{
	camera.CapChangeShootingParameter,
	camera.CapChangeShootingMode,
	camera.CapZoomControl,
	camera.CapViewfinder,
	camera.CapReleaseWhileViewfinder,
	camera.CapAFLock,
	camera.CapBulbMode,
	camera.CapUILock,
}

func (s *Shell) cmdList(ctx context.Context) error {
	sources, err := s.inst.EnumerateDevices(ctx)
	if err != nil {
		return err
	}
	s.sources = sources

	if len(sources) == 0 {
		s.println("No cameras connected.")
		return nil
	}
	s.println("Cameras:")
	for i, src := range sources {
		s.printf("  %d. %-24s %s\n", i+1, src.Name, src.Descriptor)
	}
	return nil
}

// selectSource resolves a list index or a "module:id" descriptor string.
func (s *Shell) selectSource(ctx context.Context, arg string) (camera.SourceInfo, error) {
	if len(s.sources) == 0 {
		sources, err := s.inst.EnumerateDevices(ctx)
		if err != nil {
			return camera.SourceInfo{}, err
		}
		s.sources = sources
	}

	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(s.sources) {
			return camera.SourceInfo{}, fmt.Errorf("no camera number %d (use 'list')", n)
		}
		return s.sources[n-1], nil
	}
	for _, src := range s.sources {
		if src.Descriptor.String() == arg {
			return src, nil
		}
	}
	return camera.SourceInfo{}, fmt.Errorf("unknown camera %q (use 'list')", arg)
}

func (s *Shell) cmdOpen(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: open <n>")
	}
	src, err := s.selectSource(ctx, args[0])
	if err != nil {
		return err
	}

	s.closeDevice()

	dev, err := s.inst.Open(ctx, src.Descriptor)
	if err != nil {
		return err
	}
	s.dev = dev
	s.printf("Opened %s (serial %s)\n", dev.ModelName(), dev.SerialNumber())

	if s.opts.Settings != nil {
		if _, ok, err := s.opts.Settings.Get(dev.ModelName(), dev.SerialNumber()); err == nil && ok {
			s.println("Saved release settings found (use 'restore' to apply them).")
		}
	}
	return nil
}

func (s *Shell) cmdClose() error {
	if s.dev == nil {
		return ErrNoDevice
	}
	name := s.dev.ModelName()
	s.closeDevice()
	s.printf("Closed %s\n", name)
	return nil
}

// closeDevice tears down the live view, the viewfinder, the release
// control and the device in that order.
func (s *Shell) closeDevice() {
	s.stopLiveView()
	if s.bulb != nil && s.bulb.Active() {
		if err := s.bulb.Stop(); err != nil && s.opts.Logger != nil {
			s.opts.Logger.Debug("stopping bulb failed", slog.String("error", err.Error()))
		}
	}
	s.bulb = nil
	if s.vf != nil {
		s.vf.Close()
		s.vf = nil
	}
	if s.rc != nil {
		s.rc.RemovePropertyEventHandler(s.handlers[0])
		s.rc.RemoveStateEventHandler(s.handlers[1])
		s.rc.RemoveDownloadEventHandler(s.handlers[2])
		s.rc.Close()
		s.rc = nil
	}
	if s.dev != nil {
		s.dev.Close()
		s.dev = nil
	}
}

func (s *Shell) cmdInfo() error {
	if s.dev == nil {
		return ErrNoDevice
	}
	desc := s.dev.Descriptor()
	s.println("Camera:")
	s.printf("  Model:    %s\n", s.dev.ModelName())
	s.printf("  Serial:   %s\n", s.dev.SerialNumber())
	s.printf("  Device:   %s\n", desc)
	s.printf("  Profile:  %s\n", desc.Profile)

	var caps []string
	for _, c := range sourceCapabilities {
		if s.dev.Capability(c) {
			caps = append(caps, c.String())
		}
	}
	s.printf("  Capabilities: %s\n", strings.Join(caps, ", "))

	if s.rc != nil {
		caps = caps[:0]
		for _, c := range releaseCapabilities {
			if s.rc.GetCapability(c) {
				caps = append(caps, c.String())
			}
		}
		s.printf("  Release:  %s\n", strings.Join(caps, ", "))
		settings := s.rc.ReleaseSettings()
		s.printf("  State:    %s\n", s.rc.State())
		s.printf("  Save to:  %s\n", settings.SaveTarget)
		if settings.Filename != "" {
			s.printf("  Filename: %s\n", settings.Filename)
		}
	}
	return nil
}

func (s *Shell) cmdProps() error {
	if s.dev == nil {
		return ErrNoDevice
	}
	ids, err := s.dev.EnumDeviceProperties()
	if err != nil {
		return err
	}
	s.println("Device properties:")
	for _, id := range ids {
		v, err := s.dev.GetDeviceProperty(id)
		if err != nil {
			s.printf("  0x%04x %-28s <%v>\n", id, s.dev.PropertyName(id), err)
			continue
		}
		s.printf("  0x%04x %-28s %s%s\n", id, s.dev.PropertyName(id), s.dev.DisplayText(id, v.Value), readOnlyMark(v.ReadOnly))
	}
	return nil
}

func readOnlyMark(ro bool) string {
	if ro {
		return " (read-only)"
	}
	return ""
}
