package interactive

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// releaseControl enters release control on first use and subscribes the
// shell to its events.
func (s *Shell) releaseControl() (camera.ReleaseControl, error) {
	if s.rc != nil {
		return s.rc, nil
	}
	if s.dev == nil {
		return nil, ErrNoDevice
	}
	rc, err := s.dev.EnterReleaseControl()
	if err != nil {
		return nil, err
	}
	s.rc = rc
	s.handlers[0] = rc.AddPropertyEventHandler(s.onPropertyEvent)
	s.handlers[1] = rc.AddStateEventHandler(s.onStateEvent)
	s.handlers[2] = rc.AddDownloadEventHandler(s.onDownloadEvent)
	return rc, nil
}

func (s *Shell) onPropertyEvent(ev camera.PropertyEvent) {
	if ev.ID == 0 {
		s.printf("[event] %s: all properties\n", ev.Kind)
		return
	}
	s.printf("[event] %s: 0x%04x %s\n", ev.Kind, ev.ID, s.propertyName(ev.ID))
}

func (s *Shell) onStateEvent(ev camera.StateEvent) {
	s.printf("[event] %s (%d)\n", ev.Kind, ev.Value)
}

func (s *Shell) onDownloadEvent(ev camera.DownloadEvent) {
	switch ev.Kind {
	case camera.DownloadInProgress:
		s.printf("[download] %s %d%%\n", ev.Object.Name, ev.Percent)
	case camera.DownloadFinished:
		s.printf("[download] Finished %s -> %s\n", ev.Object.Name, ev.Filename)
	default:
		s.printf("[download] %s %s\n", ev.Kind, ev.Object.Name)
	}
}

func (s *Shell) propertyName(id uint32) string {
	if s.dev == nil {
		return ""
	}
	return s.dev.PropertyName(id)
}

// resolveProperty accepts a neutral property name (ISO, Av, ...) or a
// backend id in decimal or hex.
func (s *Shell) resolveProperty(rc camera.ReleaseControl, arg string) (uint32, error) {
	if id, err := strconv.ParseUint(arg, 0, 32); err == nil {
		return uint32(id), nil
	}
	t, ok := property.ParseType(arg)
	if !ok {
		return 0, fmt.Errorf("unknown property %q", arg)
	}
	return rc.MapImagePropertyTypeToID(t)
}

// parseValue matches arg against the display text of the valid values
// of id first, then as a raw number of the current value's kind.
func (s *Shell) parseValue(rc camera.ReleaseControl, id uint32, arg string) (variant.Variant, error) {
	values, err := rc.EnumImagePropertyValues(id)
	if err == nil {
		for _, v := range values {
			if strings.EqualFold(s.dev.DisplayText(id, v), arg) {
				return v, nil
			}
		}
	}

	raw, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return variant.Variant{}, fmt.Errorf("invalid value %q", arg)
	}
	cur, err := rc.GetImageProperty(id)
	if err != nil {
		return variant.Variant{}, err
	}
	return variant.FromUint(cur.Value.Kind(), raw)
}

func (s *Shell) cmdImageProps() error {
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	ids, err := rc.EnumImageProperties()
	if err != nil {
		return err
	}
	s.println("Image properties:")
	for _, id := range ids {
		v, err := rc.GetImageProperty(id)
		if err != nil {
			s.printf("  0x%04x %-28s <%v>\n", id, s.dev.PropertyName(id), err)
			continue
		}
		s.printf("  0x%04x %-28s %s%s\n", id, s.dev.PropertyName(id), s.dev.DisplayText(id, v.Value), readOnlyMark(v.ReadOnly))
	}
	return nil
}

func (s *Shell) cmdGet(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: get <prop>")
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	id, err := s.resolveProperty(rc, args[0])
	if err != nil {
		return err
	}
	v, err := rc.GetImageProperty(id)
	if err != nil {
		return err
	}
	s.printf("%s = %s (raw %s)%s\n", s.dev.PropertyName(id), s.dev.DisplayText(id, v.Value), v.Value, readOnlyMark(v.ReadOnly))
	return nil
}

func (s *Shell) cmdSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <prop> <value>")
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	id, err := s.resolveProperty(rc, args[0])
	if err != nil {
		return err
	}
	v, err := s.parseValue(rc, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if err := rc.SetImageProperty(id, v); err != nil {
		return err
	}
	s.printf("%s set to %s\n", s.dev.PropertyName(id), s.dev.DisplayText(id, v))
	return nil
}

func (s *Shell) cmdValues(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: values <prop>")
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	id, err := s.resolveProperty(rc, args[0])
	if err != nil {
		return err
	}
	values, err := rc.EnumImagePropertyValues(id)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		s.printf("%s has no value list\n", s.dev.PropertyName(id))
		return nil
	}
	s.printf("%s values:\n", s.dev.PropertyName(id))
	for _, v := range values {
		s.printf("  %-12s %s\n", v, s.dev.DisplayText(id, v))
	}
	return nil
}

func parseShootingMode(arg string) (camera.ShootingMode, bool) {
	for _, m := range []camera.ShootingMode{camera.ShootingModeP, camera.ShootingModeTv, camera.ShootingModeAv, camera.ShootingModeM} {
		if strings.EqualFold(m.String(), arg) {
			return m, true
		}
	}
	return 0, false
}

func (s *Shell) cmdMode(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mode <P|Tv|Av|M>")
	}
	mode, ok := parseShootingMode(args[0])
	if !ok {
		return fmt.Errorf("unknown shooting mode %q", args[0])
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	v, err := rc.MapShootingModeToImagePropertyValue(mode)
	if err != nil {
		return err
	}
	id, err := rc.MapImagePropertyTypeToID(property.TypeShootingMode)
	if err != nil {
		return err
	}
	if err := rc.SetImageProperty(id, v); err != nil {
		return err
	}
	s.printf("Shooting mode set to %s\n", mode)
	return nil
}

func (s *Shell) cmdSaveTarget(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: savetarget <camera|host|both> [dir]")
	}
	target, ok := camera.ParseSaveTarget(strings.ToLower(args[0]))
	if !ok {
		return fmt.Errorf("unknown save target %q", args[0])
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	settings := rc.ReleaseSettings()
	settings.SaveTarget = target
	if len(args) > 1 {
		settings.Filename = args[1]
	}
	if err := rc.SetReleaseSettings(settings); err != nil {
		return err
	}
	s.printf("Images are stored on %s\n", target)
	return nil
}

func (s *Shell) cmdRelease() error {
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	if err := rc.Release(); err != nil {
		return err
	}
	s.println("Shutter released")
	return nil
}

func (s *Shell) cmdBulb(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: bulb <seconds> | bulb stop")
	}

	if args[0] == "stop" {
		if s.bulb == nil || !s.bulb.Active() {
			return ErrBulbNotRunning
		}
		elapsed := s.bulb.Elapsed()
		if err := s.bulb.Stop(); err != nil {
			return err
		}
		s.bulb = nil
		s.printf("Bulb exposure stopped after %s\n", elapsed.Round(time.Millisecond))
		return nil
	}

	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil || secs <= 0 {
		return fmt.Errorf("invalid exposure time %q", args[0])
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	bulb, err := rc.StartBulb()
	if err != nil {
		return err
	}
	s.bulb = bulb
	bulb.StopAfter(time.Duration(secs * float64(time.Second)))
	s.printf("Bulb exposure started for %gs\n", secs)
	return nil
}

func (s *Shell) cmdCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: command <focus|wb>")
	}
	var cmd camera.CameraCommand
	switch strings.ToLower(args[0]) {
	case "focus", "af":
		cmd = camera.CommandAdjustFocus
	case "wb", "whitebalance":
		cmd = camera.CommandAdjustWhiteBalance
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	if err := rc.SendCommand(cmd); err != nil {
		return err
	}
	s.printf("%s sent\n", cmd)
	return nil
}

func (s *Shell) cmdShots() error {
	rc, err := s.releaseControl()
	if err != nil {
		return err
	}
	n, err := rc.NumAvailableShots()
	if err != nil {
		return err
	}
	s.printf("Available shots: %d\n", n)
	return nil
}
