package persistence

import (
	"errors"
	"fmt"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// DefaultProperties are the image properties Capture records when no
// list is given.
var DefaultProperties = []property.Type{
	property.TypeShootingMode,
	property.TypeDriveMode,
	property.TypeISOSpeed,
	property.TypeMeteringMode,
	property.TypeAFMode,
	property.TypeAv,
	property.TypeTv,
	property.TypeExposureCompensation,
	property.TypeFlashCompensation,
	property.TypeFlashMode,
	property.TypeWhiteBalance,
	property.TypeImageFormat,
}

// Capture records the current release settings and the writable values of
// the given image properties. Properties the camera lacks are skipped.
func Capture(dev camera.SourceDevice, rc camera.ReleaseControl, types []property.Type) CameraSettings {
	if types == nil {
		types = DefaultProperties
	}

	rs := rc.ReleaseSettings()
	settings := CameraSettings{
		Model:       dev.ModelName(),
		Serial:      dev.SerialNumber(),
		DownloadDir: rs.Filename,
		Properties:  make(map[string]uint32),
		UpdatedAt:   time.Now(),
	}
	if rs.SaveTarget != 0 {
		settings.SaveTarget = rs.SaveTarget.String()
	}

	for _, t := range types {
		id, err := rc.MapImagePropertyTypeToID(t)
		if err != nil {
			continue
		}
		value, err := rc.GetImageProperty(id)
		if err != nil || value.ReadOnly {
			continue
		}
		raw, err := value.Value.Uint32()
		if err != nil {
			continue
		}
		settings.Properties[t.String()] = raw
	}
	return settings
}

// Apply restores settings on a release control. Every property is tried;
// the returned error joins all failures.
func Apply(rc camera.ReleaseControl, settings CameraSettings) error {
	var errs []error

	if settings.SaveTarget != "" || settings.DownloadDir != "" {
		rs := rc.ReleaseSettings()
		if settings.SaveTarget != "" {
			target, ok := camera.ParseSaveTarget(settings.SaveTarget)
			if !ok {
				errs = append(errs, fmt.Errorf("save target %q: unknown", settings.SaveTarget))
			} else {
				rs.SaveTarget = target
			}
		}
		if settings.DownloadDir != "" {
			rs.Filename = settings.DownloadDir
		}
		if err := rc.SetReleaseSettings(rs); err != nil {
			errs = append(errs, fmt.Errorf("release settings: %w", err))
		}
	}

	for name, raw := range settings.Properties {
		if err := applyProperty(rc, name, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func applyProperty(rc camera.ReleaseControl, name string, raw uint32) error {
	t, ok := property.ParseType(name)
	if !ok {
		return errors.New("unknown property")
	}
	id, err := rc.MapImagePropertyTypeToID(t)
	if err != nil {
		return err
	}
	current, err := rc.GetImageProperty(id)
	if err != nil {
		return err
	}
	if current.ReadOnly {
		return errors.New("read-only")
	}
	if v, _ := current.Value.Uint32(); v == raw {
		return nil
	}
	value, err := variant.FromUint(current.Value.Kind(), uint64(raw))
	if err != nil {
		return err
	}
	return rc.SetImageProperty(id, value)
}
