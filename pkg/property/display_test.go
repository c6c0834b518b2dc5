package property

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format Formatter
		value  variant.Variant
		want   string
	}{
		{"iso auto", FormatISO, variant.Of(uint16(0)), "Auto"},
		{"iso 100", FormatISO, variant.Of(uint16(0x48)), "100"},
		{"iso 400", FormatISO, variant.Of(uint16(0x58)), "400"},
		{"iso 50", FormatISO, variant.Of(uint16(0x40)), "50"},
		{"iso odd", FormatISO, variant.Of(uint16(0x49)), "???"},
		{"aperture f/2.0", FormatAperture, variant.Of(uint16(0x18)), "f/2.0"},
		{"aperture f/2.8", FormatAperture, variant.Of(uint16(0x20)), "f/2.8"},
		{"aperture f/8.0", FormatAperture, variant.Of(uint16(0x38)), "f/8.0"},
		{"aperture open", FormatAperture, variant.Of(uint16(0x7fff)), "Open"},
		{"aperture no lens", FormatAperture, variant.Of(uint16(0)), "No lens"},
		{"shutter 1/1000", FormatShutterSpeed, variant.Of(uint16(0x88)), "1/1000"},
		{"shutter 15s", FormatShutterSpeed, variant.Of(uint16(0x18)), `15"`},
		{"shutter bulb", FormatShutterSpeed, variant.Of(uint16(0x0c)), "Bulb"},
		{"shutter unknown", FormatShutterSpeed, variant.Of(uint16(0x01)), "???"},
		{"compensation zero", FormatCompensation, variant.Of(uint8(0)), "0"},
		{"compensation +3", FormatCompensation, variant.Of(uint8(0x18)), "+3"},
		{"compensation -3", FormatCompensation, variant.Of(uint8(0xe8)), "-3"},
		{"compensation +1 1/3", FormatCompensation, variant.Of(uint8(0x0b)), "+1 (1/3)"},
		{"compensation -1/2", FormatCompensation, variant.Of(uint8(0xfc)), "-1/2"},
		{"legacy compensation zero", FormatLegacyCompensation, variant.Of(uint8(0x18)), "0"},
		{"legacy compensation +3", FormatLegacyCompensation, variant.Of(uint8(0)), "+3"},
		{"legacy compensation n/a", FormatLegacyCompensation, variant.Of(uint8(0xff)), "N/A"},
		{"battery ac", FormatBatteryLevel, variant.Of(int32(-1)), "AC"},
		{"battery percent", FormatBatteryLevel, variant.Of(uint32(80)), "80%"},
		{"focal length", FormatFocalLength, variant.Of(uint16(35)), "35 mm"},
		{"decimal", FormatDecimal, variant.Of(uint32(1234)), "1234"},
		{"lookup hit", ShootingModeText.Formatter(), variant.Of(uint16(3)), "M"},
		{"lookup miss", ShootingModeText.Formatter(), variant.Of(uint16(0x77)), "??? (0x00000077)"},
		{"lookup non integer", SaveToText.Formatter(), variant.Of("host"), "host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format(tt.value))
		})
	}
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "Av", TypeAv.String())
	assert.Equal(t, "Unknown", Type(999).String())

	typ, ok := ParseType("shootingmode")
	assert.True(t, ok)
	assert.Equal(t, TypeShootingMode, typ)

	_, ok = ParseType("nope")
	assert.False(t, ok)
}
