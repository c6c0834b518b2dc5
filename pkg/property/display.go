package property

import (
	"fmt"
	"math"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// LookupTable maps raw values to display text.
type LookupTable map[uint32]string

// Formatter returns a formatter using the table. Misses render as
// "??? (0x%08x)".
func (t LookupTable) Formatter() Formatter {
	return func(v variant.Variant) string {
		x, err := v.Uint32()
		if err != nil {
			return v.String()
		}
		if text, ok := t[x]; ok {
			return text
		}
		return fmt.Sprintf("??? (0x%08x)", x)
	}
}

// Display tables shared by the built-in profiles.
var (
	ShootingModeText = LookupTable{
		0: "P", 1: "Tv", 2: "Av", 3: "M", 4: "Bulb", 5: "A-DEP", 6: "DEP",
		7: "Custom 1", 9: "Auto", 10: "Night Scene Portrait", 11: "Sports",
		12: "Portrait", 13: "Landscape", 14: "Close-Up", 15: "Flash Off",
		16: "Custom 2", 17: "Custom 3", 19: "Creative Auto",
	}

	DriveModeText = LookupTable{
		0x00: "Single-Frame Shooting",
		0x01: "Continuous Shooting",
		0x02: "Video",
		0x04: "High-Speed Continuous Shooting",
		0x05: "Low-Speed Continuous Shooting",
		0x06: "Silent single shooting",
		0x07: "10 Second Self-Timer plus continuous shots",
		0x10: "10 Second Self-Timer",
		0x11: "2 Second Self-Timer",
	}

	MeteringModeText = LookupTable{
		1: "Spot metering",
		3: "Evaluative metering",
		4: "Partial metering",
		5: "Center-weighted averaging metering",
	}

	AFModeText = LookupTable{
		0: "One-Shot AF", 1: "AI Servo AF", 2: "AI Focus AF", 3: "Manual Focus",
	}

	WhiteBalanceText = LookupTable{
		0: "Auto", 1: "Daylight", 2: "Cloudy", 3: "Tungsten", 4: "Fluorescent",
		5: "Flash", 6: "Manual", 8: "Shade", 9: "Color temp.", 10: "PC-1",
		11: "PC-2", 12: "PC-3", 15: "Manual 2", 16: "Manual 3", 18: "Manual 4",
		19: "Manual 5", 20: "PC-4", 21: "PC-5",
	}

	SaveToText = LookupTable{
		1: "Camera", 2: "Host", 3: "Camera and Host",
	}

	FlashModeText = LookupTable{
		0: "No flash", 1: "Flash",
	}

	BatteryQualityText = LookupTable{
		3: "Full", 2: "High", 1: "Half", 0: "Low",
	}

	LiveViewOutputText = LookupTable{
		0: "Off", 1: "Camera", 2: "PC", 3: "Camera and PC", 4: "Video", 6: "Video and PC",
	}

	// LegacyShootingModeText covers the older release-control SDK modes.
	LegacyShootingModeText = LookupTable{
		0x0000: "Auto", 0x0001: "Program", 0x0002: "Tv", 0x0003: "Av",
		0x0004: "Manual", 0x0005: "A Dep", 0x0006: "M Dep", 0x0007: "Bulb",
		0x0065: "Manual 2", 0x0066: "Far scene", 0x0067: "Fast shutter",
		0x0068: "Slow shutter", 0x0069: "Night scene", 0x006a: "Grayscale",
		0x006b: "Sepia", 0x006c: "Portrait", 0x006d: "Spot", 0x006e: "Macro",
		0x006f: "B/W", 0x0070: "Pan focus", 0x0071: "Vivid", 0x0072: "Neutral",
		0xffff: "Invalid",
	}
)

// FormatISO renders APEX coded ISO speeds: 0x48 is ISO 100 and every
// step of 8 doubles it.
func FormatISO(v variant.Variant) string {
	x, err := v.Uint32()
	if err != nil {
		return v.String()
	}

	switch x {
	case 0x00:
		return "Auto"
	case 0x28:
		return "6"
	case 0x2b:
		return "8"
	case 0x2d:
		return "10"
	case 0x30:
		return "12"
	case 0x33:
		return "16"
	case 0x35:
		return "20"
	case 0x38:
		return "25"
	case 0x3b:
		return "32"
	case 0x3d:
		return "40"
	case 0x40:
		return "50"
	case 0x43:
		return "64"
	case 0x45:
		return "80"
	case 0xff, 0xffff, 0xffffffff:
		return "Invalid"
	}

	if x >= 0x48 && x <= 0x98 && x&7 == 0 {
		return fmt.Sprintf("%d", 100<<((x-0x48)/8))
	}
	return "???"
}

// FormatAperture renders APEX coded aperture values.
func FormatAperture(v variant.Variant) string {
	x, err := v.Uint32()
	if err != nil {
		return v.String()
	}

	switch x {
	case 0x0000:
		return "No lens"
	case 0xffff:
		return "N/A"
	case 0x7fff:
		return "Open"
	case 0x7ffe:
		return "Av max"
	// not representable by the stop arithmetic below
	case 0x25:
		return "f/3.5"
	case 0x33:
		return "f/6.3"
	case 0x43:
		return "f/13"
	}

	if x < 0x08 || x > 0x70 {
		return "???"
	}

	// 0x10 per full stop, 0x08 is f/1.0
	stops := (x - 8) / 0x10
	factor := 1.0
	switch (x - 8) & 0x0f {
	case 0:
	case 3:
		factor = 36.0 / 32.0
	case 4:
		factor = 38.0 / 32.0
	case 5:
		factor = 40.0 / 32.0
	case 8:
		factor = 45.0 / 32.0
	case 11:
		factor = 51.0 / 32.0
	case 12:
		factor = 54.0 / 32.0
	case 13:
		factor = 57.0 / 32.0
	default:
		return "???"
	}

	f := math.Pow(2, float64(stops))*factor + 0.05
	whole := uint32(f)
	if x <= 0x3c {
		return fmt.Sprintf("f/%d.%d", whole, uint32((f-float64(whole))*10))
	}
	return fmt.Sprintf("f/%d", whole)
}

var shutterSpeedText = LookupTable{
	0x04: "Bulb", 0x0c: "Bulb",
	0x10: `30"`, 0x13: `25"`, 0x14: `20"`, 0x15: `20"`, 0x18: `15"`,
	0x1b: `13"`, 0x1c: `10"`, 0x1d: `10"`, 0x20: `8"`, 0x23: `6"`,
	0x24: `6"`, 0x25: `5"`, 0x28: `4"`, 0x2b: `3"2`, 0x2c: `3"`,
	0x2d: `2"5`, 0x30: `2"`, 0x33: `1"6`, 0x34: `1"5`, 0x35: `1"3`,
	0x38: `1"`, 0x3b: `0"8`, 0x3c: `0"7`, 0x3d: `0"6`, 0x40: `0"5`,
	0x43: `0"4`, 0x44: `0"3`, 0x45: `0"3`,
	0x48: "1/4", 0x4b: "1/5", 0x4c: "1/6", 0x4d: "1/6", 0x50: "1/8",
	0x53: "1/10", 0x54: "1/10", 0x55: "1/13", 0x58: "1/15", 0x5b: "1/20",
	0x5c: "1/20", 0x5d: "1/25", 0x60: "1/30", 0x63: "1/40", 0x64: "1/45",
	0x65: "1/50", 0x68: "1/60", 0x6b: "1/80", 0x6c: "1/90", 0x6d: "1/100",
	0x70: "1/125", 0x73: "1/160", 0x74: "1/180", 0x75: "1/200", 0x78: "1/250",
	0x7b: "1/320", 0x7c: "1/350", 0x7d: "1/400", 0x80: "1/500", 0x83: "1/640",
	0x84: "1/750", 0x85: "1/800", 0x88: "1/1000", 0x8b: "1/1250", 0x8c: "1/1500",
	0x8d: "1/1600", 0x90: "1/2000", 0x93: "1/2500", 0x94: "1/3000", 0x95: "1/3200",
	0x98: "1/4000", 0x9b: "1/5000", 0x9c: "1/6000", 0x9d: "1/6400", 0xa0: "1/8000",
	0x00: "N/A", 0xffff: "N/A",
}

// FormatShutterSpeed renders APEX coded shutter speeds.
func FormatShutterSpeed(v variant.Variant) string {
	x, err := v.Uint32()
	if err != nil {
		return v.String()
	}
	if text, ok := shutterSpeedText[x]; ok {
		return text
	}
	return "???"
}

// FormatCompensation renders exposure compensation stored as a signed
// byte in eighth stops (0x18 is +3 EV, 0xe8 is -3 EV).
func FormatCompensation(v variant.Variant) string {
	x, err := v.Uint32()
	if err != nil {
		return v.String()
	}
	return formatEighthStops(int(int8(uint8(x))))
}

// FormatLegacyCompensation renders exposure compensation stored as an
// offset from +3 EV (0x00 is +3 EV, 0x18 is 0, 0x30 is -3 EV).
func FormatLegacyCompensation(v variant.Variant) string {
	x, err := v.Uint32()
	if err != nil {
		return v.String()
	}
	if x == 0xff {
		return "N/A"
	}
	return formatEighthStops(0x18 - int(x))
}

func formatEighthStops(n int) string {
	if n == 0 {
		return "0"
	}

	sign := '+'
	if n < 0 {
		sign = '-'
		n = -n
	}
	whole, frac := n/8, n&7

	fraction := "???"
	switch frac {
	case 3:
		fraction = "1/3"
	case 4:
		fraction = "1/2"
	case 5:
		fraction = "2/3"
	}

	switch {
	case whole == 0:
		return fmt.Sprintf("%c%s", sign, fraction)
	case frac == 0:
		return fmt.Sprintf("%c%d", sign, whole)
	default:
		return fmt.Sprintf("%c%d (%s)", sign, whole, fraction)
	}
}

// FormatBatteryLevel renders a battery percentage; -1 means AC power.
func FormatBatteryLevel(v variant.Variant) string {
	x, err := v.Uint32()
	if err != nil {
		return v.String()
	}
	if int32(x) == -1 {
		return "AC"
	}
	return fmt.Sprintf("%d%%", int32(x))
}

// FormatFocalLength renders a focal length given in millimeters.
func FormatFocalLength(v variant.Variant) string {
	x, err := v.Uint32()
	if err != nil {
		return v.String()
	}
	return fmt.Sprintf("%d mm", x)
}

// FormatDecimal renders an unsigned value in decimal.
func FormatDecimal(v variant.Variant) string {
	x, err := v.Uint32()
	if err != nil {
		return v.String()
	}
	return fmt.Sprintf("%d", x)
}
