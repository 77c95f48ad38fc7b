package slidecast

import (
	"image/color"
	"strings"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack = Color{ARGB: "FF000000"}
	ColorWhite = Color{ARGB: "FFFFFFFF"}
)

// NewColor creates a new Color from an ARGB hex string.
// Accepts 6-char RGB (e.g. "FF0000") or 8-char ARGB (e.g. "FFFF0000").
// A leading "#" is stripped automatically.
func NewColor(argb string) Color {
	argb = strings.TrimPrefix(argb, "#")
	if len(argb) == 6 {
		argb = "FF" + argb
	}
	argb = strings.ToUpper(argb)
	if !isValidARGB(argb) {
		return Color{ARGB: "FF000000"} // fallback to black
	}
	return Color{ARGB: argb}
}

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// RGBA converts the color to the stdlib representation used for drawing.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: parseHexByte(c.ARGB, 2),
		G: parseHexByte(c.ARGB, 4),
		B: parseHexByte(c.ARGB, 6),
		A: parseHexByte(c.ARGB, 0),
	}
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// HorizontalAlignment represents horizontal text alignment.
type HorizontalAlignment string

const (
	AlignLeft   HorizontalAlignment = "l"
	AlignCenter HorizontalAlignment = "ctr"
	AlignRight  HorizontalAlignment = "r"
)

// Theme selects the deck's color palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Palette holds the colors a theme contributes to frame rendering.
type Palette struct {
	Background Color
	Surface    Color // media/chart panel background
	Headline   Color
	Body       Color
	Muted      Color // rationale, captions
	Accent     Color // bullet markers, first chart series
	AccentAlt  Color // second chart series
}

// Palette returns the colors for the theme. Unknown themes get the dark palette.
func (t Theme) Palette() Palette {
	if t == ThemeLight {
		return Palette{
			Background: NewColor("F5F6F8"),
			Surface:    NewColor("E4E7EC"),
			Headline:   NewColor("101828"),
			Body:       NewColor("344054"),
			Muted:      NewColor("667085"),
			Accent:     NewColor("1D4ED8"),
			AccentAlt:  NewColor("B45309"),
		}
	}
	return Palette{
		Background: NewColor("0B1020"),
		Surface:    NewColor("1B2236"),
		Headline:   NewColor("F8FAFC"),
		Body:       NewColor("CBD5E1"),
		Muted:      NewColor("8B93A7"),
		Accent:     NewColor("60A5FA"),
		AccentAlt:  NewColor("F59E0B"),
	}
}

// NormalizeTheme clamps a free-form theme value to the closed set.
func NormalizeTheme(t Theme) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(string(t)))) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Orientation selects the export raster dimensions.
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

// Dimensions returns the fixed export resolution for the orientation.
func (o Orientation) Dimensions() (width, height int) {
	if o == OrientationPortrait {
		return 1080, 1920
	}
	return 1920, 1080
}

// NormalizeOrientation clamps a free-form orientation value to the closed set.
func NormalizeOrientation(o Orientation) Orientation {
	if Orientation(strings.ToLower(strings.TrimSpace(string(o)))) == OrientationPortrait {
		return OrientationPortrait
	}
	return OrientationLandscape
}
