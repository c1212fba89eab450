package imaging

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat is returned when a color string is not of the form "#RRGGBB".
var ErrInvalidColorFormat = errors.New("invalid color format")

// Color is an opaque RGB color with 8-bit components.
//
// Colors carry no alpha: tinting always preserves the alpha channel of the
// source pixel, so only the three color channels are ever written.
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// ParseColor parses a color string of the exact form "#RRGGBB".
//
// The six hex digits are read as a single 24-bit value and split into its
// components: red = bits 16-23, green = bits 8-15, blue = bits 0-7. Hex
// digits are case-insensitive.
//
// # Errors
//
// All failures wrap ErrInvalidColorFormat:
//   - empty string
//   - missing "#" prefix
//   - anything other than exactly six hex digits after the "#"
//     (short "#RGB" forms, alpha suffixes and named colors are rejected)
func ParseColor(s string) (Color, error) {
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty color string", ErrInvalidColorFormat)
	}
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("%w: %q does not start with '#'", ErrInvalidColorFormat, s)
	}

	hex := s[1:]
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %q must have exactly 6 hex digits", ErrInvalidColorFormat, s)
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %w", ErrInvalidColorFormat, err)
	}

	return Color{
		R: uint8(val >> 16 & 0xFF),
		G: uint8(val >> 8 & 0xFF),
		B: uint8(val & 0xFF),
	}, nil
}

// MustParseColor is like ParseColor but panics on error.
// It is intended for package-level defaults and tests.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color in upper-case "#RRGGBB" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// NRGBA returns the color as a fully opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Colorful converts the color to a go-colorful color for color-space math.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a tint color in several representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Canonical "#RRGGBB"
	RGB Color    `json:"rgb"` // 8-bit components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// DescribeColor parses s and returns it in hex, RGB and HSL form.
//
// The HSL values are computed with go-colorful and truncated to integers,
// matching the precision callers usually display.
func DescribeColor(s string) (*ColorResult, error) {
	c, err := ParseColor(s)
	if err != nil {
		return nil, err
	}

	h, sat, l := c.Colorful().Hsl()

	return &ColorResult{
		Hex: c.Hex(),
		RGB: c,
		HSL: HSLColor{H: int(h), S: int(sat * 100), L: int(l * 100)},
	}, nil
}
