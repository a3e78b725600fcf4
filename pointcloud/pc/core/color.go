package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// DefaultColorHex is the initial energy color.
const DefaultColorHex = "#00aaff"

var ErrInvalidColor = errors.New("invalid color")

// Color is a linear RGB triple in [0,1], shared by every point of a field.
type Color struct {
	R, G, B float32
}

var DefaultColor = MustParseColor(DefaultColorHex)

// ParseColor accepts #rrggbb, #rgb or an SVG color name such as "deepskyblue".
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return Color{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if !strings.HasPrefix(v, "#") {
		c, ok := colornames.Map[v]
		if !ok {
			return Color{}, fmt.Errorf("%w: unknown name %q", ErrInvalidColor, s)
		}
		return Color{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}, nil
	}

	hex := v[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{
		R: float32((n>>16)&0xff) / 255,
		G: float32((n>>8)&0xff) / 255,
		B: float32(n&0xff) / 255,
	}, nil
}

func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
