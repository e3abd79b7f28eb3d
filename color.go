package textplane

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// White is opaque white, the color written on Emoji vertices.
var White = [4]float32{1, 1, 1, 1}

// ColorFromARGB converts a packed 0xAARRGGBB color to RGBA components in
// [0, 1]. Editor themes and style spans carry colors in this form.
func ColorFromARGB(argb uint32) [4]float32 {
	return [4]float32{
		float32((argb>>16)&0xff) / 255,
		float32((argb>>8)&0xff) / 255,
		float32(argb&0xff) / 255,
		float32(argb>>24) / 255,
	}
}

// ColorToARGB packs RGBA components into 0xAARRGGBB, clamping to [0, 1].
func ColorToARGB(c [4]float32) uint32 {
	return to8(c[3])<<24 | to8(c[0])<<16 | to8(c[1])<<8 | to8(c[2])
}

func to8(v float32) uint32 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint32(math.Round(float64(v) * 255))
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is
// optional).
func ParseColor(s string) ([4]float32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 6, 8:
	default:
		return [4]float32{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	alpha := float32(1)
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return [4]float32{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		alpha = float32(a) / 255
		hex = hex[:6]
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return [4]float32{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, s, err)
	}
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), alpha}, nil
}

// ColorFromStd converts a standard library color to straight-alpha RGBA.
func ColorFromStd(c color.Color) [4]float32 {
	_, _, _, a := c.RGBA()
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return [4]float32{}
	}
	return [4]float32{float32(cf.R), float32(cf.G), float32(cf.B), float32(a) / 0xffff}
}
