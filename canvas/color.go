package canvas

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a straight (non-premultiplied) RGBA color with 8-bit channels.
// Colors are comparable values; equality is channel-wise.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the fully transparent color. New canvases start filled with it.
var Transparent = Color{}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// FromInts builds a color from integer channels, failing if any channel is
// outside [0, 255].
func FromInts(r, g, b, a int) (Color, error) {
	chans := [4]int{r, g, b, a}
	for i, v := range chans {
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("channel %c out of range: %d", "RGBA"[i], v)
		}
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional).
// Six-digit colors are opaque.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// IsTransparent reports whether the color has zero alpha.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

// String renders the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Overlay composites top over bottom (Porter-Duff "over").
//
// All arithmetic is done in uint32 on values scaled by 255, so the result is
// exact up to the final rounding. Overlay is order dependent: the paint
// order of strokes matters.
func Overlay(top, bottom Color) Color {
	if top.A == 0 {
		// Nothing is painted. This is also the division-by-zero case when
		// bottom is transparent too.
		return bottom
	}
	if top.A == 255 {
		return top
	}

	ta := uint32(top.A)
	inv := 255 - ta
	ba := uint32(bottom.A)

	// alpha scaled by 255
	denom := ta*255 + ba*inv
	if denom == 0 {
		return Transparent
	}

	channel := func(t, b uint8) uint8 {
		num := uint32(t)*ta*255 + uint32(b)*ba*inv
		return clamp8((num + denom/2) / denom)
	}

	return Color{
		R: channel(top.R, bottom.R),
		G: channel(top.G, bottom.G),
		B: channel(top.B, bottom.B),
		A: clamp8((denom + 127) / 255),
	}
}

func clamp8(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}
