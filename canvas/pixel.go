package canvas

import "image"

// PixelCanvas is a raster canvas. Every pixel write composites the pen color
// over what is already there, so overlapping strokes accumulate.
//
// Program coordinates are translated by a fixed integer offset before being
// checked against the canvas bounds. Writes that land outside the canvas are
// dropped; a clipped drawing is still a valid drawing.
//
// A PixelCanvas is not safe for concurrent use.
type PixelCanvas struct {
	width, height    int
	offsetX, offsetY int

	penX, penY float32
	pen        Color

	buf []Color
}

// NewPixelCanvas creates a transparent width×height canvas whose origin is
// shifted by (offsetX, offsetY). The pen starts at the program origin with a
// transparent color.
func NewPixelCanvas(width, height, offsetX, offsetY int) *PixelCanvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelCanvas{
		width:   width,
		height:  height,
		offsetX: offsetX,
		offsetY: offsetY,
		pen:     Transparent,
		buf:     make([]Color, width*height),
	}
}

// MovePenTo moves the pen, drawing a line from the previous position when
// the pen color is not fully transparent.
func (c *PixelCanvas) MovePenTo(x, y float32) {
	if !c.pen.IsTransparent() {
		Line(round(c.penX), round(c.penY), round(x), round(y), c.plot)
	}
	c.penX, c.penY = x, y
}

// Blot draws a single pixel at the rounded coordinates.
func (c *PixelCanvas) Blot(x, y float32) {
	c.plot(round(x), round(y))
}

// SetColor changes the pen color.
func (c *PixelCanvas) SetColor(col Color) {
	c.pen = col
}

// plot composites the pen color onto one pixel, in program coordinates.
func (c *PixelCanvas) plot(x, y int) {
	x += c.offsetX
	y += c.offsetY
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	i := y*c.width + x
	c.buf[i] = Overlay(c.pen, c.buf[i])
}

// Size returns the canvas dimensions.
func (c *PixelCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Offset returns the translation applied to program coordinates.
func (c *PixelCanvas) Offset() (x, y int) {
	return c.offsetX, c.offsetY
}

// At returns the pixel at canvas (not program) coordinates. Out of range
// coordinates read as transparent.
func (c *PixelCanvas) At(x, y int) Color {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return Transparent
	}
	return c.buf[y*c.width+x]
}

// RGBA exports the canvas as a row-major byte buffer, 4 bytes per pixel.
func (c *PixelCanvas) RGBA() []byte {
	out := make([]byte, len(c.buf)*4)
	for i, col := range c.buf {
		out[i*4] = col.R
		out[i*4+1] = col.G
		out[i*4+2] = col.B
		out[i*4+3] = col.A
	}
	return out
}

// Image exports the canvas as an image. Canvas colors are straight alpha, so
// the result is an NRGBA image.
func (c *PixelCanvas) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    c.RGBA(),
		Stride: c.width * 4,
		Rect:   image.Rect(0, 0, c.width, c.height),
	}
}
