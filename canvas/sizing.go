package canvas

import "fmt"

// SizingCanvas draws nothing. It tracks the bounding box of every pen
// position so a program can be measured before it is rendered. The box
// starts as the single point (0, 0), where the pen starts.
type SizingCanvas struct {
	minX, minY int
	maxX, maxY int
}

// NewSizingCanvas returns an empty sizing canvas.
func NewSizingCanvas() *SizingCanvas {
	return &SizingCanvas{}
}

// MovePenTo folds the rounded position into the bounding box.
func (s *SizingCanvas) MovePenTo(x, y float32) {
	ix, iy := round(x), round(y)
	s.minX = min(s.minX, ix)
	s.minY = min(s.minY, iy)
	s.maxX = max(s.maxX, ix)
	s.maxY = max(s.maxY, iy)
}

// Blot is a no-op; the blot position was already folded in by MovePenTo.
func (s *SizingCanvas) Blot(x, y float32) {}

// SetColor is a no-op. Transparent travel counts towards the size.
func (s *SizingCanvas) SetColor(Color) {}

// Bounds returns the raw bounding box.
func (s *SizingCanvas) Bounds() (minX, minY, maxX, maxY int) {
	s.check()
	return s.minX, s.minY, s.maxX, s.maxY
}

// Dimensions returns the canvas size needed to hold everything visited.
func (s *SizingCanvas) Dimensions() (width, height int) {
	s.check()
	return s.maxX - s.minX + 1, s.maxY - s.minY + 1
}

// Offsets returns the translation that maps the visited area into
// non-negative coordinates of a canvas sized by Dimensions.
func (s *SizingCanvas) Offsets() (x, y int) {
	s.check()
	return -s.minX, -s.minY
}

func (s *SizingCanvas) check() {
	if s.maxX < s.minX || s.maxY < s.minY {
		panic(fmt.Sprintf("canvas: inverted sizing box (%d,%d)-(%d,%d)", s.minX, s.minY, s.maxX, s.maxY))
	}
}
